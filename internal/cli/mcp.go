// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"log/slog"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/asbuiltproj/asbuilt-mcp/internal/di"
	"github.com/asbuiltproj/asbuilt-mcp/internal/server"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server",
		Long: `Start an MCP server that exposes view_asbuilt, compare_asbuilt and
compute_checksum as tools.

The server uses stdio for communication and runs until the client
disconnects or the process is terminated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runtime.Invoke(func(i di.Injector) error {
				loader, err := di.ResolveLoader(i)
				if err != nil {
					return err
				}
				cat, err := di.ResolveCatalog(i)
				if err != nil {
					return err
				}

				cfg := server.DefaultConfig(loader, a.version)
				cfg.Catalog = cat
				cfg.Logger = slog.New(slog.NewTextHandler(a.logger.Out, &slog.HandlerOptions{
					Level: slogLevel(a.logger.GetLevel()),
				}))

				if err := server.RunServer(cmd.Context(), cfg); err != nil {
					return fmt.Errorf("running MCP server: %w", err)
				}
				return nil
			})
		},
	}
}

func slogLevel(level logrus.Level) slog.Level {
	switch {
	case level >= logrus.DebugLevel:
		return slog.LevelDebug
	case level == logrus.InfoLevel:
		return slog.LevelInfo
	case level == logrus.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
