// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt/decoders"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
	"github.com/asbuiltproj/asbuilt-mcp/internal/di"
)

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write an AsBuilt file as a YAML snapshot",
		Long: `Write the normalized form of an AsBuilt file as YAML.

Snapshots can be passed to view and compare in place of the original file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runtime.Invoke(func(i di.Injector) error {
				return di.WithDocuments(func(cmd *cobra.Command, loader *asbuilt.Loader, _ *catalog.Catalog) error {
					res, err := loader.LoadFile(cmd.Context(), args[0])
					if err != nil {
						return a.loadError("", err)
					}
					data, err := decoders.EncodeSnapshot(res.Document)
					if err != nil {
						return err
					}
					if out == "" {
						_, err = cmd.OutOrStdout().Write(data)
						return err
					}
					if err := os.WriteFile(out, data, 0o644); err != nil {
						return fmt.Errorf("write snapshot %s: %w", out, err)
					}
					a.logger.WithField("path", out).Info("snapshot written")
					return nil
				})(cmd, i)
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write the snapshot to this path instead of stdout")
	return cmd
}
