// SPDX-License-Identifier: Apache-2.0

// Package cli implements the asbuilt command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/di"
	"github.com/asbuiltproj/asbuilt-mcp/internal/render"
)

// app is the state shared by all subcommands once the root command has
// resolved its configuration.
type app struct {
	version string
	viper   *viper.Viper
	cfg     Config
	logger  *logrus.Logger
	runtime *di.Runtime
}

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version, viper: newViper()}

	cmd := &cobra.Command{
		Use:   "asbuilt",
		Short: "View, compare and checksum vehicle AsBuilt configuration files",
		Long: `asbuilt reads vehicle AsBuilt (.ab) configuration files.

It prints a file as a report grouped by module, compares the configuration
of two vehicles down to the individual hex nibble, computes the checksum
byte of a configuration block, and serves the same operations as MCP tools.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	bindFlags(cmd, a.viper)

	cmd.AddCommand(
		newViewCmd(a),
		newCompareCmd(a),
		newChecksumCmd(a),
		newExportCmd(a),
		newMCPCmd(a),
	)
	return cmd
}

// Execute runs cmd and returns its error.
func Execute(cmd *cobra.Command) error {
	if err := cmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.viper)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg)
	a.runtime = di.NewRuntime(a.logger, cfg.Catalog)

	a.logger.WithFields(logrus.Fields{
		"config":  a.viper.ConfigFileUsed(),
		"catalog": cfg.Catalog,
		"output":  cfg.Output,
	}).Debug("configuration loaded")
	return nil
}

func (a *app) renderOptions(cmd *cobra.Command) render.Options {
	return render.Options{Color: a.cfg.ColorEnabled(cmd.OutOrStdout())}
}

// loadError logs the underlying error and returns the message a user is shown.
func (a *app) loadError(prefix string, err error) error {
	a.logger.WithError(err).Debug("load failed")
	msg := asbuilt.UserMessage(err)
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	return errors.New(msg)
}
