// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/asbuiltproj/asbuilt-mcp/internal/compare"
	"github.com/asbuiltproj/asbuilt-mcp/internal/di"
	"github.com/asbuiltproj/asbuilt-mcp/internal/render"
)

// ErrDifferences is returned with --exit-code when the documents differ.
var ErrDifferences = errors.New("documents differ")

func newCompareCmd(a *app) *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "compare CAR1 CAR2",
		Short: "Compare the configuration of two vehicles",
		Long: `Compare two AsBuilt files block by block.

Every configuration block is aligned by label and each code word is compared
character by character. Blocks present in only one file show N/A for the
other. Nodes whose ID or part number changed are listed separately.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runtime.Invoke(func(i di.Injector) error {
				session, err := di.ResolveSession(i)
				if err != nil {
					return err
				}
				cat, err := di.ResolveCatalog(i)
				if err != nil {
					return err
				}

				// Each side's failure is reported on its own.
				var errs []error
				if err := session.LoadFiles(cmd.Context(), args[0], args[1]); err != nil {
					for _, side := range []compare.Side{compare.Car1, compare.Car2} {
						if _, sideErr := session.Document(side); sideErr != nil {
							errs = append(errs, a.loadError(side.String(), sideErr))
						}
					}
					return errors.Join(errs...)
				}

				result, err := session.Compare(cat)
				if err != nil {
					return err
				}
				if err := render.Comparison(cmd.OutOrStdout(), result, a.cfg.Output, a.renderOptions(cmd)); err != nil {
					return err
				}
				if exitCode && !result.Identical() {
					return ErrDifferences
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Exit with an error when the documents differ")
	return cmd
}
