// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/spf13/cobra"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
	"github.com/asbuiltproj/asbuilt-mcp/internal/di"
	"github.com/asbuiltproj/asbuilt-mcp/internal/render"
	"github.com/asbuiltproj/asbuilt-mcp/internal/report"
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view FILE",
		Short: "Print an AsBuilt file as a report grouped by module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runtime.Invoke(func(i di.Injector) error {
				return di.WithDocuments(func(cmd *cobra.Command, loader *asbuilt.Loader, cat *catalog.Catalog) error {
					res, err := loader.LoadFile(cmd.Context(), args[0])
					if err != nil {
						return a.loadError("", err)
					}
					r := report.Project(res.Document, cat)
					return render.Report(cmd.OutOrStdout(), r, a.cfg.Output, a.renderOptions(cmd))
				})(cmd, i)
			})
		},
	}
}
