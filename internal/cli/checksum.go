// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/spf13/cobra"

	"github.com/asbuiltproj/asbuilt-mcp/internal/checksum"
	"github.com/asbuiltproj/asbuilt-mcp/internal/render"
)

func newChecksumCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checksum MODULE_ID CODE1 [CODE2 [CODE3]]",
		Short: "Compute the checksum byte of a configuration block",
		Long: `Compute the checksum byte of a configuration block.

MODULE_ID has the format HHH-XX-XX (HHH is hex, XX is numeric). The checksum
replaces the last two characters of the last code given.`,
		Example: "  asbuilt checksum 7E0-01-01 2AA0 00FF",
		Args:    cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := make([]string, 4)
			copy(codes, args)
			res, err := checksum.Compute(codes[0], codes[1], codes[2], codes[3])
			if err != nil {
				return err
			}
			return render.Checksum(cmd.OutOrStdout(), res, a.cfg.Output, a.renderOptions(cmd))
		},
	}
}
