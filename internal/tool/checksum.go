// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/asbuiltproj/asbuilt-mcp/internal/checksum"
)

// MetadataComputeChecksum describes the compute_checksum tool.
var MetadataComputeChecksum = &mcp.Tool{
	Name: "compute_checksum",
	Description: "Compute the checksum byte of a module configuration block. The checksum replaces " +
		"the last two characters of the last code entered (code3, else code2, else code1). " +
		"Returns the corrected block as \"MODULE_ID : [code1] [code2] [code3]\".",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"module_id", "code1"},
		"properties": map[string]interface{}{
			"module_id": map[string]interface{}{
				"type":        "string",
				"description": "Block identifier in the format HHH-XX-XX, e.g. 7E0-01-01 (HHH is hex, XX is numeric)",
				"pattern":     "^[0-9A-Fa-f]{3}-[0-9]{2}-[0-9]{2}$",
			},
			"code1": map[string]interface{}{
				"type":        "string",
				"description": "First code word, exactly 4 hex characters",
			},
			"code2": map[string]interface{}{
				"type":        "string",
				"description": "Optional second code word, 4 hex characters",
			},
			"code3": map[string]interface{}{
				"type":        "string",
				"description": "Optional third code word, 4 hex characters",
			},
		},
	},
}

// InputComputeChecksum is the input for the ComputeChecksum tool.
type InputComputeChecksum struct {
	ModuleID string `json:"module_id"`
	Code1    string `json:"code1"`
	Code2    string `json:"code2"`
	Code3    string `json:"code3"`
}

// OutputComputeChecksum is the output for the ComputeChecksum tool.
type OutputComputeChecksum struct {
	// Formatted is the block in "MODULE_ID : [c1] [c2] [c3]" form.
	Formatted string          `json:"formatted"`
	Result    checksum.Result `json:"result"`
}

// ComputeChecksum computes the checksum of one configuration block.
func ComputeChecksum(_ context.Context, _ *mcp.CallToolRequest, input InputComputeChecksum) (*mcp.CallToolResult, OutputComputeChecksum, error) {
	res, err := checksum.Compute(input.ModuleID, input.Code1, input.Code2, input.Code3)
	if err != nil {
		return nil, OutputComputeChecksum{}, err
	}
	return nil, OutputComputeChecksum{Formatted: res.String(), Result: res}, nil
}
