// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/asbuiltproj/asbuilt-mcp/internal/compare"
)

// MetadataCompareAsBuilt describes the compare_asbuilt tool.
var MetadataCompareAsBuilt = &mcp.Tool{
	Name: "compare_asbuilt",
	Description: "Compare the AsBuilt configuration of two vehicles. Every configuration block is " +
		"aligned by label; for each of its three code words the result lists the character " +
		"positions (0-3) that differ. Blocks present in only one vehicle show N/A codes for the " +
		"other. Nodes whose ID or part number (F113) changed, or which exist in only one vehicle, " +
		"are listed separately. Results are grouped by module.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"car1_content", "car2_content"},
		"properties": map[string]interface{}{
			"car1_content": map[string]interface{}{
				"type":        "string",
				"description": "Raw content of the first vehicle's AsBuilt file",
			},
			"car1_name": map[string]interface{}{
				"type":        "string",
				"description": "File name of the first document; defaults to document.ab.",
			},
			"car2_content": map[string]interface{}{
				"type":        "string",
				"description": "Raw content of the second vehicle's AsBuilt file",
			},
			"car2_name": map[string]interface{}{
				"type":        "string",
				"description": "File name of the second document; defaults to document.ab.",
			},
		},
	},
}

// InputCompareAsBuilt is the input for the CompareAsBuilt tool.
type InputCompareAsBuilt struct {
	Car1Content string `json:"car1_content"`
	Car1Name    string `json:"car1_name"`
	Car2Content string `json:"car2_content"`
	Car2Name    string `json:"car2_name"`
}

// OutputCompareAsBuilt is the output for the CompareAsBuilt tool.
type OutputCompareAsBuilt struct {
	Comparison compare.Result `json:"comparison"`
	// Identical is true when no block differs and no node changed.
	Identical bool `json:"identical"`
}

// CompareAsBuilt loads both documents concurrently and compares them. A
// document that fails to load is reported by its side.
func (h *Handlers) CompareAsBuilt(ctx context.Context, _ *mcp.CallToolRequest, input InputCompareAsBuilt) (*mcp.CallToolResult, OutputCompareAsBuilt, error) {
	if input.Car1Content == "" || input.Car2Content == "" {
		return nil, OutputCompareAsBuilt{}, fmt.Errorf("car1_content and car2_content are required")
	}

	session := compare.NewSession(h.Loader)
	_ = session.LoadSources(ctx,
		source(input.Car1Content, input.Car1Name, ""),
		source(input.Car2Content, input.Car2Name, ""),
	)
	for _, side := range []compare.Side{compare.Car1, compare.Car2} {
		if _, err := session.Document(side); err != nil {
			return nil, OutputCompareAsBuilt{}, userError(side.String(), err)
		}
	}

	result, err := session.Compare(h.Catalog)
	if err != nil {
		return nil, OutputCompareAsBuilt{}, err
	}
	return nil, OutputCompareAsBuilt{Comparison: result, Identical: result.Identical()}, nil
}
