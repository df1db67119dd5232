// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/asbuiltproj/asbuilt-mcp/internal/report"
)

// MetadataViewAsBuilt describes the view_asbuilt tool.
var MetadataViewAsBuilt = &mcp.Tool{
	Name: "view_asbuilt",
	Description: "Parse a vehicle AsBuilt configuration file and return it as a report: the VIN, " +
		"any recorded errors, one row per diagnostic node with its F-code fields, and the " +
		"configuration blocks grouped by module with human-readable module names. " +
		"Accepts AsBuilt XML (.ab) or a previously exported YAML/JSON snapshot.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"content"},
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Raw content of the AsBuilt file",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "File name of the document. Its extension selects the decoder; defaults to document.ab.",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Optional format hint. snapshot, yaml, yml and json read a snapshot whatever the name; asbuilt, ab and xml still require a .ab name (or one without extension).",
				"enum":        documentFormats,
			},
		},
	},
}

// InputViewAsBuilt is the input for the ViewAsBuilt tool.
type InputViewAsBuilt struct {
	Content string `json:"content"`
	Name    string `json:"name"`
	Format  string `json:"format"`
}

// OutputViewAsBuilt is the output for the ViewAsBuilt tool.
type OutputViewAsBuilt struct {
	Report report.Report `json:"report"`
	// DecoderUsed is the name of the decoder that read the document.
	DecoderUsed string `json:"decoder_used"`
}

// ViewAsBuilt loads one document and projects it into a report.
func (h *Handlers) ViewAsBuilt(ctx context.Context, _ *mcp.CallToolRequest, input InputViewAsBuilt) (*mcp.CallToolResult, OutputViewAsBuilt, error) {
	if input.Content == "" {
		return nil, OutputViewAsBuilt{}, fmt.Errorf("content is required")
	}

	res, err := h.Loader.LoadWithMeta(ctx, source(input.Content, input.Name, input.Format))
	if err != nil {
		return nil, OutputViewAsBuilt{}, userError("", err)
	}

	return nil, OutputViewAsBuilt{
		Report:      report.Project(res.Document, h.Catalog),
		DecoderUsed: res.DecoderUsed,
	}, nil
}
