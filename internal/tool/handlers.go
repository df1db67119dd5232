// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
)

// defaultDocumentName is used when a caller omits the document name; it
// selects the AsBuilt XML decoder.
const defaultDocumentName = "document.ab"

// Handlers carries the collaborators the tools share.
type Handlers struct {
	Loader  *asbuilt.Loader
	Catalog *catalog.Catalog
}

// Register adds every AsBuilt tool to server.
func Register(server *mcp.Server, h *Handlers) {
	mcp.AddTool(server, MetadataViewAsBuilt, h.ViewAsBuilt)
	mcp.AddTool(server, MetadataCompareAsBuilt, h.CompareAsBuilt)
	mcp.AddTool(server, MetadataComputeChecksum, ComputeChecksum)
}

func source(content, name, format string) asbuilt.Source {
	if name == "" {
		name = defaultDocumentName
	}
	return asbuilt.Source{Content: []byte(content), Name: filepath.Base(name), Format: format}
}

// userError replaces a load failure with the message a user is shown.
func userError(prefix string, err error) error {
	msg := asbuilt.UserMessage(err)
	if prefix != "" {
		msg = fmt.Sprintf("%s: %s", prefix, msg)
	}
	return errors.New(msg)
}

var documentFormats = []string{"asbuilt", "ab", "xml", "snapshot", "yaml", "yml", "json"}
