// SPDX-License-Identifier: Apache-2.0

package decoders

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/goccy/go-yaml"
)

// SnapshotDecoder reads documents previously written by EncodeSnapshot. JSON is
// accepted too since it is valid YAML.
type SnapshotDecoder struct{}

func NewSnapshotDecoder() *SnapshotDecoder {
	return &SnapshotDecoder{}
}

func (d *SnapshotDecoder) Name() string {
	return "snapshot"
}

// CanHandle prefers the format hint over the file extension.
func (d *SnapshotDecoder) CanHandle(source asbuilt.Source) bool {
	if source.Format != "" {
		switch strings.ToLower(source.Format) {
		case "snapshot", "yaml", "yml", "json":
			return true
		}
		return false
	}
	switch strings.ToLower(filepath.Ext(source.Name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func (d *SnapshotDecoder) Decode(_ context.Context, source asbuilt.Source) (*asbuilt.Document, error) {
	if len(strings.TrimSpace(string(source.Content))) == 0 {
		return nil, fmt.Errorf("%w: empty snapshot", asbuilt.ErrMalformedDocument)
	}
	var doc asbuilt.Document
	if err := yaml.Unmarshal(source.Content, &doc); err != nil {
		return nil, fmt.Errorf("%w: snapshot: %v", asbuilt.ErrMalformedDocument, err)
	}
	if err := asbuilt.Canonicalize(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeSnapshot renders doc in the YAML form SnapshotDecoder reads back.
func EncodeSnapshot(doc *asbuilt.Document) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return out, nil
}

// Default returns the decoders used by the CLI and the MCP tools, most specific first.
func Default() []asbuilt.Decoder {
	return []asbuilt.Decoder{
		NewXMLDecoder(),
		NewSnapshotDecoder(),
	}
}
