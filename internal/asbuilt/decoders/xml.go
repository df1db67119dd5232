// SPDX-License-Identifier: Apache-2.0

package decoders

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/clbanning/mxj/v2"
)

// XMLDecoder decodes vendor AsBuilt XML (.ab) files. mxj produces the map tree
// with "-" attribute keys, "#text" text keys and repeated siblings as lists,
// which is the shape asbuilt.RawNode expects.
type XMLDecoder struct{}

func NewXMLDecoder() *XMLDecoder {
	return &XMLDecoder{}
}

func (d *XMLDecoder) Name() string {
	return "asbuilt"
}

// CanHandle requires the .ab extension. The "asbuilt", "ab" and "xml" format
// hints also accept a name without extension; content is never sniffed.
func (d *XMLDecoder) CanHandle(source asbuilt.Source) bool {
	ext := filepath.Ext(source.Name)
	if source.Format != "" {
		switch strings.ToLower(source.Format) {
		case "asbuilt", "ab", "xml":
			return ext == "" || strings.EqualFold(ext, ".ab")
		}
		return false
	}
	return strings.EqualFold(ext, ".ab")
}

func (d *XMLDecoder) Decode(_ context.Context, source asbuilt.Source) (*asbuilt.Document, error) {
	if len(strings.TrimSpace(string(source.Content))) == 0 {
		return nil, fmt.Errorf("%w: empty input", asbuilt.ErrMalformedXML)
	}
	m, err := mxj.NewMapXml(source.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", asbuilt.ErrMalformedXML, err)
	}
	return asbuilt.Normalize(asbuilt.RawNode(m))
}
