// SPDX-License-Identifier: Apache-2.0

package asbuilt

import (
	"context"
	"sort"
	"strings"
)

// ModuleRecord is one configuration block of a module: a PREFIX-BLOCK-INDEX label
// and up to three four-character code words.
type ModuleRecord struct {
	Label string   `json:"label" yaml:"label"`
	Codes []string `json:"codes" yaml:"codes"`
}

// ModulePrefix returns the 3-character module identifier of the label.
func (r ModuleRecord) ModulePrefix() string {
	return LabelPrefix(r.Label)
}

// LabelPrefix returns the part of a label before its first dash.
func LabelPrefix(label string) string {
	prefix, _, _ := strings.Cut(label, "-")
	return prefix
}

// ModuleSet is the record list of one VEHICLE child element, e.g. BCE_MODULE.
type ModuleSet struct {
	Type    string         `json:"type" yaml:"type"`
	Records []ModuleRecord `json:"records" yaml:"records"`
}

type NodeRecord struct {
	Prefix string            `json:"prefix" yaml:"prefix"`
	ID     string            `json:"id,omitempty" yaml:"id,omitempty"`
	FCodes map[string]string `json:"fcodes" yaml:"fcodes"`
}

// JoinKey strips leading zeros from the node prefix and re-pads it to 3 characters
// so it lines up with module label prefixes.
func (n NodeRecord) JoinKey() string {
	return NodeJoinKey(n.Prefix)
}

// NodeJoinKey normalizes a raw node identifier into a module join key.
func NodeJoinKey(raw string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(raw), "0")
	if len(trimmed) >= 3 {
		return trimmed
	}
	return strings.Repeat("0", 3-len(trimmed)) + trimmed
}

// Identity is the value compared when checking whether a node changed. The ID
// attribute wins when the file carries one; otherwise the join key is used, so
// 07E0 and 7E0 are the same node.
func (n NodeRecord) Identity() string {
	if n.ID != "" {
		return n.ID
	}
	return n.JoinKey()
}

// PartNumber returns the ECU delivery assembly number (F113) of the node.
func (n NodeRecord) PartNumber() string {
	return n.FCodes[PartNumberFCode]
}

// FCodeKeys returns the node's F-code keys in sorted order.
func (n NodeRecord) FCodeKeys() []string {
	keys := make([]string, 0, len(n.FCodes))
	for k := range n.FCodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type ErrorRecord struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
}

// Document is the canonical form of one AsBuilt file.
type Document struct {
	VIN      string        `json:"vin" yaml:"vin"`
	Modules  []ModuleSet   `json:"modules" yaml:"modules"`
	Nodes    []NodeRecord  `json:"nodes" yaml:"nodes"`
	Errors   []ErrorRecord `json:"errors" yaml:"errors"`
	Sections []ModuleSet   `json:"sections" yaml:"sections"`
}

// ModuleRecordsByModuleType returns the module records keyed by element name.
func (d *Document) ModuleRecordsByModuleType() map[string][]ModuleRecord {
	out := make(map[string][]ModuleRecord, len(d.Modules))
	for _, set := range d.Modules {
		out[set.Type] = set.Records
	}
	return out
}

// ModuleTypes returns the _MODULE element names in document order.
func (d *Document) ModuleTypes() []string {
	types := make([]string, len(d.Modules))
	for i, set := range d.Modules {
		types[i] = set.Type
	}
	return types
}

// AllModuleRecords flattens every _MODULE record set in module-type order.
func (d *Document) AllModuleRecords() []ModuleRecord {
	var out []ModuleRecord
	for _, set := range d.Modules {
		out = append(out, set.Records...)
	}
	return out
}

// PartNumbers maps node join keys to their F113 part number. Nodes without a part
// number are left out.
func (d *Document) PartNumbers() map[string]string {
	out := make(map[string]string, len(d.Nodes))
	for _, n := range d.Nodes {
		if pn := n.PartNumber(); pn != "" {
			out[n.JoinKey()] = pn
		}
	}
	return out
}

// Source describes the raw input handed to the loader.
type Source struct {
	// Content is the raw file content.
	Content []byte
	// Name is the file name; its extension drives decoder selection.
	Name   string
	Format string
}

type Decoder interface {
	CanHandle(source Source) bool
	Decode(ctx context.Context, source Source) (*Document, error)
	Name() string
}
