// SPDX-License-Identifier: Apache-2.0

// Package report projects a normalized AsBuilt document into the grouped,
// named and ordered structure shown to a reader.
package report

import (
	"strings"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
)

// UnknownVIN is shown when a document carries no VIN.
const UnknownVIN = "Unknown VIN"

// FCodeColumn is one column of the node table.
type FCodeColumn struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// NodeRow is one NODEID entry with its resolved module name.
type NodeRow struct {
	Prefix     string            `json:"prefix" yaml:"prefix"`
	JoinKey    string            `json:"joinKey" yaml:"joinKey"`
	ModuleName string            `json:"moduleName" yaml:"moduleName"`
	FCodes     map[string]string `json:"fcodes" yaml:"fcodes"`
}

// ModuleGroup holds every record sharing one 3-character module prefix.
type ModuleGroup struct {
	Prefix     string                 `json:"prefix" yaml:"prefix"`
	LongName   string                 `json:"longName" yaml:"longName"`
	ShortName  string                 `json:"shortName" yaml:"shortName"`
	PartNumber string                 `json:"partNumber,omitempty" yaml:"partNumber,omitempty"`
	Records    []asbuilt.ModuleRecord `json:"records" yaml:"records"`
}

// Section is a non-module VEHICLE child that carries DATA blocks.
type Section struct {
	Name    string                 `json:"name" yaml:"name"`
	Title   string                 `json:"title" yaml:"title"`
	Records []asbuilt.ModuleRecord `json:"records" yaml:"records"`
}

type Report struct {
	VIN     string                `json:"vin" yaml:"vin"`
	Errors  []asbuilt.ErrorRecord `json:"errors" yaml:"errors"`
	Columns []FCodeColumn         `json:"columns" yaml:"columns"`
	Nodes   []NodeRow             `json:"nodes" yaml:"nodes"`
	Modules []ModuleGroup         `json:"modules" yaml:"modules"`
	Other   []Section             `json:"other" yaml:"other"`
}

// Project groups the document's module records by prefix and resolves names
// through cat. Node rows are ordered by module name, module groups by long
// name and other sections by element name.
func Project(doc *asbuilt.Document, cat *catalog.Catalog) Report {
	if cat == nil {
		cat = catalog.Empty()
	}
	r := Report{
		VIN:     doc.VIN,
		Errors:  append([]asbuilt.ErrorRecord{}, doc.Errors...),
		Columns: []FCodeColumn{},
		Nodes:   []NodeRow{},
		Modules: []ModuleGroup{},
		Other:   []Section{},
	}
	if r.VIN == "" {
		r.VIN = UnknownVIN
	}

	keys := map[string]bool{}
	for _, n := range doc.Nodes {
		fcodes := make(map[string]string, len(n.FCodes))
		for k, v := range n.FCodes {
			fcodes[k] = v
			keys[k] = true
		}
		r.Nodes = append(r.Nodes, NodeRow{
			Prefix:     n.Prefix,
			JoinKey:    n.JoinKey(),
			ModuleName: cat.NodeName(n.JoinKey()),
			FCodes:     fcodes,
		})
	}
	for k := range keys {
		r.Columns = append(r.Columns, FCodeColumn{Key: k, Label: cat.FCodeLabel(k)})
	}
	SortByName(r.Columns, func(c FCodeColumn) string { return c.Key })
	SortByName(r.Nodes, func(n NodeRow) string { return n.ModuleName })

	partNumbers := doc.PartNumbers()
	index := map[string]int{}
	for _, rec := range doc.AllModuleRecords() {
		prefix := rec.ModulePrefix()
		i, ok := index[prefix]
		if !ok {
			info := cat.ModuleOrDefault(prefix)
			i = len(r.Modules)
			index[prefix] = i
			r.Modules = append(r.Modules, ModuleGroup{
				Prefix:     prefix,
				LongName:   info.LongName,
				ShortName:  info.ShortName,
				PartNumber: partNumbers[prefix],
			})
		}
		r.Modules[i].Records = append(r.Modules[i].Records, rec)
	}
	SortByName(r.Modules, func(g ModuleGroup) string { return g.LongName })

	for _, set := range doc.Sections {
		r.Other = append(r.Other, Section{
			Name:    set.Type,
			Title:   strings.Replace(set.Type, "_", " ", 1),
			Records: set.Records,
		})
	}
	SortByName(r.Other, func(s Section) string { return s.Name })
	return r
}

// Flatten returns the module records of every group, in report order.
func Flatten(r Report) []asbuilt.ModuleRecord {
	var out []asbuilt.ModuleRecord
	for _, g := range r.Modules {
		out = append(out, g.Records...)
	}
	return out
}
