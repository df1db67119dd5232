// SPDX-License-Identifier: Apache-2.0

// Package compare aligns two normalized AsBuilt documents and reports, per
// configuration block, which nibbles of which code words differ, and per
// node, whether its identity or part number changed.
package compare

import (
	"strings"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
	"github.com/asbuiltproj/asbuilt-mcp/internal/report"
)

// NotAvailable stands in for a code, identity or part number the other
// document does not have.
const NotAvailable = "N/A"

type SlotState string

const (
	SlotMatched   SlotState = "matched"
	SlotMismatch  SlotState = "mismatch"
	SlotEmpty     SlotState = "empty"
	SlotAbsentInA SlotState = "absent_in_a"
	SlotAbsentInB SlotState = "absent_in_b"
)

// SlotDiff is the outcome for one of the three code slots of a block.
// Positions holds the differing character indices and is only non-empty for
// SlotMismatch.
type SlotDiff struct {
	State     SlotState `json:"state" yaml:"state"`
	Positions []int     `json:"positions" yaml:"positions"`
}

// CodeComparison is one label aligned across both documents. For a record
// missing on one side, that side's codes are three NotAvailable sentinels and
// no positions are reported.
type CodeComparison struct {
	Label      string     `json:"label" yaml:"label"`
	ModuleType string     `json:"moduleType" yaml:"moduleType"`
	CodesA     []string   `json:"codesA" yaml:"codesA"`
	CodesB     []string   `json:"codesB" yaml:"codesB"`
	Slots      []SlotDiff `json:"slots" yaml:"slots"`
}

// Prefix returns the module prefix of the label.
func (c CodeComparison) Prefix() string {
	return asbuilt.LabelPrefix(c.Label)
}

// Differences returns the differing character indices for each slot.
func (c CodeComparison) Differences() [][]int {
	out := make([][]int, len(c.Slots))
	for i, s := range c.Slots {
		out[i] = append([]int{}, s.Positions...)
	}
	return out
}

// Differs reports whether any slot has a differing character.
func (c CodeComparison) Differs() bool {
	for _, s := range c.Slots {
		if len(s.Positions) > 0 {
			return true
		}
	}
	return false
}

// Missing reports whether the record exists in only one document.
func (c CodeComparison) Missing() bool {
	for _, s := range c.Slots {
		if s.State == SlotAbsentInA || s.State == SlotAbsentInB {
			return true
		}
	}
	return false
}

// Group rolls up the comparisons of one module prefix.
type Group struct {
	Prefix           string           `json:"prefix" yaml:"prefix"`
	LongName         string           `json:"longName" yaml:"longName"`
	ShortName        string           `json:"shortName" yaml:"shortName"`
	PartNumberA      string           `json:"partNumberA" yaml:"partNumberA"`
	PartNumberB      string           `json:"partNumberB" yaml:"partNumberB"`
	PartNumbersMatch bool             `json:"partNumbersMatch" yaml:"partNumbersMatch"`
	Blocks           int              `json:"blocks" yaml:"blocks"`
	Differing        int              `json:"differing" yaml:"differing"`
	Missing          int              `json:"missing" yaml:"missing"`
	Identical        bool             `json:"identical" yaml:"identical"`
	Results          []CodeComparison `json:"results" yaml:"results"`
}

type NodeChange string

const (
	NodeIDChanged       NodeChange = "Node ID changed"
	PartNumberChanged   NodeChange = "Part number changed"
	NodeMissingInCarOne NodeChange = "Node missing in Car 1"
	NodeMissingInCarTwo NodeChange = "Node missing in Car 2"
)

// NodeComparison is a node whose identity or part number differs between the
// documents. Identical nodes produce no NodeComparison.
type NodeComparison struct {
	Label       string       `json:"label" yaml:"label"`
	ValueA      string       `json:"valueA" yaml:"valueA"`
	ValueB      string       `json:"valueB" yaml:"valueB"`
	PartNumberA string       `json:"partNumberA" yaml:"partNumberA"`
	PartNumberB string       `json:"partNumberB" yaml:"partNumberB"`
	Changes     []NodeChange `json:"changes" yaml:"changes"`
	Difference  string       `json:"difference" yaml:"difference"`
}

type NodeGroup struct {
	Prefix  string           `json:"prefix" yaml:"prefix"`
	Name    string           `json:"name" yaml:"name"`
	Results []NodeComparison `json:"results" yaml:"results"`
}

type Result struct {
	VINA         string            `json:"vinA" yaml:"vinA"`
	VINB         string            `json:"vinB" yaml:"vinB"`
	Codes        []CodeComparison  `json:"codes" yaml:"codes"`
	Groups       []Group           `json:"groups" yaml:"groups"`
	Nodes        []NodeComparison  `json:"nodes" yaml:"nodes"`
	NodeGroups   []NodeGroup       `json:"nodeGroups" yaml:"nodeGroups"`
	PartNumbersA map[string]string `json:"partNumbersA" yaml:"partNumbersA"`
	PartNumbersB map[string]string `json:"partNumbersB" yaml:"partNumbersB"`
}

// Identical reports whether no block differs and no node changed.
func (r Result) Identical() bool {
	for _, g := range r.Groups {
		if !g.Identical {
			return false
		}
	}
	return len(r.Nodes) == 0
}

// Compare aligns a and b. Module types and labels are the union of both
// documents; document a's order is kept and b-only entries follow.
func Compare(a, b *asbuilt.Document, cat *catalog.Catalog) Result {
	if cat == nil {
		cat = catalog.Empty()
	}
	r := Result{
		VINA:         displayVIN(a.VIN),
		VINB:         displayVIN(b.VIN),
		Codes:        compareModules(a, b),
		Nodes:        compareNodes(a, b),
		PartNumbersA: a.PartNumbers(),
		PartNumbersB: b.PartNumbers(),
	}
	r.Groups = groupCodes(r.Codes, r.PartNumbersA, r.PartNumbersB, cat)
	r.NodeGroups = groupNodes(r.Nodes, cat)
	return r
}

func displayVIN(vin string) string {
	if vin == "" {
		return report.UnknownVIN
	}
	return vin
}

func compareModules(a, b *asbuilt.Document) []CodeComparison {
	byTypeA := a.ModuleRecordsByModuleType()
	byTypeB := b.ModuleRecordsByModuleType()

	out := []CodeComparison{}
	for _, moduleType := range union(a.ModuleTypes(), b.ModuleTypes()) {
		recordsA := indexRecords(byTypeA[moduleType])
		recordsB := indexRecords(byTypeB[moduleType])
		for _, label := range union(labels(byTypeA[moduleType]), labels(byTypeB[moduleType])) {
			recA, inA := recordsA[label]
			recB, inB := recordsB[label]
			c := CodeComparison{Label: label, ModuleType: moduleType}
			switch {
			case !inA:
				c.CodesA = sentinels()
				c.CodesB = append([]string{}, recB.Codes...)
				c.Slots = absent(SlotAbsentInA)
			case !inB:
				c.CodesA = append([]string{}, recA.Codes...)
				c.CodesB = sentinels()
				c.Slots = absent(SlotAbsentInB)
			default:
				c.CodesA = append([]string{}, recA.Codes...)
				c.CodesB = append([]string{}, recB.Codes...)
				c.Slots = compareSlots(recA.Codes, recB.Codes)
			}
			out = append(out, c)
		}
	}
	return out
}

func compareSlots(codesA, codesB []string) []SlotDiff {
	slots := make([]SlotDiff, asbuilt.MaxCodes)
	for i := range slots {
		x, y := at(codesA, i), at(codesB, i)
		positions := Positions(x, y)
		switch {
		case len(positions) > 0:
			slots[i] = SlotDiff{State: SlotMismatch, Positions: positions}
		case x == "":
			slots[i] = SlotDiff{State: SlotEmpty, Positions: []int{}}
		default:
			slots[i] = SlotDiff{State: SlotMatched, Positions: []int{}}
		}
	}
	return slots
}

// Positions returns the character indices at which x and y differ, checking
// up to the longer of the two. A character missing on one side differs.
func Positions(x, y string) []int {
	out := []int{}
	n := max(len(x), len(y))
	for k := 0; k < n; k++ {
		if k >= len(x) || k >= len(y) || x[k] != y[k] {
			out = append(out, k)
		}
	}
	return out
}

func compareNodes(a, b *asbuilt.Document) []NodeComparison {
	nodesA, keysA := indexNodes(a.Nodes)
	nodesB, keysB := indexNodes(b.Nodes)
	partsA, partsB := a.PartNumbers(), b.PartNumbers()

	out := []NodeComparison{}
	for _, key := range union(keysA, keysB) {
		nodeA, inA := nodesA[key]
		nodeB, inB := nodesB[key]
		c := NodeComparison{
			Label:       key,
			ValueA:      NotAvailable,
			ValueB:      NotAvailable,
			PartNumberA: NotAvailable,
			PartNumberB: NotAvailable,
		}
		if inA {
			c.ValueA = nodeA.Identity()
			c.PartNumberA = orNotAvailable(partsA[key])
		}
		if inB {
			c.ValueB = nodeB.Identity()
			c.PartNumberB = orNotAvailable(partsB[key])
		}
		switch {
		case !inA:
			c.Changes = []NodeChange{NodeMissingInCarOne}
		case !inB:
			c.Changes = []NodeChange{NodeMissingInCarTwo}
		default:
			if c.ValueA != c.ValueB {
				c.Changes = append(c.Changes, NodeIDChanged)
			}
			if c.PartNumberA != c.PartNumberB {
				c.Changes = append(c.Changes, PartNumberChanged)
			}
		}
		if len(c.Changes) == 0 {
			continue
		}
		parts := make([]string, len(c.Changes))
		for i, ch := range c.Changes {
			parts[i] = string(ch)
		}
		c.Difference = strings.Join(parts, ", ")
		out = append(out, c)
	}
	return out
}

func groupCodes(results []CodeComparison, partsA, partsB map[string]string, cat *catalog.Catalog) []Group {
	groups := []Group{}
	index := map[string]int{}
	for _, c := range results {
		prefix := c.Prefix()
		i, ok := index[prefix]
		if !ok {
			info := cat.ModuleOrDefault(prefix)
			i = len(groups)
			index[prefix] = i
			groups = append(groups, Group{
				Prefix:           prefix,
				LongName:         info.LongName,
				ShortName:        info.ShortName,
				PartNumberA:      orNotAvailable(partsA[prefix]),
				PartNumberB:      orNotAvailable(partsB[prefix]),
				PartNumbersMatch: partsA[prefix] == partsB[prefix],
				Identical:        true,
			})
		}
		g := &groups[i]
		g.Results = append(g.Results, c)
		g.Blocks++
		if c.Differs() {
			g.Differing++
			g.Identical = false
		}
		if c.Missing() {
			g.Missing++
		}
	}
	report.SortByName(groups, func(g Group) string { return g.LongName })
	return groups
}

func groupNodes(results []NodeComparison, cat *catalog.Catalog) []NodeGroup {
	groups := []NodeGroup{}
	index := map[string]int{}
	for _, c := range results {
		prefix := asbuilt.LabelPrefix(c.Label)
		i, ok := index[prefix]
		if !ok {
			i = len(groups)
			index[prefix] = i
			groups = append(groups, NodeGroup{Prefix: prefix, Name: cat.NodeName(prefix)})
		}
		groups[i].Results = append(groups[i].Results, c)
	}
	report.SortByName(groups, func(g NodeGroup) string { return g.Name })
	return groups
}

// union returns the items of first followed by the items of second not already
// seen, without duplicates.
func union(first, second []string) []string {
	seen := make(map[string]bool, len(first)+len(second))
	out := make([]string, 0, len(first)+len(second))
	for _, list := range [][]string{first, second} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func labels(records []asbuilt.ModuleRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Label
	}
	return out
}

func indexRecords(records []asbuilt.ModuleRecord) map[string]asbuilt.ModuleRecord {
	out := make(map[string]asbuilt.ModuleRecord, len(records))
	for _, r := range records {
		out[r.Label] = r
	}
	return out
}

// indexNodes keys nodes by join key. A later node with the same key replaces
// an earlier one.
func indexNodes(nodes []asbuilt.NodeRecord) (map[string]asbuilt.NodeRecord, []string) {
	out := make(map[string]asbuilt.NodeRecord, len(nodes))
	var keys []string
	for _, n := range nodes {
		key := n.JoinKey()
		if _, ok := out[key]; !ok {
			keys = append(keys, key)
		}
		out[key] = n
	}
	return out, keys
}

func at(codes []string, i int) string {
	if i < len(codes) {
		return codes[i]
	}
	return ""
}

func sentinels() []string {
	return []string{NotAvailable, NotAvailable, NotAvailable}
}

func absent(state SlotState) []SlotDiff {
	slots := make([]SlotDiff, asbuilt.MaxCodes)
	for i := range slots {
		slots[i] = SlotDiff{State: state, Positions: []int{}}
	}
	return slots
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
