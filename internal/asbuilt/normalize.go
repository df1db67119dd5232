// SPDX-License-Identifier: Apache-2.0

package asbuilt

import (
	"strings"
)

const (
	RootElement    = "AS_BUILT_DATA"
	VehicleElement = "VEHICLE"

	moduleSuffix    = "_MODULE"
	dataElement     = "DATA"
	codeElement     = "CODE"
	labelAttr       = "LABEL"
	vinKey          = "VIN"
	nodeElement     = "NODEID"
	errorElement    = "ERROR"
	vehicleDataElem = "VEHICLE_DATA"

	// PartNumberFCode is the F-code holding a node's delivery assembly number.
	PartNumberFCode = "F113"
)

// MaxCodes is the number of code slots in one configuration block.
const MaxCodes = 3

// metaElements are VEHICLE children that never hold configuration blocks.
var metaElements = map[string]bool{
	vinKey:          true,
	vehicleDataElem: true,
	nodeElement:     true,
	errorElement:    true,
}

// Normalize turns the parsed tree of an AsBuilt file into a Document. The root
// must hold AS_BUILT_DATA, which must hold a non-empty VEHICLE.
func Normalize(root RawNode) (*Document, error) {
	if root == nil {
		return nil, malformed("empty document")
	}
	if _, ok := root[RootElement]; !ok {
		return nil, malformed("missing %s root element", RootElement)
	}
	data, _ := root.Child(RootElement)

	raw, ok := data[VehicleElement]
	if !ok {
		return nil, malformed("missing %s element", VehicleElement)
	}
	if _, isText := raw.(string); isText {
		return nil, malformed("%s element has no content", VehicleElement)
	}
	vehicle, _ := data.Child(VehicleElement)

	doc := &Document{
		VIN:      vehicleVIN(vehicle),
		Modules:  []ModuleSet{},
		Sections: []ModuleSet{},
		Nodes:    parseNodes(vehicle.Many(nodeElement)),
		Errors:   parseErrors(vehicle.Many(errorElement)),
	}

	for _, name := range vehicle.Elements() {
		switch {
		case strings.HasSuffix(name, moduleSuffix):
			records, err := parseModule(name, vehicle.Many(name), true)
			if err != nil {
				return nil, err
			}
			doc.Modules = append(doc.Modules, ModuleSet{Type: name, Records: records})
		case metaElements[name]:
		default:
			// Other sections are display-only; duplicate labels are kept.
			records, _ := parseModule(name, vehicle.Many(name), false)
			if len(records) > 0 {
				doc.Sections = append(doc.Sections, ModuleSet{Type: name, Records: records})
			}
		}
	}
	return doc, nil
}

func vehicleVIN(vehicle RawNode) string {
	if vin, ok := vehicle.Attr(vinKey); ok && vin != "" {
		return vin
	}
	if node, ok := vehicle.Child(vinKey); ok {
		return node.Text()
	}
	return ""
}

func parseModule(moduleType string, modules []RawNode, unique bool) ([]ModuleRecord, error) {
	records := []ModuleRecord{}
	seen := make(map[string]bool)
	for _, module := range modules {
		for _, data := range module.Many(dataElement) {
			label, _ := data.Attr(labelAttr)
			if label == "" {
				continue
			}
			if unique && seen[label] {
				return nil, malformed("duplicate label %q in %s", label, moduleType)
			}
			seen[label] = true
			records = append(records, ModuleRecord{Label: label, Codes: dataCodes(data)})
		}
	}
	return records, nil
}

func dataCodes(data RawNode) []string {
	codes := []string{}
	for _, c := range data.Many(codeElement) {
		codes = append(codes, PadCode(c.Text()))
	}
	if len(codes) == 0 {
		for _, attr := range []string{"CODE1", "CODE2", "CODE3"} {
			if v, ok := data.Attr(attr); ok && v != "" {
				codes = append(codes, PadCode(v))
			}
		}
	}
	if len(codes) > MaxCodes {
		codes = codes[:MaxCodes]
	}
	return codes
}

func parseNodes(nodes []RawNode) []NodeRecord {
	out := []NodeRecord{}
	for _, node := range nodes {
		prefix := node.Text()
		if prefix == "" {
			continue
		}
		rec := NodeRecord{Prefix: prefix, FCodes: map[string]string{}}
		rec.ID, _ = node.Attr("ID")
		for _, name := range node.Elements() {
			if !strings.HasPrefix(name, "F") {
				continue
			}
			if child, ok := node.Child(name); ok {
				rec.FCodes[name] = child.Text()
			}
		}
		out = append(out, rec)
	}
	return out
}

func parseErrors(nodes []RawNode) []ErrorRecord {
	out := []ErrorRecord{}
	for _, node := range nodes {
		out = append(out, ErrorRecord{
			Code:        firstValue(node, "CODE", "ERRORCODE"),
			Description: firstValue(node, "DESC", "ERRORMSG"),
		})
	}
	return out
}

// firstValue looks names up as attributes first, then as child elements.
func firstValue(node RawNode, names ...string) string {
	for _, name := range names {
		if v, ok := node.Attr(name); ok && v != "" {
			return v
		}
	}
	for _, name := range names {
		if child, ok := node.Child(name); ok && child.Text() != "" {
			return child.Text()
		}
	}
	return ""
}

// Canonicalize applies the normalization rules to a Document built outside
// Normalize, such as a decoded snapshot: codes are padded and capped, empty
// slices are allocated and label uniqueness is checked for module records.
func Canonicalize(doc *Document) error {
	if doc == nil {
		return malformed("empty document")
	}
	fix := func(sets []ModuleSet, unique bool) ([]ModuleSet, error) {
		if sets == nil {
			return []ModuleSet{}, nil
		}
		for i := range sets {
			seen := make(map[string]bool, len(sets[i].Records))
			for j := range sets[i].Records {
				rec := &sets[i].Records[j]
				if rec.Label == "" {
					return nil, malformed("record without label in %s", sets[i].Type)
				}
				if unique && seen[rec.Label] {
					return nil, malformed("duplicate label %q in %s", rec.Label, sets[i].Type)
				}
				seen[rec.Label] = true
				codes := make([]string, 0, len(rec.Codes))
				for _, c := range rec.Codes {
					codes = append(codes, PadCode(strings.TrimSpace(c)))
				}
				if len(codes) > MaxCodes {
					codes = codes[:MaxCodes]
				}
				rec.Codes = codes
			}
			if sets[i].Records == nil {
				sets[i].Records = []ModuleRecord{}
			}
		}
		return sets, nil
	}

	var err error
	if doc.Modules, err = fix(doc.Modules, true); err != nil {
		return err
	}
	if doc.Sections, err = fix(doc.Sections, false); err != nil {
		return err
	}
	if doc.Nodes == nil {
		doc.Nodes = []NodeRecord{}
	}
	for i := range doc.Nodes {
		if doc.Nodes[i].FCodes == nil {
			doc.Nodes[i].FCodes = map[string]string{}
		}
	}
	if doc.Errors == nil {
		doc.Errors = []ErrorRecord{}
	}
	return nil
}
