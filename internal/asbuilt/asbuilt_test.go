// SPDX-License-Identifier: Apache-2.0

package asbuilt_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
)

// ---------------------------------------------------------------------------
// PadCode
// ---------------------------------------------------------------------------

func TestPadCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "B4", want: "00B4"},
		{in: "00B4", want: "00B4"},
		{in: "7", want: "0007"},
		{in: "a1c", want: "0a1c"},
		{in: "8A6A", want: "8A6A"},
		{in: "12345", want: "12345"},
		{in: "XYZ", want: "XYZ"},
		{in: "", want: ""},
		{in: "JX7T-14C689-AE", want: "JX7T-14C689-AE"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := asbuilt.PadCode(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, asbuilt.PadCode(got), "padding must be idempotent")
		})
	}
}

func TestPadCode_AllShortHexLengths(t *testing.T) {
	for _, s := range []string{"F", "FF", "FFF", "FFFF"} {
		got := asbuilt.PadCode(s)
		assert.Equal(t, strings.Repeat("0", 4-len(s))+s, got)
		assert.Equal(t, got, asbuilt.PadCode(got))
	}
}

// ---------------------------------------------------------------------------
// RawNode
// ---------------------------------------------------------------------------

func TestRawNode_Many(t *testing.T) {
	tests := []struct {
		name      string
		node      asbuilt.RawNode
		wantTexts []string
	}{
		{
			name:      "missing child yields empty sequence",
			node:      asbuilt.RawNode{},
			wantTexts: nil,
		},
		{
			name:      "single scalar child is lifted",
			node:      asbuilt.RawNode{"CODE": "8A6A"},
			wantTexts: []string{"8A6A"},
		},
		{
			name:      "single subtree child",
			node:      asbuilt.RawNode{"CODE": map[string]any{"#text": "0592", "-X": "1"}},
			wantTexts: []string{"0592"},
		},
		{
			name:      "repeated siblings keep order",
			node:      asbuilt.RawNode{"CODE": []any{"8A6A", map[string]any{"#text": "0592"}, "50B4"}},
			wantTexts: []string{"8A6A", "0592", "50B4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var texts []string
			for _, child := range tt.node.Many("CODE") {
				texts = append(texts, child.Text())
			}
			assert.Equal(t, tt.wantTexts, texts)
		})
	}
}

func TestRawNode_AttrAndElements(t *testing.T) {
	node := asbuilt.RawNode{
		"-LABEL": " 7D0-01-01 ",
		"#text":  "ignored",
		"CODE":   "1",
		"B":      "2",
	}
	label, ok := node.Attr("LABEL")
	require.True(t, ok)
	assert.Equal(t, "7D0-01-01", label)

	_, ok = node.Attr("MISSING")
	assert.False(t, ok)

	assert.Equal(t, []string{"B", "CODE"}, node.Elements())
}

// ---------------------------------------------------------------------------
// Normalize
// ---------------------------------------------------------------------------

func sampleTree() asbuilt.RawNode {
	return asbuilt.RawNode{
		"AS_BUILT_DATA": map[string]any{
			"VEHICLE": map[string]any{
				"-VIN": "TEST123",
				"NODEID": []any{
					map[string]any{"#text": "07E0", "F113": "JX7A-12A650-AB", "F188": "SW1", "X1": "no"},
					map[string]any{"#text": "0726", "-ID": "BCM", "F113": "JX7T-14C689-AE"},
					"",
				},
				"ERROR": map[string]any{"-CODE": "E1", "-DESC": "Checksum mismatch"},
				"BCE_MODULE": map[string]any{
					"DATA": []any{
						map[string]any{"-LABEL": "7E0-01-01", "CODE": []any{"8A6A", "592", "B4"}},
						map[string]any{"-LABEL": "726-01-01", "CODE": "1"},
						map[string]any{"CODE": "FFFF"},
					},
				},
				"PCM_MODULE": map[string]any{
					"DATA": map[string]any{"-LABEL": "7E0-02-01", "-CODE1": "12", "-CODE2": "ABCD"},
				},
				"VEHICLE_DATA": map[string]any{"DATA": map[string]any{"-LABEL": "X", "CODE": "1"}},
				"CCC_DATA": map[string]any{
					"DATA": map[string]any{"-LABEL": "CCC-01-01", "CODE": "2A"},
				},
			},
		},
	}
}

func TestNormalize(t *testing.T) {
	doc, err := asbuilt.Normalize(sampleTree())
	require.NoError(t, err)

	assert.Equal(t, "TEST123", doc.VIN)
	assert.Equal(t, []string{"BCE_MODULE", "PCM_MODULE"}, doc.ModuleTypes())

	byType := doc.ModuleRecordsByModuleType()
	assert.Equal(t, []asbuilt.ModuleRecord{
		{Label: "7E0-01-01", Codes: []string{"8A6A", "0592", "00B4"}},
		{Label: "726-01-01", Codes: []string{"0001"}},
	}, byType["BCE_MODULE"], "label-less DATA is skipped and codes are padded")
	assert.Equal(t, []asbuilt.ModuleRecord{
		{Label: "7E0-02-01", Codes: []string{"0012", "ABCD"}},
	}, byType["PCM_MODULE"], "codes fall back to CODEn attributes")

	require.Len(t, doc.Nodes, 2, "empty NODEID entries are dropped")
	assert.Equal(t, "07E0", doc.Nodes[0].Prefix)
	assert.Equal(t, map[string]string{"F113": "JX7A-12A650-AB", "F188": "SW1"}, doc.Nodes[0].FCodes)
	assert.Equal(t, "7E0", doc.Nodes[0].JoinKey())
	assert.Equal(t, "7E0", doc.Nodes[0].Identity(), "without an ID attribute the join key is compared")
	assert.Equal(t, "BCM", doc.Nodes[1].Identity())
	assert.Equal(t, map[string]string{"7E0": "JX7A-12A650-AB", "726": "JX7T-14C689-AE"}, doc.PartNumbers())

	assert.Equal(t, []asbuilt.ErrorRecord{{Code: "E1", Description: "Checksum mismatch"}}, doc.Errors)

	require.Len(t, doc.Sections, 1, "VEHICLE_DATA is metadata, CCC_DATA is an other section")
	assert.Equal(t, "CCC_DATA", doc.Sections[0].Type)
	assert.Equal(t, []string{"002A"}, doc.Sections[0].Records[0].Codes)
}

func TestNormalize_OtherSectionKeepsDuplicateLabels(t *testing.T) {
	doc, err := asbuilt.Normalize(asbuilt.RawNode{"AS_BUILT_DATA": map[string]any{"VEHICLE": map[string]any{
		"BCE_MODULE": map[string]any{"DATA": map[string]any{"-LABEL": "7E0-01-01", "CODE": "1"}},
		"EXTRA": map[string]any{"DATA": []any{
			map[string]any{"-LABEL": "X", "CODE": "1"},
			map[string]any{"-LABEL": "X", "CODE": "2"},
		}},
	}}})
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, []asbuilt.ModuleRecord{
		{Label: "X", Codes: []string{"0001"}},
		{Label: "X", Codes: []string{"0002"}},
	}, doc.Sections[0].Records)

	require.NoError(t, asbuilt.Canonicalize(doc), "snapshots of such documents load back")
	assert.Len(t, doc.Sections[0].Records, 2)
}

func TestNodeIdentity(t *testing.T) {
	tests := []struct {
		name string
		node asbuilt.NodeRecord
		want string
	}{
		{name: "id attribute", node: asbuilt.NodeRecord{Prefix: "07E0", ID: "PCM"}, want: "PCM"},
		{name: "padded prefix", node: asbuilt.NodeRecord{Prefix: "07E0"}, want: "7E0"},
		{name: "bare prefix", node: asbuilt.NodeRecord{Prefix: "7E0"}, want: "7E0"},
		{name: "short prefix", node: asbuilt.NodeRecord{Prefix: "000F"}, want: "00F"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.Identity())
		})
	}
}

func TestNormalize_VINElementFallback(t *testing.T) {
	doc, err := asbuilt.Normalize(asbuilt.RawNode{
		"AS_BUILT_DATA": map[string]any{
			"VEHICLE": map[string]any{"VIN": "1FTEW1E50JFA00000"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "1FTEW1E50JFA00000", doc.VIN)
	assert.Empty(t, doc.Modules)
	assert.NotNil(t, doc.Nodes)
	assert.NotNil(t, doc.Errors)
}

func TestNormalize_Failures(t *testing.T) {
	tests := []struct {
		name        string
		root        asbuilt.RawNode
		errContains string
	}{
		{name: "nil root", root: nil, errContains: "empty document"},
		{name: "wrong root", root: asbuilt.RawNode{"OTHER": map[string]any{}}, errContains: "missing AS_BUILT_DATA"},
		{name: "missing vehicle", root: asbuilt.RawNode{"AS_BUILT_DATA": map[string]any{"X": "1"}}, errContains: "missing VEHICLE"},
		{name: "text-only vehicle", root: asbuilt.RawNode{"AS_BUILT_DATA": map[string]any{"VEHICLE": ""}}, errContains: "no content"},
		{
			name: "duplicate label",
			root: asbuilt.RawNode{"AS_BUILT_DATA": map[string]any{"VEHICLE": map[string]any{
				"BCE_MODULE": map[string]any{"DATA": []any{
					map[string]any{"-LABEL": "7E0-01-01", "CODE": "1"},
					map[string]any{"-LABEL": "7E0-01-01", "CODE": "2"},
				}},
			}}},
			errContains: "duplicate label",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := asbuilt.Normalize(tt.root)
			require.Error(t, err)
			assert.ErrorIs(t, err, asbuilt.ErrMalformedDocument)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestCanonicalize(t *testing.T) {
	doc := &asbuilt.Document{
		Modules: []asbuilt.ModuleSet{{Type: "BCE_MODULE", Records: []asbuilt.ModuleRecord{
			{Label: "7E0-01-01", Codes: []string{"b4", " 1 ", "FFFF", "0000"}},
		}}},
	}
	require.NoError(t, asbuilt.Canonicalize(doc))
	assert.Equal(t, []string{"00b4", "0001", "FFFF"}, doc.Modules[0].Records[0].Codes)
	assert.NotNil(t, doc.Nodes)
	assert.NotNil(t, doc.Errors)
	assert.NotNil(t, doc.Sections)

	dup := &asbuilt.Document{Modules: []asbuilt.ModuleSet{{Type: "X_MODULE", Records: []asbuilt.ModuleRecord{
		{Label: "A-1-1"}, {Label: "A-1-1"},
	}}}}
	assert.ErrorIs(t, asbuilt.Canonicalize(dup), asbuilt.ErrMalformedDocument)
}

func TestNodeJoinKey(t *testing.T) {
	assert.Equal(t, "7E0", asbuilt.NodeJoinKey("07E0"))
	assert.Equal(t, "7C4", asbuilt.NodeJoinKey("07C4"))
	assert.Equal(t, "00F", asbuilt.NodeJoinKey("000F"))
	assert.Equal(t, "000", asbuilt.NodeJoinKey("0000"))
	assert.Equal(t, "726", asbuilt.NodeJoinKey(" 726 "))
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

type stubDecoder struct {
	name string
	ext  string
	doc  *asbuilt.Document
	err  error
}

func (s stubDecoder) Name() string { return s.name }
func (s stubDecoder) CanHandle(src asbuilt.Source) bool {
	return strings.HasSuffix(src.Name, s.ext) || src.Format == s.name
}
func (s stubDecoder) Decode(context.Context, asbuilt.Source) (*asbuilt.Document, error) {
	return s.doc, s.err
}

func TestLoader_RejectsUnknownFileType(t *testing.T) {
	l := asbuilt.NewLoader(nil)
	_, err := l.Load(context.Background(), asbuilt.Source{Name: "car.txt", Content: []byte("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, asbuilt.ErrFileTypeRejected)
	assert.Equal(t, "Please select a valid AsBuilt file (.ab)", asbuilt.UserMessage(err))
}

func TestLoader_SelectsFirstMatchingDecoder(t *testing.T) {
	first := stubDecoder{name: "first", ext: ".ab", doc: &asbuilt.Document{VIN: "ONE"}}
	second := stubDecoder{name: "second", ext: ".ab", doc: &asbuilt.Document{VIN: "TWO"}}
	l := asbuilt.NewLoader([]asbuilt.Decoder{first, second})

	assert.Equal(t, []string{"first", "second"}, l.RegisteredDecoders())

	res, err := l.LoadWithMeta(context.Background(), asbuilt.Source{Name: "car.ab"})
	require.NoError(t, err)
	assert.Equal(t, "first", res.DecoderUsed)
	assert.Equal(t, "ONE", res.Document.VIN)
}

func TestLoader_WrapsDecoderErrors(t *testing.T) {
	failing := stubDecoder{name: "broken", ext: ".ab", err: errors.Join(asbuilt.ErrMalformedXML, errors.New("bad token"))}
	l := asbuilt.NewLoader([]asbuilt.Decoder{failing})

	_, err := l.Load(context.Background(), asbuilt.Source{Name: "car.ab"})
	require.Error(t, err)
	assert.ErrorIs(t, err, asbuilt.ErrMalformedXML)
	assert.Contains(t, err.Error(), `decoder "broken" failed`)
	assert.Equal(t, "Error parsing AsBuilt file. Please check the file format.", asbuilt.UserMessage(err))
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "car.ab")
	require.NoError(t, os.WriteFile(path, []byte("<x/>"), 0o600))

	l := asbuilt.NewLoader([]asbuilt.Decoder{stubDecoder{name: "stub", ext: ".ab", doc: &asbuilt.Document{VIN: "V"}}})
	res, err := l.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "V", res.Document.VIN)

	_, err = l.LoadFile(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, asbuilt.ErrFileTypeRejected, "extension is checked before reading")

	_, err = l.LoadFile(context.Background(), filepath.Join(dir, "missing.ab"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asbuilt.ErrFileTypeRejected)
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, asbuilt.UserMessage(nil))
	assert.Contains(t, asbuilt.UserMessage(asbuilt.ErrMalformedDocument), "not an AsBuilt document")
	assert.Contains(t, asbuilt.UserMessage(errors.New("disk on fire")), "disk on fire")
}
