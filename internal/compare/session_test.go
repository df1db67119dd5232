// SPDX-License-Identifier: Apache-2.0

package compare_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt/decoders"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
	"github.com/asbuiltproj/asbuilt-mcp/internal/compare"
)

const car1XML = `<AS_BUILT_DATA><VEHICLE VIN="CAR1">
  <BCE_MODULE><DATA LABEL="726-01-01"><CODE>50B4</CODE></DATA></BCE_MODULE>
</VEHICLE></AS_BUILT_DATA>`

const car2XML = `<AS_BUILT_DATA><VEHICLE VIN="CAR2">
  <BCE_MODULE><DATA LABEL="726-01-01"><CODE>50B5</CODE></DATA></BCE_MODULE>
</VEHICLE></AS_BUILT_DATA>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newSession() *compare.Session {
	return compare.NewSession(asbuilt.NewLoader(decoders.Default()))
}

func TestSession_WaitsForBothDocuments(t *testing.T) {
	s := newSession()
	assert.Equal(t, compare.StateWaiting, s.State())

	_, err := s.Compare(catalog.Default())
	require.ErrorIs(t, err, compare.ErrWaitingForDocuments)

	require.NoError(t, s.Load(context.Background(), compare.Car2, asbuilt.Source{Name: "car2.ab", Content: []byte(car2XML)}))
	assert.Equal(t, compare.StateWaiting, s.State())
	_, err = s.Compare(catalog.Default())
	require.ErrorIs(t, err, compare.ErrWaitingForDocuments)

	_, err = s.Document(compare.Car1)
	require.ErrorIs(t, err, compare.ErrWaitingForDocuments)

	require.NoError(t, s.Load(context.Background(), compare.Car1, asbuilt.Source{Name: "car1.ab", Content: []byte(car1XML)}))
	assert.Equal(t, compare.StateReady, s.State())

	r, err := s.Compare(catalog.Default())
	require.NoError(t, err)
	assert.Equal(t, "CAR1", r.VINA)
	assert.Equal(t, "CAR2", r.VINB)
	assert.Equal(t, [][]int{{3}, {}, {}}, r.Codes[0].Differences())
}

func TestSession_LoadFiles(t *testing.T) {
	s := newSession()
	err := s.LoadFiles(context.Background(), writeFile(t, "car1.ab", car1XML), writeFile(t, "car2.ab", car2XML))
	require.NoError(t, err)
	assert.Equal(t, compare.StateReady, s.State())
}

func TestSession_FailureIsolatedPerSide(t *testing.T) {
	s := newSession()
	err := s.LoadFiles(context.Background(),
		writeFile(t, "car1.ab", car1XML),
		writeFile(t, "car2.txt", car2XML),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, asbuilt.ErrFileTypeRejected)
	assert.Contains(t, err.Error(), "Car 2")
	assert.Equal(t, compare.StateFailed, s.State())

	doc, err := s.Document(compare.Car1)
	require.NoError(t, err, "car 1 still loaded")
	assert.Equal(t, "CAR1", doc.VIN)

	_, err = s.Compare(nil)
	require.ErrorIs(t, err, compare.ErrWaitingForDocuments)

	require.NoError(t, s.LoadFile(context.Background(), compare.Car2, writeFile(t, "car2.ab", car2XML)))
	assert.Equal(t, compare.StateReady, s.State(), "reloading a side clears its failure")
}

func TestSession_MalformedSide(t *testing.T) {
	s := newSession()
	err := s.Load(context.Background(), compare.Car1, asbuilt.Source{Name: "car1.ab", Content: []byte("<AS_BUILT_DATA>")})
	require.Error(t, err)
	assert.ErrorIs(t, err, asbuilt.ErrMalformedXML)
	assert.Equal(t, "Error parsing AsBuilt file. Please check the file format.", asbuilt.UserMessage(err))
}

func TestSide_String(t *testing.T) {
	assert.Equal(t, "Car 1", compare.Car1.String())
	assert.Equal(t, "Car 2", compare.Car2.String())
}

func TestSession_LoadSources(t *testing.T) {
	s := newSession()
	err := s.LoadSources(context.Background(),
		asbuilt.Source{Name: "car1.ab", Content: []byte(car1XML)},
		asbuilt.Source{Name: "car2.ab", Content: []byte("<CONFIG/>")},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, asbuilt.ErrMalformedDocument)
	assert.Equal(t, compare.StateFailed, s.State())

	_, err = s.Document(compare.Car2)
	assert.ErrorIs(t, err, asbuilt.ErrMalformedDocument)
}
