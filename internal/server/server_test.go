// SPDX-License-Identifier: Apache-2.0

package server_test

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt/decoders"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
	"github.com/asbuiltproj/asbuilt-mcp/internal/server"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	loader := asbuilt.NewLoader(decoders.Default())
	cfg := server.DefaultConfig(loader, "1.0.0")

	assert.Equal(t, "asbuilt-mcp", cfg.Name)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Same(t, loader, cfg.Loader)
	assert.NotNil(t, cfg.Catalog)
	assert.NotNil(t, cfg.Logger)
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     server.ServerConfig
		wantErr error
	}{
		{
			name: "loader and catalog",
			cfg: server.ServerConfig{
				Name:    "test-server",
				Version: "0.1.0",
				Loader:  asbuilt.NewLoader(decoders.Default()),
				Catalog: catalog.Empty(),
			},
		},
		{
			name: "catalog defaults to built-in tables",
			cfg: server.ServerConfig{
				Name:    "test-server",
				Version: "0.1.0",
				Loader:  asbuilt.NewLoader(decoders.Default()),
			},
		},
		{
			name:    "loader is required",
			cfg:     server.ServerConfig{Name: "test-server"},
			wantErr: server.ErrMissingLoader,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, err := server.NewServer(tt.cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, srv)
		})
	}
}

func TestNewServer_ServesTools(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv, err := server.NewServer(server.ServerConfig{
		Name:    "test-server",
		Version: "0.1.0",
		Loader:  asbuilt.NewLoader(decoders.Default()),
	})
	require.NoError(t, err)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer func() { _ = serverSession.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "view_asbuilt",
		Arguments: map[string]any{
			"content": `<AS_BUILT_DATA><VEHICLE VIN="V1"><BCE_MODULE><DATA LABEL="999-01-01"><CODE>1</CODE></DATA></BCE_MODULE></VEHICLE></AS_BUILT_DATA>`,
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	rep, ok := out["report"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "V1", rep["vin"])
}
