// SPDX-License-Identifier: Apache-2.0

// Package server runs the AsBuilt tools as an MCP server over stdio.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
	"github.com/asbuiltproj/asbuilt-mcp/internal/tool"
)

const (
	serverKeepAlive = 30 * time.Second
	serverPageSize  = 100
)

// ErrMissingLoader is returned by NewServer when no loader is configured.
var ErrMissingLoader = errors.New("server: loader is required")

// ServerConfig contains configuration for the MCP server.
type ServerConfig struct {
	Name    string
	Version string
	// Loader decodes the documents passed to the tools.
	Loader *asbuilt.Loader
	// Catalog resolves module and F-code names; nil uses the built-in tables.
	Catalog *catalog.Catalog
	// Logger is the logger for the server (optional).
	Logger *slog.Logger
}

// DefaultConfig returns a configuration logging to stderr, which stays free
// while stdout carries the protocol.
func DefaultConfig(loader *asbuilt.Loader, version string) ServerConfig {
	return ServerConfig{
		Name:    "asbuilt-mcp",
		Version: version,
		Loader:  loader,
		Catalog: catalog.Default(),
		Logger:  slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// NewServer creates an MCP server with the AsBuilt tools registered.
func NewServer(cfg ServerConfig) (*mcp.Server, error) {
	if cfg.Loader == nil {
		return nil, ErrMissingLoader
	}
	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &mcp.ServerOptions{
		Instructions: "AsBuilt MCP server - view, compare and checksum vehicle AsBuilt configuration files",
		Logger:       cfg.Logger,
		KeepAlive:    serverKeepAlive,
		PageSize:     serverPageSize,
	})

	tool.Register(server, &tool.Handlers{Loader: cfg.Loader, Catalog: cat})
	return server, nil
}

// RunServer creates a server and serves it over stdio until the client
// disconnects or ctx is cancelled.
func RunServer(ctx context.Context, cfg ServerConfig) error {
	server, err := NewServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("running server: %w", err)
	}
	return nil
}
