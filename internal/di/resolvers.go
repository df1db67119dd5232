// SPDX-License-Identifier: Apache-2.0

package di

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
	"github.com/asbuiltproj/asbuilt-mcp/internal/compare"
)

// Dependency resolvers.

func ResolveLogger(injector Injector) (logrus.FieldLogger, error) {
	logger, err := do.Invoke[logrus.FieldLogger](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve logger dependency: %w", err)
	}
	return logger, nil
}

func ResolveCatalog(injector Injector) (*catalog.Catalog, error) {
	cat, err := do.Invoke[*catalog.Catalog](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog dependency: %w", err)
	}
	return cat, nil
}

func ResolveLoader(injector Injector) (*asbuilt.Loader, error) {
	loader, err := do.Invoke[*asbuilt.Loader](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve loader dependency: %w", err)
	}
	return loader, nil
}

// ResolveSession returns a new comparison session.
func ResolveSession(injector Injector) (*compare.Session, error) {
	session, err := do.Invoke[*compare.Session](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve session dependency: %w", err)
	}
	return session, nil
}

// Handler decorators.

// WithDocuments decorates a handler that needs the loader and the lookup tables.
func WithDocuments(
	handler func(cmd *cobra.Command, loader *asbuilt.Loader, cat *catalog.Catalog) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		loader, err := ResolveLoader(injector)
		if err != nil {
			return err
		}
		cat, err := ResolveCatalog(injector)
		if err != nil {
			return err
		}
		return handler(cmd, loader, cat)
	}
}
