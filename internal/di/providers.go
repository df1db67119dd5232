// SPDX-License-Identifier: Apache-2.0

package di

import (
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt/decoders"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
	"github.com/asbuiltproj/asbuilt-mcp/internal/compare"
)

// Dependency providers.

// NewRuntime constructs the runtime used by the CLI. catalogPath names an
// optional table file merged over the built-in tables.
func NewRuntime(logger logrus.FieldLogger, catalogPath string) *Runtime {
	return New(
		ProvideLogger(logger),
		ProvideCatalog(catalogPath),
		provideLoader,
		provideSession,
	)
}

// ProvideLogger registers logger as the application logger.
func ProvideLogger(logger logrus.FieldLogger) Module {
	return func(i Injector) error {
		do.Provide(i, func(Injector) (logrus.FieldLogger, error) {
			return logger, nil
		})
		return nil
	}
}

// ProvideCatalog registers the lookup tables. The file is read lazily, on
// first resolve.
func ProvideCatalog(path string) Module {
	return func(i Injector) error {
		do.Provide(i, func(Injector) (*catalog.Catalog, error) {
			if path == "" {
				return catalog.Default(), nil
			}
			return catalog.Load(path)
		})
		return nil
	}
}

func provideLoader(i Injector) error {
	do.Provide(i, func(i Injector) (*asbuilt.Loader, error) {
		logger, err := ResolveLogger(i)
		if err != nil {
			return nil, err
		}
		return asbuilt.NewLoader(decoders.Default(), asbuilt.WithLogger(logger)), nil
	})
	return nil
}

// provideSession registers a transient provider: every resolve yields a new,
// empty comparison session.
func provideSession(i Injector) error {
	do.ProvideTransient(i, func(i Injector) (*compare.Session, error) {
		loader, err := ResolveLoader(i)
		if err != nil {
			return nil, err
		}
		return compare.NewSession(loader), nil
	})
	return nil
}
