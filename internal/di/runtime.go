// SPDX-License-Identifier: Apache-2.0

// Package di wires the application's shared collaborators with samber/do.
package di

import (
	"github.com/samber/do/v2"
)

// Injector is the dependency container handed to modules and handlers.
type Injector = do.Injector

// Module registers providers on an injector.
type Module func(Injector) error

// Runtime builds a fresh injector per invocation from its base modules.
type Runtime struct {
	modules []Module
}

func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke runs the base modules, then extra, then handler, all against one new
// injector. Nil modules are skipped; the first module error stops the run.
func (r *Runtime) Invoke(handler func(Injector) error, extra ...Module) error {
	injector := do.New()
	defer func() { _ = injector.Shutdown() }()

	for _, list := range [][]Module{r.modules, extra} {
		for _, module := range list {
			if module == nil {
				continue
			}
			if err := module(injector); err != nil {
				return err
			}
		}
	}
	return handler(injector)
}
