// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bytes"
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource string

// validate checks YAML table data against the #Catalog definition.
func validate(name string, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("catalog.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Catalog"))

	file, err := cueyaml.Extract(name, data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}
	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}
	return nil
}
