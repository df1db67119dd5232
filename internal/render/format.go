// SPDX-License-Identifier: Apache-2.0

// Package render writes reports, comparisons and checksum results as
// terminal text, YAML or JSON.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrUnknownFormat reports an output format other than text, yaml or json.
var ErrUnknownFormat = errors.New("unknown output format")

type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name case-insensitively. The empty string is text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (want text, yaml or json)", ErrUnknownFormat, s)
	}
}

// UnmarshalText lets configuration decoders validate the format.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Format) String() string {
	return string(f)
}

// Options control text output.
type Options struct {
	// Color enables ANSI styling even when w is not a terminal.
	Color bool
	// Width wraps long descriptions; zero means 80.
	Width int
}

func (o Options) width() uint {
	if o.Width <= 0 {
		return 80
	}
	return uint(o.Width)
}

// encode writes v as YAML or JSON.
func encode(w io.Writer, f Format, v any) error {
	var (
		out []byte
		err error
	)
	switch f {
	case FormatYAML:
		out, err = yaml.Marshal(v)
	case FormatJSON:
		out, err = yaml.MarshalWithOptions(v, yaml.JSON())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	if f == FormatJSON && !strings.HasSuffix(string(out), "\n") {
		_, err = io.WriteString(w, "\n")
	}
	return err
}
