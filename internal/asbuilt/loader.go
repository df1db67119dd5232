// SPDX-License-Identifier: Apache-2.0

package asbuilt

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

type Loader struct {
	decoders []Decoder
	logger   logrus.FieldLogger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger routes load diagnostics to logger.
func WithLogger(logger logrus.FieldLogger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader trying decoders in the given order.
func NewLoader(decoders []Decoder, opts ...LoaderOption) *Loader {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	l := &Loader{decoders: decoders, logger: discard}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadResult is the output of a successful load.
type LoadResult struct {
	Document    *Document
	DecoderUsed string
}

func (l *Loader) Load(ctx context.Context, source Source) (*Document, error) {
	result, err := l.LoadWithMeta(ctx, source)
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

func (l *Loader) LoadWithMeta(ctx context.Context, source Source) (LoadResult, error) {
	decoder, err := l.selectDecoder(source)
	if err != nil {
		return LoadResult{}, err
	}

	doc, err := decoder.Decode(ctx, source)
	if err != nil {
		l.logger.WithFields(logrus.Fields{"source": source.Name, "decoder": decoder.Name()}).
			WithError(err).Debug("decode failed")
		return LoadResult{}, fmt.Errorf("decoder %q failed on %q: %w", decoder.Name(), source.Name, err)
	}

	l.logger.WithFields(logrus.Fields{
		"source":  source.Name,
		"decoder": decoder.Name(),
		"vin":     doc.VIN,
		"modules": len(doc.Modules),
		"nodes":   len(doc.Nodes),
	}).Debug("document loaded")

	return LoadResult{Document: doc, DecoderUsed: decoder.Name()}, nil
}

// LoadFile reads path and loads it. The file name picks the decoder, so the
// extension check happens before the file is read.
func (l *Loader) LoadFile(ctx context.Context, path string) (LoadResult, error) {
	source := Source{Name: filepath.Base(path)}
	if _, err := l.selectDecoder(source); err != nil {
		return LoadResult{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("read %s: %w", path, err)
	}
	source.Content = content
	return l.LoadWithMeta(ctx, source)
}

// selectDecoder returns the first registered decoder that can handle the source.
func (l *Loader) selectDecoder(source Source) (Decoder, error) {
	for _, decoder := range l.decoders {
		if decoder.CanHandle(source) {
			return decoder, nil
		}
	}
	return nil, fmt.Errorf("%w: no decoder for %q (format hint: %q)", ErrFileTypeRejected, source.Name, source.Format)
}

// RegisteredDecoders returns the names of all registered decoders.
func (l *Loader) RegisteredDecoders() []string {
	names := make([]string, len(l.decoders))
	for i, decoder := range l.decoders {
		names[i] = decoder.Name()
	}
	return names
}
