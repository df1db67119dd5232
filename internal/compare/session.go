// SPDX-License-Identifier: Apache-2.0

package compare

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/catalog"
)

// ErrWaitingForDocuments is returned by Session.Compare until both sides hold a
// valid document.
var ErrWaitingForDocuments = errors.New("waiting for both files")

// Side selects one of the two documents of a Session.
type Side int

const (
	Car1 Side = iota
	Car2
)

func (s Side) String() string {
	switch s {
	case Car1:
		return "Car 1"
	case Car2:
		return "Car 2"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

type State string

const (
	StateWaiting State = "waiting"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// DocumentLoader is the part of asbuilt.Loader a Session needs.
type DocumentLoader interface {
	Load(ctx context.Context, source asbuilt.Source) (*asbuilt.Document, error)
	LoadFile(ctx context.Context, path string) (asbuilt.LoadResult, error)
}

type slot struct {
	name string
	doc  *asbuilt.Document
	err  error
}

// Session holds the two documents of a comparison. Each side loads
// independently; a failed side does not affect the other, and reloading a side
// replaces its previous outcome.
type Session struct {
	loader DocumentLoader

	mu    sync.RWMutex
	slots [2]slot
}

func NewSession(loader DocumentLoader) *Session {
	return &Session{loader: loader}
}

// Load decodes source into the given side.
func (s *Session) Load(ctx context.Context, side Side, source asbuilt.Source) error {
	if err := checkSide(side); err != nil {
		return err
	}
	doc, err := s.loader.Load(ctx, source)
	s.set(side, slot{name: source.Name, doc: doc, err: err})
	return wrapSide(side, err)
}

// LoadFile reads path into the given side.
func (s *Session) LoadFile(ctx context.Context, side Side, path string) error {
	if err := checkSide(side); err != nil {
		return err
	}
	res, err := s.loader.LoadFile(ctx, path)
	s.set(side, slot{name: path, doc: res.Document, err: err})
	return wrapSide(side, err)
}

// LoadFiles reads both sides concurrently. Both loads always run to completion;
// the returned error joins the failures of either side.
func (s *Session) LoadFiles(ctx context.Context, car1, car2 string) error {
	return loadBoth(func(side Side) error {
		return s.LoadFile(ctx, side, []string{car1, car2}[side])
	})
}

// LoadSources decodes both sides concurrently, like LoadFiles.
func (s *Session) LoadSources(ctx context.Context, car1, car2 asbuilt.Source) error {
	return loadBoth(func(side Side) error {
		return s.Load(ctx, side, []asbuilt.Source{car1, car2}[side])
	})
}

func loadBoth(load func(Side) error) error {
	var g errgroup.Group
	errs := make([]error, 2)
	for _, side := range []Side{Car1, Car2} {
		g.Go(func() error {
			errs[side] = load(side)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Document returns the loaded document of a side, or the error of its last load.
func (s *Session) Document(side Side) (*asbuilt.Document, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl := s.slots[side]
	if sl.err != nil {
		return nil, sl.err
	}
	if sl.doc == nil {
		return nil, fmt.Errorf("%w: %s not loaded", ErrWaitingForDocuments, side)
	}
	return sl.doc, nil
}

// State is failed when either side's last load failed, ready when both sides
// hold a document and waiting otherwise.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ready := true
	for _, sl := range s.slots {
		if sl.err != nil {
			return StateFailed
		}
		if sl.doc == nil {
			ready = false
		}
	}
	if ready {
		return StateReady
	}
	return StateWaiting
}

// Compare runs the comparison once both sides hold a valid document.
func (s *Session) Compare(cat *catalog.Catalog) (Result, error) {
	s.mu.RLock()
	a, b := s.slots[Car1].doc, s.slots[Car2].doc
	errA, errB := s.slots[Car1].err, s.slots[Car2].err
	s.mu.RUnlock()

	if errA != nil || errB != nil || a == nil || b == nil {
		return Result{}, ErrWaitingForDocuments
	}
	return Compare(a, b, cat), nil
}

func (s *Session) set(side Side, sl slot) {
	if sl.err != nil {
		sl.doc = nil
	}
	s.mu.Lock()
	s.slots[side] = sl
	s.mu.Unlock()
}

func checkSide(side Side) error {
	if side != Car1 && side != Car2 {
		return fmt.Errorf("unknown side %s", side)
	}
	return nil
}

func wrapSide(side Side, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", side, err)
}
