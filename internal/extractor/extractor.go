// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extractor defines the algorithm contract for plot-level
// extractors and the registry the CLI resolves algorithm names against.
//
// An algorithm receives the RGB pixel data for a single plot and returns
// one Value per configured output field. Values travel the rest of the
// pipeline as formatted text so that numeric precision chosen by the
// algorithm author survives CSV output and upload unchanged.
package extractor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cct-datascience/drone-pipeline/internal/imagery"
)

// Algorithm computes a plot-level value from RGB pixel data.
type Algorithm interface {
	// Calculate runs the algorithm over one plot's pixels.
	Calculate(plot *imagery.PixelGrid) (Value, error)
}

// Func adapts an ordinary function to the Algorithm interface.
type Func func(plot *imagery.PixelGrid) (Value, error)

// Calculate implements Algorithm.
func (f Func) Calculate(plot *imagery.PixelGrid) (Value, error) {
	return f(plot)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Algorithm{}
)

// Register makes an algorithm available under name. Registering a duplicate
// name panics; algorithm sets are assembled at init time and a collision is
// a programming error.
func Register(name string, alg Algorithm) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("extractor: algorithm %q registered twice", name))
	}
	registry[name] = alg
}

// Lookup returns the algorithm registered under name.
func Lookup(name string) (Algorithm, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	alg, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q (have: %v)", name, names())
	}
	return alg, nil
}

// Names returns the registered algorithm names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return names()
}

func names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ErrNotImplemented is returned by the stub algorithm an extractor template
// starts from.
var ErrNotImplemented = fmt.Errorf("algorithm not implemented yet")

func init() {
	Register("stub", Func(func(*imagery.PixelGrid) (Value, error) {
		return Value{}, ErrNotImplemented
	}))
}
