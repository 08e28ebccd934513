// Package importer defines the manuscript import surface.
//
// Importers turn an external source (a .docx file, a Google Docs URL)
// into chapter records the store accepts like any manually edited
// batch. No importer is wired yet: every registered implementation
// currently returns ErrNotImplemented, and the registry exists so a
// future parser can drop in without touching the core.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/novelforge/tracker/internal/record"
)

// ErrNotImplemented is returned by importer stubs.
var ErrNotImplemented = errors.New("importer not wired yet")

// Kind identifies an importer implementation.
type Kind string

const (
	// KindDocx imports from a Word document.
	KindDocx Kind = "docx"
	// KindGoogleDoc imports from a Google Docs URL.
	KindGoogleDoc Kind = "gdoc"
)

// Importer converts one external source into chapter records.
type Importer interface {
	// Import parses src and returns well-formed chapter records.
	Import(ctx context.Context, src string) ([]record.Record, error)
}

// Constructor creates an Importer. Implementations register themselves
// with Register, typically from an init function.
type Constructor func() Importer

var (
	registry      = make(map[Kind]Constructor)
	registryMutex sync.RWMutex
)

// Register registers an importer constructor for a kind. Registering
// the same kind twice is a programming error.
func Register(k Kind, constructor Constructor) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	if constructor == nil {
		panic(fmt.Sprintf("importer: Register constructor is nil for kind %s", k))
	}
	if _, exists := registry[k]; exists {
		panic(fmt.Sprintf("importer: Register called twice for kind %s", k))
	}

	registry[k] = constructor
}

// New returns an importer for the given kind, or an error if none is
// registered.
func New(k Kind) (Importer, error) {
	registryMutex.RLock()
	constructor := registry[k]
	registryMutex.RUnlock()

	if constructor == nil {
		return nil, fmt.Errorf("no importer registered for kind %q", k)
	}
	return constructor(), nil
}

// Kinds returns all registered importer kinds, sorted.
func Kinds() []Kind {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
