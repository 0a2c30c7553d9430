// Package artifact defines the output files a session can save (card
// snippets, verification decks, stack summaries). Each artifact has a stable
// identifier, kind, and a filename inside the project's output directory.
package artifact

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

// Kind captures the storage shape for an artifact.
type Kind string

const (
	// KindSnippet represents a card fragment prefixed with a parseable
	// block of MCNP `c` comment lines carrying provenance.
	KindSnippet Kind = "snippet"
	// KindDeck represents a complete input deck written verbatim, since
	// the first line of a deck is its title card.
	KindDeck Kind = "deck"
	// KindDirectory represents a directory that must exist.
	KindDirectory Kind = "directory"
)

// Ref declares a stable identifier and filename for an artifact.
type Ref struct {
	ID          string
	Name        string
	Description string
	Kind        Kind
	File        string
}

// Path resolves the artifact path inside the provided output directory.
func (r Ref) Path(outputDir string) string {
	if outputDir == "" {
		return ""
	}
	return filepath.Clean(filepath.Join(outputDir, r.File))
}

// Validate ensures the reference is well-formed.
func (r Ref) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("artifact: id is required")
	}
	if r.Kind == "" {
		return fmt.Errorf("artifact: kind is required for %s", r.ID)
	}
	if r.Kind != KindDirectory && r.File == "" {
		return fmt.Errorf("artifact: filename is required for %s", r.ID)
	}
	return nil
}

// Metadata captures provenance stored inside snippet comment headers.
type Metadata struct {
	ArtifactID string
	Title      string
	CreatedAt  time.Time
	Notes      map[string]string
}

// WithDefaults ensures metadata carries the artifact ID and a timestamp.
func (m Metadata) WithDefaults(ref Ref, now time.Time) Metadata {
	clone := m
	if clone.ArtifactID == "" {
		clone.ArtifactID = ref.ID
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now.UTC()
	} else {
		clone.CreatedAt = clone.CreatedAt.UTC()
	}
	return clone
}

// ValidateFor ensures metadata matches the artifact contract.
func (m Metadata) ValidateFor(ref Ref) error {
	if m.ArtifactID != ref.ID {
		return fmt.Errorf("artifact: metadata id %s does not match ref %s", m.ArtifactID, ref.ID)
	}
	return nil
}

// State captures the readiness of an artifact on disk.
type State string

const (
	StateMissing State = "missing"
	StateReady   State = "ready"
	StateInvalid State = "invalid"
	StateError   State = "error"
)

// CheckResult captures Store.Check results.
type CheckResult struct {
	Ref      Ref
	Path     string
	State    State
	Metadata *Metadata
	Err      error
}

func register(ref Ref) Ref {
	if refs == nil {
		refs = map[string]Ref{}
	}
	refs[ref.ID] = ref
	return ref
}

var refs map[string]Ref

// Lookup returns a registered artifact reference by ID.
func Lookup(id string) (Ref, bool) {
	ref, ok := refs[id]
	return ref, ok
}

// Catalog returns every registered reference ordered by ID.
func Catalog() []Ref {
	out := make([]Ref, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Canonical artifact references for a wizard session.
var (
	Cards = register(Ref{
		ID:          "cards",
		Name:        "Card Snippets",
		Description: "Tally and source cards with SD advice and notes",
		Kind:        KindSnippet,
		File:        "cards.txt",
	})
	VerifyDeck = register(Ref{
		ID:          "verify-deck",
		Name:        "Verification Deck",
		Description: "Void-material test deck checked against PRINT 110",
		Kind:        KindDeck,
		File:        "verify.inp",
	})
	Summary = register(Ref{
		ID:          "summary",
		Name:        "Stack Summary",
		Description: "Human-readable outline of the containment stack",
		Kind:        KindSnippet,
		File:        "summary.txt",
	})
	Outputs = register(Ref{
		ID:          "output-dir",
		Name:        "Output Directory",
		Description: "Root directory for saved session artifacts",
		Kind:        KindDirectory,
	})
)
