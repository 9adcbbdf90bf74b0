// Package archive diffs whole documentation archives version against
// version: every page is compared with its immediately prior published
// form, patches are stored keyed by version identifier, and each page
// gets a coarse change classification.
package archive

import (
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/renderkit/docdiff"
	"github.com/renderkit/docdiff/debug"
	"github.com/renderkit/docdiff/diff"
	"github.com/renderkit/docdiff/patch"
	"github.com/renderkit/docdiff/pointer"
	"github.com/renderkit/docdiff/render"
)

// ChangeKind is the coarse per-page classification derived from a
// version transition.
type ChangeKind string

const (
	ChangeAdded      ChangeKind = "added"
	ChangeModified   ChangeKind = "modified"
	ChangeDeprecated ChangeKind = "deprecated"
)

// Versioner diffs archive snapshots. Individual page diffs are pure
// and independent, so they run on a worker pool; the accumulated
// result maps are guarded by one mutex.
type Versioner struct {
	workers int
	log     zerolog.Logger

	mu      sync.Mutex
	patches map[string]map[string]patch.Patch // version id -> page -> patch
	changes map[string]map[string]ChangeKind  // version id -> page -> kind
	diags   map[string][]diff.Diagnostic      // page -> diagnostics
}

// Option configures a Versioner.
type Option func(*Versioner)

// WithWorkers sets the number of concurrent page diffs.
func WithWorkers(n int) Option {
	return func(v *Versioner) {
		if n > 0 {
			v.workers = n
		}
	}
}

// WithLogger sets the logger used for per-page diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(v *Versioner) {
		v.log = log
	}
}

func NewVersioner(opts ...Option) *Versioner {
	v := &Versioner{
		workers: 4,
		log:     zerolog.Nop(),
		patches: map[string]map[string]patch.Patch{},
		changes: map[string]map[string]ChangeKind{},
		diags:   map[string][]diff.Diagnostic{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// DiffVersion diffs every page of next against its counterpart in
// prev and records the results under versionID. Pages are keyed by
// stable identifier. The snapshots are read-only and may be shared
// with concurrent callers.
func (v *Versioner) DiffVersion(versionID string, prev, next map[string]*render.Node) {
	pageSet := make(map[string]struct{}, len(prev)+len(next))
	for id := range prev {
		pageSet[id] = struct{}{}
	}
	for id := range next {
		pageSet[id] = struct{}{}
	}

	pages := make(chan string, len(pageSet))
	for _, id := range slices.Sorted(maps.Keys(pageSet)) {
		pages <- id
	}
	close(pages)

	var wg sync.WaitGroup
	wg.Add(v.workers)
	for range v.workers {
		go func() {
			defer wg.Done()
			for id := range pages {
				v.diffPage(versionID, id, prev[id], next[id])
			}
		}()
	}
	wg.Wait()
}

func (v *Versioner) diffPage(versionID, id string, old, newer *render.Node) {
	if debug.Archive() {
		debug.Logf("archive %s: diffing page %s\n", versionID, id)
	}
	switch {
	case old == nil:
		v.record(versionID, id, ChangeAdded, nil, nil)
	case newer == nil:
		v.record(versionID, id, ChangeDeprecated, nil, nil)
	default:
		p, diags := docdiff.Diff(old, newer)
		if len(diags) > 0 {
			// a page the differ could not fully compare is published
			// as one whole-page replace rather than a partial patch
			for _, d := range diags {
				v.log.Warn().
					Str("version", versionID).
					Str("page", id).
					Str("pointer", d.Pointer).
					Msg(d.Message)
			}
			p = patch.Patch{patch.Replace(pointer.Root(), newer)}
		}
		if p.Empty() {
			return
		}
		v.record(versionID, id, ChangeModified, p, diags)
	}
}

func (v *Versioner) record(versionID, id string, kind ChangeKind, p patch.Patch, diags []diff.Diagnostic) {
	v.mu.Lock()
	defer v.mu.Unlock()
	changes := v.changes[versionID]
	if changes == nil {
		changes = map[string]ChangeKind{}
		v.changes[versionID] = changes
	}
	changes[id] = kind
	if p != nil {
		patches := v.patches[versionID]
		if patches == nil {
			patches = map[string]patch.Patch{}
			v.patches[versionID] = patches
		}
		patches[id] = p
	}
	if len(diags) > 0 {
		v.diags[id] = append(v.diags[id], diags...)
	}
}

// Patches returns the per-page patches recorded for a version.
func (v *Versioner) Patches(versionID string) map[string]patch.Patch {
	v.mu.Lock()
	defer v.mu.Unlock()
	return maps.Clone(v.patches[versionID])
}

// Changes returns the per-page classification recorded for a version.
func (v *Versioner) Changes(versionID string) map[string]ChangeKind {
	v.mu.Lock()
	defer v.mu.Unlock()
	return maps.Clone(v.changes[versionID])
}

// Diagnostics returns the diagnostics collected per page across all
// diffed versions.
func (v *Versioner) Diagnostics() map[string][]diff.Diagnostic {
	v.mu.Lock()
	defer v.mu.Unlock()
	return maps.Clone(v.diags)
}
