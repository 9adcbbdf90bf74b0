package diff

import (
	"encoding/json"
	"fmt"

	"github.com/renderkit/docdiff/debug"
	"github.com/renderkit/docdiff/pointer"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Values diffs two ordered sequences. Elements are aligned by
// similarity key, so a modified-but-recognizable element pairs with its
// counterpart instead of being deleted and reinserted:
//
//  1. intern each element's similarity key as a rune
//  2. run a minimal edit script over the two rune sequences
//  3. emit removals in descending pre-patch index order, then
//     insertions in ascending final index order
//  4. recurse into each aligned-but-unequal pair at its final index
//
// Removal indices reference pre-patch positions and insertion indices
// final positions; with that ordering a single linear application pass
// is correct. Duplicate-similar elements align in original relative
// order, keeping patches deterministic.
func Values[T Value[T]](b *Builder, old, newer []T, at pointer.Path) {
	if len(old) == 0 && len(newer) == 0 {
		return
	}
	intern := map[string]rune{}
	oldRunes := internKeys(intern, old)
	newRunes := internKeys(intern, newer)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(oldRunes, newRunes, false)
	if debug.Align() {
		debug.Logf("align %s: %d old, %d new, %d runs\n", at, len(old), len(newer), len(diffs))
	}

	type pair struct{ oi, ni int }
	var (
		removals   []int // pre-patch indices
		insertions []int // final indices
		pairs      []pair
		oi, ni     int
	)
	for i := range diffs {
		d := &diffs[i]
		switch d.Type {
		case diffpatch.DiffDelete:
			for range d.Text {
				removals = append(removals, oi)
				oi++
			}
		case diffpatch.DiffInsert:
			for range d.Text {
				insertions = append(insertions, ni)
				ni++
			}
		case diffpatch.DiffEqual:
			for range d.Text {
				pairs = append(pairs, pair{oi, ni})
				oi++
				ni++
			}
		}
	}

	for i := len(removals) - 1; i >= 0; i-- {
		b.Remove(at.WithIndex(removals[i]))
	}
	for _, idx := range insertions {
		b.Add(at.WithIndex(idx), newer[idx])
	}
	for _, p := range pairs {
		o, n := old[p.oi], newer[p.ni]
		if o.Equal(n) {
			continue
		}
		o.DiffInto(b, n, at.WithIndex(p.ni))
	}
}

// internKeys maps each element's similarity key to a rune, shared
// across both sequences, so the rune-based differ aligns by key.
func internKeys[T Value[T]](m map[string]rune, vs []T) []rune {
	rs := make([]rune, len(vs))
	for i, v := range vs {
		key := v.SimilarityKey()
		r, ok := m[key]
		if !ok {
			r = rune(len(m))
			m[key] = r
		}
		rs[i] = r
	}
	return rs
}

// Atom adapts a comparable leaf to the Value contract so plain scalars
// can live in diffed sequences. It marshals transparently as the
// wrapped value.
type Atom[T comparable] struct {
	V T
}

func (a Atom[T]) Equal(o Atom[T]) bool {
	return a.V == o.V
}

// SimilarityKey encodes the full value: for leaves, similar means equal.
func (a Atom[T]) SimilarityKey() string {
	return fmt.Sprintf("atom-%v", a.V)
}

// DiffInto is unreachable for atoms (similar implies equal) but keeps
// the contract satisfied for containers.
func (a Atom[T]) DiffInto(b *Builder, newer Atom[T], at pointer.Path) {
	b.Replace(at, newer.V)
}

func (a Atom[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.V)
}

// Atoms wraps a scalar slice for use with Values.
func Atoms[T comparable](vs []T) []Atom[T] {
	res := make([]Atom[T], len(vs))
	for i, v := range vs {
		res[i] = Atom[T]{V: v}
	}
	return res
}

// Strings diffs two ordered string sequences.
func Strings(b *Builder, old, newer []string, at pointer.Path) {
	Values(b, Atoms(old), Atoms(newer), at)
}
