// Package diff computes structural differences between two immutable
// tree snapshots as JSON Patch operations.
//
// Every participating type implements [Value]. The central decision
// rule, applied per field by [Diff], is three-way:
//
//   - equal values contribute nothing
//   - similar values recurse, extending the path
//   - dissimilar values collapse to a single replace carrying the
//     newer value
//
// Similarity is a per-type relation looser than equality, realized as
// a key: two values are similar exactly when their similarity keys
// match. Equality must imply key equality.
package diff

import (
	"fmt"
	"maps"
	"slices"

	"github.com/renderkit/docdiff/patch"
	"github.com/renderkit/docdiff/pointer"
)

// Value is the contract a type needs to participate in diffing.
// DiffInto is only invoked on similar, non-equal pairs; it appends the
// operations transforming the receiver (the older value) into newer.
type Value[T any] interface {
	Equal(other T) bool
	SimilarityKey() string
	DiffInto(b *Builder, newer T, at pointer.Path)
}

// Similar reports whether two values are the same logical entity, even
// if not structurally equal.
func Similar[T Value[T]](a, b T) bool {
	return a.SimilarityKey() == b.SimilarityKey()
}

// Diagnostic reports an inconsistency met while diffing, such as a
// variant kind pairing the dispatch tables do not recognize. It is
// data, not an error: diffing is deterministic, so the caller decides
// whether to keep the degraded patch or drop the whole result.
type Diagnostic struct {
	Pointer string
	Message string
}

func (d Diagnostic) String() string {
	return d.Pointer + ": " + d.Message
}

// Builder accumulates the operations and diagnostics of one diff
// invocation. The zero value is ready to use.
type Builder struct {
	ops   patch.Patch
	diags []Diagnostic
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Add(at pointer.Path, value any) {
	b.ops = append(b.ops, patch.Add(at, value))
}

func (b *Builder) Remove(at pointer.Path) {
	b.ops = append(b.ops, patch.Remove(at))
}

func (b *Builder) Replace(at pointer.Path, value any) {
	b.ops = append(b.ops, patch.Replace(at, value))
}

func (b *Builder) Diagnosef(at pointer.Path, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{
		Pointer: at.Pointer(),
		Message: fmt.Sprintf(format, args...),
	})
}

// Result returns the accumulated patch and diagnostics.
func (b *Builder) Result() (patch.Patch, []Diagnostic) {
	return b.ops, b.diags
}

// Diff applies the three-way rule to one pair of values.
func Diff[T Value[T]](b *Builder, old, newer T, at pointer.Path) {
	if old.Equal(newer) {
		return
	}
	if Similar(old, newer) {
		old.DiffInto(b, newer, at)
		return
	}
	b.Replace(at, newer)
}

// Optional diffs two optional values: absent on both sides is no
// difference, presence only on the old side is a remove, presence only
// on the new side is an add, and presence on both recurses per the
// three-way rule. Absence is data here, never a lookup failure.
func Optional[T Value[T]](b *Builder, old, newer *T, at pointer.Path) {
	switch {
	case old == nil && newer == nil:
	case newer == nil:
		b.Remove(at)
	case old == nil:
		b.Add(at, *newer)
	default:
		Diff(b, *old, *newer, at)
	}
}

// Map diffs two string-keyed maps over the union of their key sets.
// Changed maps are always diffed key by key, never replaced wholesale.
// Keys are visited in sorted order so patches are deterministic.
func Map[T Value[T]](b *Builder, old, newer map[string]T, at pointer.Path) {
	keySet := make(map[string]struct{}, len(old)+len(newer))
	for k := range old {
		keySet[k] = struct{}{}
	}
	for k := range newer {
		keySet[k] = struct{}{}
	}
	for _, k := range slices.Sorted(maps.Keys(keySet)) {
		kAt := at.WithField(k)
		ov, inOld := old[k]
		nv, inNew := newer[k]
		switch {
		case !inOld:
			b.Add(kAt, nv)
		case !inNew:
			b.Remove(kAt)
		default:
			Diff(b, ov, nv, kAt)
		}
	}
}

// Scalar diffs two leaf values, for which similarity coincides with
// equality: any change is a replace.
func Scalar[T comparable](b *Builder, old, newer T, at pointer.Path) {
	if old != newer {
		b.Replace(at, newer)
	}
}
