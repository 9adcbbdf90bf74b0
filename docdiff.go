// Package docdiff computes the structural difference between two
// versions of a rendered documentation page as an RFC 6902 JSON Patch.
//
// The patch transforms the old snapshot into the new one: applying
// Diff(old, new) to old's JSON form reproduces new. Two pages that are
// not even similar (different stable identifier or different page
// kind) collapse to a single replace at the root pointer.
package docdiff

import (
	"github.com/renderkit/docdiff/debug"
	"github.com/renderkit/docdiff/diff"
	"github.com/renderkit/docdiff/patch"
	"github.com/renderkit/docdiff/pointer"
	"github.com/renderkit/docdiff/render"
)

// Diff compares two page snapshots and returns the patch along with
// any diagnostics met on the way. Diagnostics are not errors: the
// patch is still usable, degraded to wholesale replaces at the
// affected pointers, and the caller decides whether that is good
// enough. Diffing is pure and deterministic; both snapshots are read
// only and must be non-nil. A page absent from one snapshot is the
// archive layer's concern (see archive.Versioner), not a diffable
// value.
func Diff(old, newer *render.Node) (patch.Patch, []diff.Diagnostic) {
	if debug.Diff() {
		debug.Logf("diff %s (%s) against %s (%s)\n",
			old.Identifier, old.Kind, newer.Identifier, newer.Kind)
	}
	b := diff.NewBuilder()
	diff.Diff(b, old, newer, pointer.Root())
	return b.Result()
}
