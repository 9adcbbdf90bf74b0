package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/renderkit/docdiff/patch"
	"github.com/renderkit/docdiff/pointer"
)

func TestValues(t *testing.T) {
	at := pointer.Root().WithField("arr")
	tests := []struct {
		name string
		old  []item
		new  []item
		want patch.Patch
	}{
		{
			name: "both empty",
		},
		{
			name: "identical",
			old:  []item{{"a", 1}, {"b", 2}},
			new:  []item{{"a", 1}, {"b", 2}},
		},
		{
			name: "single append",
			old:  []item{{"a", 1}, {"b", 2}},
			new:  []item{{"a", 1}, {"b", 2}, {"c", 3}},
			want: patch.Patch{patch.Add(at.WithIndex(2), item{"c", 3})},
		},
		{
			name: "single prepend",
			old:  []item{{"b", 2}},
			new:  []item{{"a", 1}, {"b", 2}},
			want: patch.Patch{patch.Add(at.WithIndex(0), item{"a", 1})},
		},
		{
			name: "empty to populated",
			old:  nil,
			new:  []item{{"a", 1}},
			want: patch.Patch{patch.Add(at.WithIndex(0), item{"a", 1})},
		},
		{
			name: "populated to empty",
			old:  []item{{"a", 1}},
			new:  nil,
			want: patch.Patch{patch.Remove(at.WithIndex(0))},
		},
		{
			name: "removals descend",
			old:  []item{{"a", 1}, {"b", 2}, {"c", 3}},
			new:  []item{{"b", 2}},
			want: patch.Patch{
				patch.Remove(at.WithIndex(2)),
				patch.Remove(at.WithIndex(0)),
			},
		},
		{
			name: "duplicate similar keeps relative order",
			old:  []item{{"a", 1}, {"a", 1}},
			new:  []item{{"a", 1}},
			want: patch.Patch{patch.Remove(at.WithIndex(1))},
		},
		{
			name: "modified element recurses instead of remove and add",
			old:  []item{{"a", 1}, {"b", 2}},
			new:  []item{{"a", 1}, {"b", 7}},
			want: patch.Patch{patch.Replace(at.WithIndex(1).WithField("val"), 7)},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder()
			Values(b, tc.old, tc.new, at)
			if d := cmp.Diff(tc.want, result(t, b)); d != "" {
				t.Errorf("patch mismatch (-want +got):\n%s", d)
			}
		})
	}
}

// A moved element that was also modified still aligns with its
// counterpart: the move is a remove plus add, and the modification
// recurses at the element's final index.
func TestValuesMoveAndModify(t *testing.T) {
	at := pointer.Root().WithField("arr")
	old := []item{{"a", 1}, {"b", 2}}
	newer := []item{{"b", 9}, {"a", 1}}

	b := NewBuilder()
	Values(b, old, newer, at)
	want := patch.Patch{
		patch.Remove(at.WithIndex(0)),
		patch.Add(at.WithIndex(1), item{"a", 1}),
		patch.Replace(at.WithIndex(0).WithField("val"), 9),
	}
	if d := cmp.Diff(want, result(t, b)); d != "" {
		t.Errorf("patch mismatch (-want +got):\n%s", d)
	}
}

func TestStrings(t *testing.T) {
	at := pointer.Root().WithField("tags")
	b := NewBuilder()
	Strings(b, []string{"go", "json"}, []string{"go", "diff", "json"}, at)
	want := patch.Patch{patch.Add(at.WithIndex(1), Atom[string]{V: "diff"})}
	if d := cmp.Diff(want, result(t, b)); d != "" {
		t.Errorf("patch mismatch (-want +got):\n%s", d)
	}
}
