package archive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renderkit/docdiff/render"
)

func symbolPage(id, title string) *render.Node {
	return &render.Node{
		SchemaVersion: render.SchemaVersion{Major: 1},
		Identifier:    id,
		Kind:          render.KindSymbol,
		Metadata:      &render.Metadata{Title: title, Modules: []string{"Example"}},
		Abstract:      []render.ContentBlock{},
		Sections:      []render.AnySection{},
		TopicSections: []render.AnySection{},
		References:    map[string]render.AnyReference{},
	}
}

func TestDiffVersionClassification(t *testing.T) {
	prev := map[string]*render.Node{
		"doc://x/kept":    symbolPage("doc://x/kept", "Kept"),
		"doc://x/changed": symbolPage("doc://x/changed", "Old Title"),
		"doc://x/gone":    symbolPage("doc://x/gone", "Gone"),
	}
	next := map[string]*render.Node{
		"doc://x/kept":    symbolPage("doc://x/kept", "Kept"),
		"doc://x/changed": symbolPage("doc://x/changed", "New Title"),
		"doc://x/new":     symbolPage("doc://x/new", "New"),
	}

	v := NewVersioner()
	v.DiffVersion("2.0", prev, next)

	changes := v.Changes("2.0")
	assert.Equal(t, map[string]ChangeKind{
		"doc://x/changed": ChangeModified,
		"doc://x/gone":    ChangeDeprecated,
		"doc://x/new":     ChangeAdded,
	}, changes)

	patches := v.Patches("2.0")
	require.Contains(t, patches, "doc://x/changed")
	require.Len(t, patches["doc://x/changed"], 1)
	op := patches["doc://x/changed"][0]
	assert.Equal(t, "/metadata/title", op.Pointer)
	assert.Empty(t, v.Diagnostics())
}

func TestDiffVersionUnchangedPageRecordsNothing(t *testing.T) {
	pages := map[string]*render.Node{
		"doc://x/a": symbolPage("doc://x/a", "A"),
	}
	v := NewVersioner()
	v.DiffVersion("1.1", pages, pages)
	assert.Empty(t, v.Changes("1.1"))
	assert.Empty(t, v.Patches("1.1"))
}

func TestDiffVersionDegradesDiagnosedPages(t *testing.T) {
	old := symbolPage("doc://x/a", "A")
	newer := symbolPage("doc://x/a", "A")
	// an unknown section kind whose payload changed pairs with no diff
	// handler, so the page degrades to a whole-page replace
	old.Sections = []render.AnySection{{Section: render.UnknownSection{
		Kind: "mentions", Raw: []byte(`{"kind":"mentions","n":1}`),
	}}}
	newer.Sections = []render.AnySection{{Section: render.UnknownSection{
		Kind: "mentions", Raw: []byte(`{"kind":"mentions","n":2}`),
	}}}

	v := NewVersioner()
	v.DiffVersion("3.0", map[string]*render.Node{"doc://x/a": old}, map[string]*render.Node{"doc://x/a": newer})

	p := v.Patches("3.0")["doc://x/a"]
	require.Len(t, p, 1)
	assert.Equal(t, "", p[0].Pointer)
	assert.Equal(t, newer, p[0].Value)

	diags := v.Diagnostics()["doc://x/a"]
	require.Len(t, diags, 1)
	assert.Equal(t, "/sections/0", diags[0].Pointer)
}

func TestDiffVersionConcurrent(t *testing.T) {
	prev := map[string]*render.Node{}
	next := map[string]*render.Node{}
	for i := range 200 {
		id := fmt.Sprintf("doc://x/p%03d", i)
		prev[id] = symbolPage(id, "Old")
		next[id] = symbolPage(id, "New")
	}

	v := NewVersioner(WithWorkers(8))
	v.DiffVersion("9.0", prev, next)

	changes := v.Changes("9.0")
	assert.Len(t, changes, 200)
	for id, kind := range changes {
		assert.Equal(t, ChangeModified, kind, id)
	}
	assert.Len(t, v.Patches("9.0"), 200)
}
