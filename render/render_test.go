package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/renderkit/docdiff/diff"
	"github.com/renderkit/docdiff/pointer"
)

const samplePage = `{
  "schemaVersion": {"major": 1, "minor": 2, "patch": 0},
  "identifier": "doc://Example/documentation/Example/Widget",
  "kind": "symbol",
  "metadata": {"title": "Widget", "roleHeading": "Structure", "modules": ["Example"]},
  "abstract": [{"type": "paragraph", "text": "A widget."}],
  "sections": [
    {"kind": "content", "blocks": [
      {"type": "heading", "text": "Overview", "level": 2},
      {"type": "codeListing", "code": ["let w = Widget()"]}
    ]},
    {"kind": "declarations", "declarations": [
      {"platforms": ["macOS"], "tokens": [
        {"text": "struct", "kind": "keyword"},
        {"text": "Widget", "kind": "identifier"}
      ]}
    ]}
  ],
  "topicSections": [
    {"kind": "taskGroup", "title": "Essentials", "identifiers": ["doc://Example/a"]}
  ],
  "references": {
    "doc://Example/a": {"kind": "topic", "identifier": "doc://Example/a", "title": "A", "abstract": []}
  },
  "hierarchy": {"paths": [["doc://Example/documentation/Example"]]}
}`

func mustDecode(t *testing.T, data string) *Node {
	t.Helper()
	var n Node
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return &n
}

func TestNodeRoundTrip(t *testing.T) {
	n := mustDecode(t, samplePage)
	out, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	n2 := mustDecode(t, string(out))
	if !n.Equal(n2) {
		t.Errorf("round trip changed the node:\n%s", cmp.Diff(n, n2))
	}
}

func TestDecodeNormalizesAbsentCollections(t *testing.T) {
	n := mustDecode(t, `{
		"schemaVersion": {"major": 1, "minor": 0, "patch": 0},
		"identifier": "doc://Example/empty",
		"kind": "article"
	}`)
	if n.Abstract == nil || n.Sections == nil || n.TopicSections == nil || n.References == nil {
		t.Fatalf("absent collections not normalized: %+v", n)
	}
	out, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// collections must be present in the wire form so per-element
	// array operations have somewhere to land
	for _, key := range []string{`"abstract":[]`, `"sections":[]`, `"topicSections":[]`, `"references":{}`} {
		if !strings.Contains(string(out), key) {
			t.Errorf("encoded node missing %s in %s", key, out)
		}
	}
}

// Every diffed member of a block must be on the wire even at its zero
// value, so a replace targeting it, or an add of the first code line,
// resolves against the older document.
func TestBlockMembersAlwaysOnWire(t *testing.T) {
	var s AnySection
	if err := json.Unmarshal([]byte(`{"kind": "content", "blocks": [{"type": "codeListing"}]}`), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, key := range []string{`"text":""`, `"level":0`, `"code":[]`} {
		if !strings.Contains(string(out), key) {
			t.Errorf("encoded block missing %s in %s", key, out)
		}
	}
}

func TestSectionDecodeDispatch(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string // kind
	}{
		{"content", `{"kind": "content", "blocks": []}`, SectionContent},
		{"taskGroup", `{"kind": "taskGroup", "title": "T", "identifiers": []}`, SectionTaskGroup},
		{"relationships", `{"kind": "relationships", "title": "Inherits From", "type": "inheritsFrom", "identifiers": []}`, SectionRelationships},
		{"declarations", `{"kind": "declarations", "declarations": []}`, SectionDeclarations},
		{"parameters", `{"kind": "parameters", "parameters": []}`, SectionParameters},
		{"unknown preserved", `{"kind": "mentions", "mentions": ["doc://x"]}`, "mentions"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s AnySection
			if err := json.Unmarshal([]byte(tc.data), &s); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := s.Section.SectionKind(); got != tc.want {
				t.Errorf("kind = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSectionDecodeMissingKind(t *testing.T) {
	var s AnySection
	if err := json.Unmarshal([]byte(`{"blocks": []}`), &s); err == nil {
		t.Fatal("expected error for missing kind tag")
	}
}

func TestUnknownSectionRoundTrip(t *testing.T) {
	raw := `{"extra":{"deep":[1,2,3]},"kind":"mentions"}`
	var s AnySection
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(out) != raw {
		t.Errorf("unknown section not preserved byte-wise: %s", out)
	}
}

func TestUnknownSectionPairingDiagnoses(t *testing.T) {
	var a, b AnySection
	if err := json.Unmarshal([]byte(`{"kind":"mentions","n":1}`), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"kind":"mentions","n":2}`), &b); err != nil {
		t.Fatal(err)
	}
	bld := diff.NewBuilder()
	at := pointer.Root().WithField("sections").WithIndex(0)
	diff.Diff(bld, a, b, at)
	p, diags := bld.Result()
	if len(diags) != 1 {
		t.Fatalf("want 1 diagnostic, got %v", diags)
	}
	if diags[0].Pointer != "/sections/0" {
		t.Errorf("diagnostic pointer = %q", diags[0].Pointer)
	}
	// degraded result is a single wholesale replace, never silence
	if len(p) != 1 || p[0].Op != "replace" {
		t.Errorf("degraded ops = %+v", p)
	}
}

func TestNodeSimilarity(t *testing.T) {
	a := &Node{Identifier: "doc://x", Kind: KindSymbol}
	b := &Node{Identifier: "doc://x", Kind: KindArticle}
	if diff.Similar(a, b) {
		t.Error("pages with different kinds must be dissimilar")
	}
	c := &Node{Identifier: "doc://x", Kind: KindSymbol, Metadata: &Metadata{Title: "X"}}
	if !diff.Similar(a, c) {
		t.Error("same identifier and kind must be similar")
	}
}

func TestTaskGroupAlignsByTitle(t *testing.T) {
	a := AnySection{TaskGroupSection{Title: "Essentials", Identifiers: []string{"doc://a"}}}
	b := AnySection{TaskGroupSection{Title: "Advanced", Identifiers: []string{"doc://a"}}}
	if diff.Similar(a, b) {
		t.Error("task groups with different titles must not align")
	}
	c := AnySection{TaskGroupSection{Title: "Essentials", Identifiers: []string{"doc://a", "doc://b"}}}
	if !diff.Similar(a, c) {
		t.Error("task groups with the same title must align")
	}
}

func TestDeclarationDiffRecursesIntoTokens(t *testing.T) {
	old := Declaration{
		Platforms: []string{"macOS"},
		Tokens: []DeclarationToken{
			{Text: "struct", Kind: "keyword"},
			{Text: "Widget", Kind: "identifier"},
		},
	}
	newer := Declaration{
		Platforms: []string{"macOS"},
		Tokens: []DeclarationToken{
			{Text: "struct", Kind: "keyword"},
			{Text: "Gadget", Kind: "identifier"},
		},
	}
	b := diff.NewBuilder()
	at := pointer.Root().WithField("declarations").WithIndex(0)
	diff.Diff(b, old, newer, at)
	p, diags := b.Result()
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if len(p) != 1 || p[0].Pointer != "/declarations/0/tokens/1/text" {
		t.Errorf("ops = %+v", p)
	}
}
