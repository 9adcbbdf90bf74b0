package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/renderkit/docdiff/diff"
	"github.com/renderkit/docdiff/pointer"
)

// Section kinds.
const (
	SectionContent       = "content"
	SectionTaskGroup     = "taskGroup"
	SectionRelationships = "relationships"
	SectionDeclarations  = "declarations"
	SectionParameters    = "parameters"
)

// Section is one member of the closed family of content section kinds.
// Concrete types are plain values; AnySection is the diffable facade
// containers work with.
type Section interface {
	SectionKind() string
}

// ContentSection is free-form authored markup.
type ContentSection struct {
	Blocks []ContentBlock `json:"blocks"`
}

func (ContentSection) SectionKind() string { return SectionContent }

// TaskGroupSection curates a titled group of topic identifiers.
type TaskGroupSection struct {
	Title       string   `json:"title"`
	Identifiers []string `json:"identifiers"`
}

func (TaskGroupSection) SectionKind() string { return SectionTaskGroup }

// RelationshipsSection lists identifiers related to the page in one
// particular way, e.g. "inheritsFrom" or "conformsTo".
type RelationshipsSection struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Identifiers []string `json:"identifiers"`
}

func (RelationshipsSection) SectionKind() string { return SectionRelationships }

// DeclarationsSection carries per-platform symbol declarations.
type DeclarationsSection struct {
	Declarations []Declaration `json:"declarations"`
}

func (DeclarationsSection) SectionKind() string { return SectionDeclarations }

// Declaration is one declaration fragment list with the platforms it
// applies to.
type Declaration struct {
	Platforms []string           `json:"platforms"`
	Tokens    []DeclarationToken `json:"tokens"`
}

func (d Declaration) Equal(o Declaration) bool {
	return slices.Equal(d.Platforms, o.Platforms) &&
		slices.EqualFunc(d.Tokens, o.Tokens, DeclarationToken.Equal)
}

// Declarations align by platform set; the token stream underneath is
// what actually changes between versions.
func (d Declaration) SimilarityKey() string {
	return "decl " + strings.Join(d.Platforms, ",")
}

func (d Declaration) DiffInto(b *diff.Builder, newer Declaration, at pointer.Path) {
	diff.Strings(b, d.Platforms, newer.Platforms, at.WithField("platforms"))
	diff.Values(b, d.Tokens, newer.Tokens, at.WithField("tokens"))
}

// DeclarationToken is one syntax-highlighting unit of a declaration.
type DeclarationToken struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

func (t DeclarationToken) Equal(o DeclarationToken) bool {
	return t == o
}

func (t DeclarationToken) SimilarityKey() string {
	return "token " + t.Kind
}

func (t DeclarationToken) DiffInto(b *diff.Builder, newer DeclarationToken, at pointer.Path) {
	diff.Scalar(b, t.Text, newer.Text, at.WithField("text"))
}

// ParametersSection documents a symbol's parameters.
type ParametersSection struct {
	Parameters []Parameter `json:"parameters"`
}

func (ParametersSection) SectionKind() string { return SectionParameters }

// Parameter is one named parameter with its block content.
type Parameter struct {
	Name    string         `json:"name"`
	Content []ContentBlock `json:"content"`
}

func (p Parameter) Equal(o Parameter) bool {
	return p.Name == o.Name && blocksEqual(p.Content, o.Content)
}

func (p Parameter) SimilarityKey() string {
	return "param " + p.Name
}

func (p Parameter) DiffInto(b *diff.Builder, newer Parameter, at pointer.Path) {
	diff.Scalar(b, p.Name, newer.Name, at.WithField("name"))
	diff.Values(b, p.Content, newer.Content, at.WithField("content"))
}

// UnknownSection preserves a section whose kind the schema does not
// know. It round-trips its raw form, compares byte-wise, and any
// non-equal pairing is reported as a diagnostic.
type UnknownSection struct {
	Kind string
	Raw  json.RawMessage
}

func (s UnknownSection) SectionKind() string { return s.Kind }

// AnySection wraps any member of the section family behind one
// comparable, diffable facade so heterogeneous ordered collections can
// be diffed uniformly. Similar means same kind; equality and diffing
// dispatch to the concrete kind.
type AnySection struct {
	Section Section
}

// SimilarityKey is the kind tag; task groups additionally key on their
// title so reordered groups align by name rather than by position.
func (s AnySection) SimilarityKey() string {
	switch v := s.Section.(type) {
	case TaskGroupSection:
		return "section " + v.SectionKind() + " " + v.Title
	case RelationshipsSection:
		return "section " + v.SectionKind() + " " + v.Type
	default:
		return "section " + s.Section.SectionKind()
	}
}

func (s AnySection) Equal(o AnySection) bool {
	switch a := s.Section.(type) {
	case ContentSection:
		b, ok := o.Section.(ContentSection)
		return ok && blocksEqual(a.Blocks, b.Blocks)
	case TaskGroupSection:
		b, ok := o.Section.(TaskGroupSection)
		return ok && a.Title == b.Title && slices.Equal(a.Identifiers, b.Identifiers)
	case RelationshipsSection:
		b, ok := o.Section.(RelationshipsSection)
		return ok && a.Title == b.Title && a.Type == b.Type &&
			slices.Equal(a.Identifiers, b.Identifiers)
	case DeclarationsSection:
		b, ok := o.Section.(DeclarationsSection)
		return ok && slices.EqualFunc(a.Declarations, b.Declarations, Declaration.Equal)
	case ParametersSection:
		b, ok := o.Section.(ParametersSection)
		return ok && slices.EqualFunc(a.Parameters, b.Parameters, Parameter.Equal)
	case UnknownSection:
		b, ok := o.Section.(UnknownSection)
		return ok && a.Kind == b.Kind && bytes.Equal(a.Raw, b.Raw)
	default:
		return false
	}
}

// DiffInto dispatches to the concrete kind. It is only reached for
// similar (same-kind) non-equal pairs. A pairing with no handler is
// reported as a diagnostic and degrades to a replace; it is never
// silently treated as unchanged.
func (s AnySection) DiffInto(b *diff.Builder, newer AnySection, at pointer.Path) {
	switch a := s.Section.(type) {
	case ContentSection:
		if n, ok := newer.Section.(ContentSection); ok {
			diff.Values(b, a.Blocks, n.Blocks, at.WithField("blocks"))
			return
		}
	case TaskGroupSection:
		if n, ok := newer.Section.(TaskGroupSection); ok {
			diff.Scalar(b, a.Title, n.Title, at.WithField("title"))
			diff.Strings(b, a.Identifiers, n.Identifiers, at.WithField("identifiers"))
			return
		}
	case RelationshipsSection:
		if n, ok := newer.Section.(RelationshipsSection); ok {
			diff.Scalar(b, a.Title, n.Title, at.WithField("title"))
			diff.Scalar(b, a.Type, n.Type, at.WithField("type"))
			diff.Strings(b, a.Identifiers, n.Identifiers, at.WithField("identifiers"))
			return
		}
	case DeclarationsSection:
		if n, ok := newer.Section.(DeclarationsSection); ok {
			diff.Values(b, a.Declarations, n.Declarations, at.WithField("declarations"))
			return
		}
	case ParametersSection:
		if n, ok := newer.Section.(ParametersSection); ok {
			diff.Values(b, a.Parameters, n.Parameters, at.WithField("parameters"))
			return
		}
	}
	b.Diagnosef(at, "no diff handler for section kind pairing %q/%q",
		s.Section.SectionKind(), newer.Section.SectionKind())
	b.Replace(at, newer)
}

func (s AnySection) MarshalJSON() ([]byte, error) {
	return marshalKinded(s.Section.SectionKind(), s.Section)
}

func (s *AnySection) UnmarshalJSON(d []byte) error {
	kind, err := probeKind(d)
	if err != nil {
		return fmt.Errorf("section: %w", err)
	}
	switch kind {
	case SectionContent:
		var v ContentSection
		if err := json.Unmarshal(d, &v); err != nil {
			return err
		}
		v.normalize()
		s.Section = v
	case SectionTaskGroup:
		var v TaskGroupSection
		if err := json.Unmarshal(d, &v); err != nil {
			return err
		}
		v.normalize()
		s.Section = v
	case SectionRelationships:
		var v RelationshipsSection
		if err := json.Unmarshal(d, &v); err != nil {
			return err
		}
		v.normalize()
		s.Section = v
	case SectionDeclarations:
		var v DeclarationsSection
		if err := json.Unmarshal(d, &v); err != nil {
			return err
		}
		v.normalize()
		s.Section = v
	case SectionParameters:
		var v ParametersSection
		if err := json.Unmarshal(d, &v); err != nil {
			return err
		}
		v.normalize()
		s.Section = v
	default:
		s.Section = UnknownSection{Kind: kind, Raw: slices.Clone(d)}
	}
	return nil
}

// marshalKinded splices the kind tag into the concrete value's wire
// form.
func marshalKinded(kind string, v any) ([]byte, error) {
	if u, ok := v.(UnknownSection); ok {
		return u.Raw, nil
	}
	if u, ok := v.(UnknownReference); ok {
		return u.Raw, nil
	}
	d, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(d, &m); err != nil {
		return nil, err
	}
	kd, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}
	m["kind"] = kd
	return json.Marshal(m)
}

func probeKind(d []byte) (string, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(d, &probe); err != nil {
		return "", err
	}
	if probe.Kind == "" {
		return "", fmt.Errorf("missing kind tag")
	}
	return probe.Kind, nil
}
