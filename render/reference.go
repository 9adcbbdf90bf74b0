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

// Reference kinds.
const (
	ReferenceTopic        = "topic"
	ReferenceImage        = "image"
	ReferenceUnresolvable = "unresolvable"
)

// Reference is one member of the closed family of reference kinds:
// the resolvable links, images and unresolvable stubs a page's content
// points at.
type Reference interface {
	ReferenceKind() string
	ReferenceIdentifier() string
}

// TopicReference links to another documentation page.
type TopicReference struct {
	Identifier string         `json:"identifier"`
	Title      string         `json:"title"`
	URL        string         `json:"url"`
	Abstract   []ContentBlock `json:"abstract"`
	Deprecated bool           `json:"deprecated"`
}

func (r TopicReference) ReferenceKind() string       { return ReferenceTopic }
func (r TopicReference) ReferenceIdentifier() string { return r.Identifier }

// ImageReference names an image asset with per-trait variants.
type ImageReference struct {
	Identifier string         `json:"identifier"`
	Alt        string         `json:"alt"`
	Variants   []ImageVariant `json:"variants"`
}

func (r ImageReference) ReferenceKind() string       { return ReferenceImage }
func (r ImageReference) ReferenceIdentifier() string { return r.Identifier }

// ImageVariant is one rendition of an image asset.
type ImageVariant struct {
	URL    string   `json:"url"`
	Traits []string `json:"traits"`
}

func (v ImageVariant) Equal(o ImageVariant) bool {
	return v.URL == o.URL && slices.Equal(v.Traits, o.Traits)
}

// Variants align by trait set; a re-exported asset keeps its traits
// and changes only its URL.
func (v ImageVariant) SimilarityKey() string {
	return "variant " + strings.Join(v.Traits, ",")
}

func (v ImageVariant) DiffInto(b *diff.Builder, newer ImageVariant, at pointer.Path) {
	diff.Scalar(b, v.URL, newer.URL, at.WithField("url"))
	diff.Strings(b, v.Traits, newer.Traits, at.WithField("traits"))
}

// UnresolvableReference records a link the resolver could not resolve.
type UnresolvableReference struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
}

func (r UnresolvableReference) ReferenceKind() string       { return ReferenceUnresolvable }
func (r UnresolvableReference) ReferenceIdentifier() string { return r.Identifier }

// UnknownReference preserves a reference of a kind the schema does not
// know, comparing byte-wise.
type UnknownReference struct {
	Kind       string
	Identifier string
	Raw        json.RawMessage
}

func (r UnknownReference) ReferenceKind() string       { return r.Kind }
func (r UnknownReference) ReferenceIdentifier() string { return r.Identifier }

// AnyReference wraps any member of the reference family behind one
// diffable facade, mirroring AnySection.
type AnyReference struct {
	Reference Reference
}

// SimilarityKey: references are the same logical entity when kind and
// identifier both match.
func (r AnyReference) SimilarityKey() string {
	return "reference " + r.Reference.ReferenceKind() + " " + r.Reference.ReferenceIdentifier()
}

func (r AnyReference) Equal(o AnyReference) bool {
	switch a := r.Reference.(type) {
	case TopicReference:
		b, ok := o.Reference.(TopicReference)
		return ok && a.Identifier == b.Identifier && a.Title == b.Title &&
			a.URL == b.URL && a.Deprecated == b.Deprecated &&
			blocksEqual(a.Abstract, b.Abstract)
	case ImageReference:
		b, ok := o.Reference.(ImageReference)
		return ok && a.Identifier == b.Identifier && a.Alt == b.Alt &&
			slices.EqualFunc(a.Variants, b.Variants, ImageVariant.Equal)
	case UnresolvableReference:
		b, ok := o.Reference.(UnresolvableReference)
		return ok && a == b
	case UnknownReference:
		b, ok := o.Reference.(UnknownReference)
		return ok && a.Kind == b.Kind && bytes.Equal(a.Raw, b.Raw)
	default:
		return false
	}
}

// DiffInto dispatches to the concrete kind; unhandled pairings are
// diagnosed and degrade to a replace.
func (r AnyReference) DiffInto(b *diff.Builder, newer AnyReference, at pointer.Path) {
	switch a := r.Reference.(type) {
	case TopicReference:
		if n, ok := newer.Reference.(TopicReference); ok {
			diff.Scalar(b, a.Identifier, n.Identifier, at.WithField("identifier"))
			diff.Scalar(b, a.Title, n.Title, at.WithField("title"))
			diff.Scalar(b, a.URL, n.URL, at.WithField("url"))
			diff.Scalar(b, a.Deprecated, n.Deprecated, at.WithField("deprecated"))
			diff.Values(b, a.Abstract, n.Abstract, at.WithField("abstract"))
			return
		}
	case ImageReference:
		if n, ok := newer.Reference.(ImageReference); ok {
			diff.Scalar(b, a.Identifier, n.Identifier, at.WithField("identifier"))
			diff.Scalar(b, a.Alt, n.Alt, at.WithField("alt"))
			diff.Values(b, a.Variants, n.Variants, at.WithField("variants"))
			return
		}
	case UnresolvableReference:
		if n, ok := newer.Reference.(UnresolvableReference); ok {
			diff.Scalar(b, a.Identifier, n.Identifier, at.WithField("identifier"))
			diff.Scalar(b, a.Title, n.Title, at.WithField("title"))
			return
		}
	}
	b.Diagnosef(at, "no diff handler for reference kind pairing %q/%q",
		r.Reference.ReferenceKind(), newer.Reference.ReferenceKind())
	b.Replace(at, newer)
}

func (r AnyReference) MarshalJSON() ([]byte, error) {
	return marshalKinded(r.Reference.ReferenceKind(), r.Reference)
}

func (r *AnyReference) UnmarshalJSON(d []byte) error {
	kind, err := probeKind(d)
	if err != nil {
		return fmt.Errorf("reference: %w", err)
	}
	switch kind {
	case ReferenceTopic:
		var v TopicReference
		if err := json.Unmarshal(d, &v); err != nil {
			return err
		}
		v.normalize()
		r.Reference = v
	case ReferenceImage:
		var v ImageReference
		if err := json.Unmarshal(d, &v); err != nil {
			return err
		}
		v.normalize()
		r.Reference = v
	case ReferenceUnresolvable:
		var v UnresolvableReference
		if err := json.Unmarshal(d, &v); err != nil {
			return err
		}
		r.Reference = v
	default:
		var probe struct {
			Identifier string `json:"identifier"`
		}
		// identifier is best-effort for unknown kinds
		_ = json.Unmarshal(d, &probe)
		r.Reference = UnknownReference{
			Kind:       kind,
			Identifier: probe.Identifier,
			Raw:        slices.Clone(d),
		}
	}
	return nil
}
