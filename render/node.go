// Package render models a rendered documentation page as an immutable
// tree of kind-tagged sections and references, and implements the
// diffing contract for every node in it.
package render

import (
	"slices"
	"strings"

	"github.com/renderkit/docdiff/diff"
	"github.com/renderkit/docdiff/pointer"
)

// Page kinds.
const (
	KindArticle  = "article"
	KindSymbol   = "symbol"
	KindTutorial = "tutorial"
)

// Node is one documentation page, fully built by the upstream content
// pipeline before diffing starts. Nodes are never mutated by the
// differ.
type Node struct {
	SchemaVersion SchemaVersion           `json:"schemaVersion"`
	Identifier    string                  `json:"identifier"`
	Kind          string                  `json:"kind"`
	Metadata      *Metadata               `json:"metadata,omitempty"`
	Abstract      []ContentBlock          `json:"abstract"`
	Sections      []AnySection            `json:"sections"`
	TopicSections []AnySection            `json:"topicSections"`
	References    map[string]AnyReference `json:"references"`
	Hierarchy     *Hierarchy              `json:"hierarchy,omitempty"`
	Deprecated    *DeprecationSummary     `json:"deprecated,omitempty"`
}

func (n *Node) Equal(o *Node) bool {
	if n.SchemaVersion != o.SchemaVersion ||
		n.Identifier != o.Identifier ||
		n.Kind != o.Kind {
		return false
	}
	if !optEqual(n.Metadata, o.Metadata) ||
		!optEqual(n.Hierarchy, o.Hierarchy) ||
		!optEqual(n.Deprecated, o.Deprecated) {
		return false
	}
	if !blocksEqual(n.Abstract, o.Abstract) ||
		!sectionsEqual(n.Sections, o.Sections) ||
		!sectionsEqual(n.TopicSections, o.TopicSections) {
		return false
	}
	if len(n.References) != len(o.References) {
		return false
	}
	for k, v := range n.References {
		ov, ok := o.References[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// SimilarityKey: two pages are the same logical page when they share
// both stable identifier and kind. A page whose kind changed is a
// different page and is replaced wholesale.
func (n *Node) SimilarityKey() string {
	return n.Kind + " " + n.Identifier
}

func (n *Node) DiffInto(b *diff.Builder, newer *Node, at pointer.Path) {
	diff.Diff(b, n.SchemaVersion, newer.SchemaVersion, at.WithField("schemaVersion"))
	diff.Scalar(b, n.Identifier, newer.Identifier, at.WithField("identifier"))
	diff.Scalar(b, n.Kind, newer.Kind, at.WithField("kind"))
	diff.Optional(b, n.Metadata, newer.Metadata, at.WithField("metadata"))
	diff.Values(b, n.Abstract, newer.Abstract, at.WithField("abstract"))
	diff.Values(b, n.Sections, newer.Sections, at.WithField("sections"))
	diff.Values(b, n.TopicSections, newer.TopicSections, at.WithField("topicSections"))
	diff.Map(b, n.References, newer.References, at.WithField("references"))
	diff.Optional(b, n.Hierarchy, newer.Hierarchy, at.WithField("hierarchy"))
	diff.Optional(b, n.Deprecated, newer.Deprecated, at.WithField("deprecated"))
}

// SchemaVersion versions the wire shape of a page.
type SchemaVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

func (v SchemaVersion) Equal(o SchemaVersion) bool {
	return v == o
}

// Versions are always similar: a version bump diffs component by
// component rather than replacing the object.
func (v SchemaVersion) SimilarityKey() string {
	return "schemaVersion"
}

func (v SchemaVersion) DiffInto(b *diff.Builder, newer SchemaVersion, at pointer.Path) {
	diff.Scalar(b, v.Major, newer.Major, at.WithField("major"))
	diff.Scalar(b, v.Minor, newer.Minor, at.WithField("minor"))
	diff.Scalar(b, v.Patch, newer.Patch, at.WithField("patch"))
}

// Metadata carries page-level presentation details.
type Metadata struct {
	Title       string   `json:"title"`
	RoleHeading string   `json:"roleHeading"`
	Modules     []string `json:"modules"`
}

func (m Metadata) Equal(o Metadata) bool {
	return m.Title == o.Title &&
		m.RoleHeading == o.RoleHeading &&
		slices.Equal(m.Modules, o.Modules)
}

func (m Metadata) SimilarityKey() string {
	return "metadata"
}

func (m Metadata) DiffInto(b *diff.Builder, newer Metadata, at pointer.Path) {
	diff.Scalar(b, m.Title, newer.Title, at.WithField("title"))
	diff.Scalar(b, m.RoleHeading, newer.RoleHeading, at.WithField("roleHeading"))
	diff.Strings(b, m.Modules, newer.Modules, at.WithField("modules"))
}

// Hierarchy locates a page under its curation paths, root first.
type Hierarchy struct {
	Paths [][]string `json:"paths"`
}

func (h Hierarchy) Equal(o Hierarchy) bool {
	return slices.EqualFunc(h.Paths, o.Paths, slices.Equal)
}

func (h Hierarchy) SimilarityKey() string {
	return "hierarchy"
}

func (h Hierarchy) DiffInto(b *diff.Builder, newer Hierarchy, at pointer.Path) {
	diff.Values(b, breadcrumbs(h.Paths), breadcrumbs(newer.Paths), at.WithField("paths"))
}

// breadcrumb is one curation path. A changed path is a different path,
// so similarity coincides with equality and alignment never recurses.
type breadcrumb []string

func (bc breadcrumb) Equal(o breadcrumb) bool {
	return slices.Equal(bc, o)
}

func (bc breadcrumb) SimilarityKey() string {
	return "crumb " + strings.Join(bc, "\x00")
}

func (bc breadcrumb) DiffInto(b *diff.Builder, newer breadcrumb, at pointer.Path) {
	b.Replace(at, newer)
}

func breadcrumbs(paths [][]string) []breadcrumb {
	res := make([]breadcrumb, len(paths))
	for i, p := range paths {
		res[i] = breadcrumb(p)
	}
	return res
}

// DeprecationSummary explains why a page is deprecated.
type DeprecationSummary struct {
	Message string `json:"message"`
}

func (s DeprecationSummary) Equal(o DeprecationSummary) bool {
	return s == o
}

func (s DeprecationSummary) SimilarityKey() string {
	return "deprecated"
}

func (s DeprecationSummary) DiffInto(b *diff.Builder, newer DeprecationSummary, at pointer.Path) {
	diff.Scalar(b, s.Message, newer.Message, at.WithField("message"))
}

// Content block types.
const (
	BlockParagraph   = "paragraph"
	BlockHeading     = "heading"
	BlockCodeListing = "codeListing"
)

// ContentBlock is one unit of authored markup: a paragraph, a heading,
// or a code listing.
type ContentBlock struct {
	Type  string   `json:"type"`
	Text  string   `json:"text"`
	Level int      `json:"level"`
	Code  []string `json:"code"`
}

func (c ContentBlock) Equal(o ContentBlock) bool {
	return c.Type == o.Type &&
		c.Text == o.Text &&
		c.Level == o.Level &&
		slices.Equal(c.Code, o.Code)
}

// Blocks align by type: an edited paragraph pairs with a paragraph,
// a heading never pairs with a code listing.
func (c ContentBlock) SimilarityKey() string {
	return "block " + c.Type
}

func (c ContentBlock) DiffInto(b *diff.Builder, newer ContentBlock, at pointer.Path) {
	diff.Scalar(b, c.Text, newer.Text, at.WithField("text"))
	diff.Scalar(b, c.Level, newer.Level, at.WithField("level"))
	diff.Strings(b, c.Code, newer.Code, at.WithField("code"))
}

func blocksEqual(a, b []ContentBlock) bool {
	return slices.EqualFunc(a, b, ContentBlock.Equal)
}

func sectionsEqual(a, b []AnySection) bool {
	return slices.EqualFunc(a, b, AnySection.Equal)
}

func optEqual[T interface{ Equal(T) bool }](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return (*a).Equal(*b)
}
