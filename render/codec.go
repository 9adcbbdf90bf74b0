package render

import "encoding/json"

// The wire form always carries the structural collections, even when
// empty, so array-index patch operations resolve against them. Decoded
// nodes therefore normalize nil collections to empty ones; producers
// building nodes programmatically are expected to do the same.

func (n *Node) UnmarshalJSON(d []byte) error {
	type alias Node
	var a alias
	if err := json.Unmarshal(d, &a); err != nil {
		return err
	}
	*n = Node(a)
	n.Abstract = normalizeBlocks(n.Abstract)
	n.Sections = orEmpty(n.Sections)
	n.TopicSections = orEmpty(n.TopicSections)
	if n.References == nil {
		n.References = map[string]AnyReference{}
	}
	if n.Metadata != nil {
		n.Metadata.Modules = orEmpty(n.Metadata.Modules)
	}
	if n.Hierarchy != nil {
		n.Hierarchy.Paths = orEmpty(n.Hierarchy.Paths)
	}
	return nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// normalizeBlocks normalizes a block list and the code collection of
// each block in it.
func normalizeBlocks(blocks []ContentBlock) []ContentBlock {
	blocks = orEmpty(blocks)
	for i := range blocks {
		blocks[i].Code = orEmpty(blocks[i].Code)
	}
	return blocks
}

func (s *ContentSection) normalize() {
	s.Blocks = normalizeBlocks(s.Blocks)
}

func (s *TaskGroupSection) normalize() {
	s.Identifiers = orEmpty(s.Identifiers)
}

func (s *RelationshipsSection) normalize() {
	s.Identifiers = orEmpty(s.Identifiers)
}

func (s *DeclarationsSection) normalize() {
	s.Declarations = orEmpty(s.Declarations)
	for i := range s.Declarations {
		d := &s.Declarations[i]
		d.Platforms = orEmpty(d.Platforms)
		d.Tokens = orEmpty(d.Tokens)
	}
}

func (s *ParametersSection) normalize() {
	s.Parameters = orEmpty(s.Parameters)
	for i := range s.Parameters {
		s.Parameters[i].Content = normalizeBlocks(s.Parameters[i].Content)
	}
}

func (r *TopicReference) normalize() {
	r.Abstract = normalizeBlocks(r.Abstract)
}

func (r *ImageReference) normalize() {
	r.Variants = orEmpty(r.Variants)
	for i := range r.Variants {
		r.Variants[i].Traits = orEmpty(r.Variants[i].Traits)
	}
}
