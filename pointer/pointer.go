// Package pointer models locations in a rendered documentation tree
// as ordered paths of field and index segments, and renders them in
// JSON Pointer (RFC 6901) syntax.
package pointer

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind discriminates field segments from index segments so a
// field whose name happens to look numeric is never confused with an
// array index.
type SegmentKind int

const (
	FieldKind SegmentKind = iota
	IndexKind
)

// Segment is one step into a tree: either a named field of an object
// or an index into an array.
type Segment struct {
	Kind  SegmentKind
	Name  string
	Index int
}

// Field returns an object-field segment.
func Field(name string) Segment {
	return Segment{Kind: FieldKind, Name: name}
}

// Index returns an array-index segment.
func Index(i int) Segment {
	return Segment{Kind: IndexKind, Index: i}
}

func (s Segment) String() string {
	if s.Kind == IndexKind {
		return strconv.Itoa(s.Index)
	}
	return escape(s.Name)
}

// Path is an ordered sequence of segments. The empty path denotes the
// document root. Paths are write-once: descending into a field or
// element produces a new path, leaving the parent path untouched.
type Path []Segment

// Root returns the empty path.
func Root() Path {
	return nil
}

// WithField returns a copy of p extended by a field segment.
func (p Path) WithField(name string) Path {
	return p.with(Field(name))
}

// WithIndex returns a copy of p extended by an index segment.
func (p Path) WithIndex(i int) Path {
	return p.with(Index(i))
}

// with copies before appending so sibling paths built from the same
// prefix never alias one another's backing array.
func (p Path) with(s Segment) Path {
	res := make(Path, len(p), len(p)+1)
	copy(res, p)
	return append(res, s)
}

// Pointer renders p in JSON Pointer syntax: "" for the root, otherwise
// a sequence of /-prefixed segments with ~ and / escaped as ~0 and ~1.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, s := range p {
		sb.WriteByte('/')
		sb.WriteString(s.String())
	}
	return sb.String()
}

func (p Path) String() string {
	return p.Pointer()
}

// Parse decodes a JSON Pointer. A segment consisting solely of decimal
// digits parses as an index segment; the pointer syntax itself does not
// distinguish the two, so callers that need a field named "0" must
// resolve against a schema.
func Parse(ptr string) (Path, error) {
	if ptr == "" {
		return Root(), nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("pointer %q: must be empty or start with '/'", ptr)
	}
	parts := strings.Split(ptr[1:], "/")
	res := make(Path, 0, len(parts))
	for _, part := range parts {
		name, err := unescape(part)
		if err != nil {
			return nil, fmt.Errorf("pointer %q: %w", ptr, err)
		}
		if i, err := strconv.Atoi(part); err == nil && i >= 0 && strconv.Itoa(i) == part {
			res = append(res, Index(i))
			continue
		}
		res = append(res, Field(name))
	}
	return res, nil
}

func escape(name string) string {
	name = strings.ReplaceAll(name, "~", "~0")
	name = strings.ReplaceAll(name, "/", "~1")
	return name
}

func unescape(seg string) (string, error) {
	if !strings.ContainsRune(seg, '~') {
		return seg, nil
	}
	var sb strings.Builder
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if c != '~' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i == len(seg) {
			return "", fmt.Errorf("dangling '~' in segment %q", seg)
		}
		switch seg[i] {
		case '0':
			sb.WriteByte('~')
		case '1':
			sb.WriteByte('/')
		default:
			return "", fmt.Errorf("bad escape ~%c in segment %q", seg[i], seg)
		}
	}
	return sb.String(), nil
}
