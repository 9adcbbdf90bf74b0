// Package patch models RFC 6902 JSON Patch documents: ordered lists of
// add/remove/replace operations addressed by JSON Pointers.
package patch

import (
	"encoding/json"
	"fmt"

	"github.com/renderkit/docdiff/pointer"
)

// Op names a patch operation.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
)

// Operation is a single patch step. Pointer always resolves relative to
// the document root, never relative to a preceding operation. Value is
// a self-contained snapshot of the subtree at Pointer, present for add
// and replace only.
type Operation struct {
	Op      Op
	Pointer string
	Value   any
}

// Add returns an add operation inserting value at p.
func Add(p pointer.Path, value any) Operation {
	return Operation{Op: OpAdd, Pointer: p.Pointer(), Value: value}
}

// Remove returns a remove operation for p.
func Remove(p pointer.Path) Operation {
	return Operation{Op: OpRemove, Pointer: p.Pointer()}
}

// Replace returns a replace operation setting p to value.
func Replace(p pointer.Path, value any) Operation {
	return Operation{Op: OpReplace, Pointer: p.Pointer(), Value: value}
}

// wireOp carries the wire shape. Value is raw so that an explicit
// null, empty array or empty object value survives encoding, and so
// a missing value is distinguishable from a null one.
type wireOp struct {
	Op    Op              `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

func (o Operation) MarshalJSON() ([]byte, error) {
	w := wireOp{Op: o.Op, Path: o.Pointer}
	if o.Op != OpRemove {
		d, err := json.Marshal(o.Value)
		if err != nil {
			return nil, err
		}
		w.Value = d
	}
	return json.Marshal(w)
}

func (o *Operation) UnmarshalJSON(d []byte) error {
	var w wireOp
	if err := json.Unmarshal(d, &w); err != nil {
		return err
	}
	o.Op = w.Op
	o.Pointer = w.Path
	o.Value = nil
	switch w.Op {
	case OpAdd, OpReplace:
		if w.Value == nil {
			return fmt.Errorf("%s operation at %q has no value", w.Op, w.Path)
		}
		if err := json.Unmarshal(w.Value, &o.Value); err != nil {
			return err
		}
	case OpRemove:
		if w.Value != nil {
			return fmt.Errorf("remove operation at %q carries a value", w.Path)
		}
	default:
		return fmt.Errorf("unknown patch op %q at %q", w.Op, w.Path)
	}
	return nil
}

// Patch is an ordered list of operations. Order matters: array-index
// operations are interpreted against pre-patch positions, so removals
// within one array level precede insertions.
type Patch []Operation

// Empty reports whether p contains no operations.
func (p Patch) Empty() bool {
	return len(p) == 0
}
