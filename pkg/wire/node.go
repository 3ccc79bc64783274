// Package wire holds the recursive value used to build and inspect Aramex
// SOAP payloads, and the codec that turns it into (and back from) an envelope.
package wire

import (
	"strconv"
	"strings"
)

// Kind identifies which variant a Node holds.
type Kind uint8

const (
	// KindAbsent marks a field that must not be emitted at all.
	KindAbsent Kind = iota
	KindScalar
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "absent"
	}
}

// Field is one named entry of a Map node. Order is significant: the carrier
// schema is a sequence, not a set.
type Field struct {
	Name  string
	Value Node
}

// Node is either a scalar, an ordered map, a list, or absent. The zero value
// is absent.
type Node struct {
	kind   Kind
	scalar any
	fields []Field
	items  []Node
}

// Absent returns a node that is dropped on encode.
func Absent() Node { return Node{} }

// String returns a string scalar.
func String(s string) Node { return Node{kind: KindScalar, scalar: s} }

// Int returns an integer scalar.
func Int(i int64) Node { return Node{kind: KindScalar, scalar: i} }

// Float returns a floating point scalar.
func Float(f float64) Node { return Node{kind: KindScalar, scalar: f} }

// Bool returns a boolean scalar.
func Bool(b bool) Node { return Node{kind: KindScalar, scalar: b} }

// F is shorthand for a Field literal.
func F(name string, value Node) Field { return Field{Name: name, Value: value} }

// Map returns an ordered map node.
func Map(fields ...Field) Node {
	return Node{kind: KindMap, fields: fields}
}

// List returns a list node.
func List(items ...Node) Node {
	return Node{kind: KindList, items: items}
}

// Kind reports the variant held by n.
func (n Node) Kind() Kind { return n.kind }

// IsAbsent reports whether n is the absent marker.
func (n Node) IsAbsent() bool { return n.kind == KindAbsent }

// Fields returns the fields of a map node in order.
func (n Node) Fields() []Field {
	if n.kind != KindMap {
		return nil
	}
	return n.fields
}

// Get returns the first field called name. Missing fields, and lookups on
// anything other than a map, yield an absent node.
func (n Node) Get(name string) Node {
	if n.kind != KindMap {
		return Node{}
	}
	for _, f := range n.fields {
		if f.Name == name {
			return f.Value
		}
	}
	return Node{}
}

// Path walks nested maps by field name.
func (n Node) Path(names ...string) Node {
	cur := n
	for _, name := range names {
		cur = cur.Get(name)
		if cur.IsAbsent() {
			return cur
		}
	}
	return cur
}

// Items views n as a sequence. A list yields its items, an absent node yields
// nothing, and any other node is a sequence of one. Decoded XML cannot tell a
// single repeated element from a lone one, so readers go through Items.
func (n Node) Items() []Node {
	switch n.kind {
	case KindList:
		return n.items
	case KindAbsent:
		return nil
	default:
		return []Node{n}
	}
}

// Text renders a scalar as it appears on the wire. Non-scalars give "".
func (n Node) Text() string {
	if n.kind != KindScalar {
		return ""
	}
	switch v := n.scalar.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Float reads a scalar as a number, parsing decoded text when needed.
func (n Node) Float() (float64, bool) {
	if n.kind != KindScalar {
		return 0, false
	}
	switch v := n.scalar.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool reads a scalar as a boolean, parsing decoded text when needed.
func (n Node) Bool() (bool, bool) {
	if n.kind != KindScalar {
		return false, false
	}
	switch v := n.scalar.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	default:
		return false, false
	}
}
