package wire

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders maps as objects in field order, lists as arrays,
// scalars as JSON values and absent nodes as null.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n Node) writeJSON(buf *bytes.Buffer) error {
	switch n.kind {
	case KindScalar:
		b, err := json.Marshal(n.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindMap:
		buf.WriteByte('{')
		for i, f := range n.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Name)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindList:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("null")
	}
	return nil
}
