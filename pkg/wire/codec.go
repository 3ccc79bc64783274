package wire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// SOAP 1.1 envelope namespace.
const EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

const (
	envelopePrefix  = "soapenv"
	operationPrefix = "v1"
)

// ErrNoBody is returned when a response envelope has nothing inside Body.
var ErrNoBody = errors.New("envelope has no body content")

// Fault is a SOAP fault returned in place of an operation response.
type Fault struct {
	Code   string
	String string
	Detail Node
}

func (f *Fault) Error() string {
	return fmt.Sprintf("soap fault %s: %s", f.Code, f.String)
}

type encodeOptions struct {
	namespaces [][2]string
}

// EncodeOption customizes Encode.
type EncodeOption func(*encodeOptions)

// WithNamespace declares an extra prefix on the envelope so qualified field
// names such as "arr:string" resolve.
func WithNamespace(prefix, uri string) EncodeOption {
	return func(o *encodeOptions) {
		o.namespaces = append(o.namespaces, [2]string{prefix, uri})
	}
}

// Encode wraps body in a SOAP envelope under a v1:<operation> element bound
// to namespace.
//
// Maps emit one element per field in order, lists emit one sibling per item
// using the enclosing field name, scalars emit escaped text and absent nodes
// emit nothing. Field names that already carry a prefix are written as is.
func Encode(operation string, body Node, namespace string, opts ...EncodeOption) ([]byte, error) {
	if operation == "" {
		return nil, errors.New("operation name is required")
	}
	if namespace == "" {
		return nil, errors.New("operation namespace is required")
	}
	if body.Kind() != KindMap && !body.IsAbsent() {
		return nil, fmt.Errorf("operation body must be a map, got %s", body.Kind())
	}

	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	doc := etree.NewDocument()
	// Canonical text writes \r as a character reference, which survives the
	// parser's line-ending normalization.
	doc.WriteSettings.CanonicalText = true
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	env := doc.CreateElement(envelopePrefix + ":Envelope")
	env.CreateAttr("xmlns:"+envelopePrefix, EnvelopeNamespace)
	env.CreateAttr("xmlns:"+operationPrefix, namespace)
	for _, ns := range o.namespaces {
		env.CreateAttr("xmlns:"+ns[0], ns[1])
	}

	env.CreateElement(envelopePrefix + ":Header")
	soapBody := env.CreateElement(envelopePrefix + ":Body")
	op := soapBody.CreateElement(operationPrefix + ":" + operation)

	for _, f := range body.Fields() {
		writeField(op, f.Name, f.Value)
	}

	return doc.WriteToBytes()
}

func writeField(parent *etree.Element, name string, n Node) {
	switch n.Kind() {
	case KindAbsent:
		return
	case KindScalar:
		parent.CreateElement(qualify(name)).SetText(n.Text())
	case KindMap:
		el := parent.CreateElement(qualify(name))
		for _, f := range n.Fields() {
			writeField(el, f.Name, f.Value)
		}
	case KindList:
		for _, item := range n.Items() {
			writeField(parent, name, item)
		}
	}
}

func qualify(name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return operationPrefix + ":" + name
}

// Decode parses a response and returns the first element inside the SOAP
// Body as a Node. Documents that are not envelopes decode from their root.
// A Fault body yields a *Fault error.
func Decode(raw []byte) (Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return Node{}, fmt.Errorf("parsing response: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return Node{}, errors.New("parsing response: empty document")
	}
	if root.Tag != "Envelope" {
		return decodeElement(root), nil
	}

	var body *etree.Element
	for _, c := range root.ChildElements() {
		if c.Tag == "Body" {
			body = c
			break
		}
	}
	if body == nil || len(body.ChildElements()) == 0 {
		return Node{}, ErrNoBody
	}

	content := body.ChildElements()[0]
	if content.Tag == "Fault" {
		detail := decodeElement(content)
		return detail, &Fault{
			Code:   detail.Get("faultcode").Text(),
			String: detail.Get("faultstring").Text(),
			Detail: detail.Get("detail"),
		}
	}
	return decodeElement(content), nil
}

func decodeElement(el *etree.Element) Node {
	if isNil(el) {
		return Absent()
	}

	children := el.ChildElements()
	if len(children) == 0 {
		return String(el.Text())
	}

	fields := make([]Field, 0, len(children))
	index := make(map[string]int, len(children))
	for _, c := range children {
		v := decodeElement(c)
		i, seen := index[c.Tag]
		if !seen {
			index[c.Tag] = len(fields)
			fields = append(fields, F(c.Tag, v))
			continue
		}
		prev := fields[i].Value
		if prev.kind == KindList {
			fields[i].Value = Node{kind: KindList, items: append(prev.items, v)}
		} else {
			fields[i].Value = List(prev, v)
		}
	}
	return Map(fields...)
}

func isNil(el *etree.Element) bool {
	for _, a := range el.Attr {
		if a.Key == "nil" && strings.EqualFold(a.Value, "true") {
			return true
		}
	}
	return false
}
