package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// object is an ordered JSON object. It is never mutated after construction.
type object struct {
	keys   []string
	values map[string]any
}

func newObject() *object {
	return &object{values: map[string]any{}}
}

func (o *object) clone() *object {
	c := &object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]any, len(o.values)),
	}
	copy(c.keys, o.keys)
	for k, v := range o.values {
		c.values[k] = v
	}
	return c
}

func (o *object) with(key string, v any) *object {
	c := o.clone()
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v
	return c
}

func (o *object) without(key string) *object {
	if _, ok := o.values[key]; !ok {
		return o
	}
	c := o.clone()
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return c
}

// Document is an immutable JSON object value. The zero value is an empty object.
type Document struct {
	root *object
}

// New returns an empty document.
func New() Document {
	return Document{root: newObject()}
}

func (d Document) obj() *object {
	if d.root == nil {
		return newObject()
	}
	return d.root
}

// Keys returns the top-level keys in document order.
func (d Document) Keys() []string {
	keys := d.obj().keys
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Len returns the number of top-level keys.
func (d Document) Len() int { return len(d.obj().keys) }

// Get returns the value at p. Nested objects are returned as Document;
// numbers as json.Number.
func (d Document) Get(p Path) (any, bool) {
	if len(p) == 0 {
		return d, true
	}
	cur := d.obj()
	for i, key := range p {
		v, ok := cur.values[key]
		if !ok {
			return nil, false
		}
		if i == len(p)-1 {
			if o, isObj := v.(*object); isObj {
				return Document{root: o}, true
			}
			return v, true
		}
		next, isObj := v.(*object)
		if !isObj {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// GetString returns the string at p.
func (d Document) GetString(p Path) (string, bool) {
	v, ok := d.Get(p)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has reports whether p resolves to a value.
func (d Document) Has(p Path) bool {
	_, ok := d.Get(p)
	return ok
}

// Set returns a copy of d with p set to v. New keys are appended after the
// existing ones of their object. When the parent of p is absent or not an
// object, d is returned unchanged.
func (d Document) Set(p Path, v any) (Document, error) {
	if len(p) == 0 {
		return d, errors.New("empty path")
	}
	nv, err := normalize(v)
	if err != nil {
		return d, err
	}
	updated, ok := setIn(d.obj(), p, nv)
	if !ok {
		return d, nil
	}
	return Document{root: updated}, nil
}

// Delete returns a copy of d without p. Absent paths leave d unchanged.
func (d Document) Delete(p Path) Document {
	if len(p) == 0 {
		return d
	}
	updated, ok := deleteIn(d.obj(), p)
	if !ok {
		return d
	}
	return Document{root: updated}
}

func setIn(o *object, p Path, v any) (*object, bool) {
	if len(p) == 1 {
		return o.with(p[0], v), true
	}
	child, ok := o.values[p[0]].(*object)
	if !ok {
		return nil, false
	}
	updated, ok := setIn(child, p[1:], v)
	if !ok {
		return nil, false
	}
	return o.with(p[0], updated), true
}

func deleteIn(o *object, p Path) (*object, bool) {
	if len(p) == 1 {
		if _, ok := o.values[p[0]]; !ok {
			return nil, false
		}
		return o.without(p[0]), true
	}
	child, ok := o.values[p[0]].(*object)
	if !ok {
		return nil, false
	}
	updated, ok := deleteIn(child, p[1:])
	if !ok {
		return nil, false
	}
	return o.with(p[0], updated), true
}

// normalize converts caller-supplied values into the document's value set.
func normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool, json.Number:
		return val, nil
	case int:
		return json.Number(strconv.Itoa(val)), nil
	case int64:
		return json.Number(strconv.FormatInt(val, 10)), nil
	case float64:
		return json.Number(strconv.FormatFloat(val, 'f', -1, 64)), nil
	case Document:
		return val.obj(), nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// Parse decodes a JSON object, preserving key order. Duplicate keys keep
// their first position and their last value.
func Parse(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Document{}, fmt.Errorf("reading document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Document{}, fmt.Errorf("top-level value must be an object")
	}

	root, err := decodeObject(dec)
	if err != nil {
		return Document{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return Document{}, fmt.Errorf("unexpected data after top-level object")
	}
	return Document{root: root}, nil
}

func decodeObject(dec *json.Decoder) (*object, error) {
	o := newObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		if _, exists := o.values[key]; !exists {
			o.keys = append(o.keys, key)
		}
		o.values[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return o, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		return t, nil
	}
}

// Marshal encodes d with two-space indentation, keys in document order,
// HTML characters unescaped and a trailing newline.
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, d.obj(), 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Equal reports whether a and b encode identically.
func Equal(a, b Document) bool {
	ab, errA := a.Marshal()
	bb, errB := b.Marshal()
	return errA == nil && errB == nil && bytes.Equal(ab, bb)
}

const indentUnit = "  "

func encodeValue(buf *bytes.Buffer, v any, depth int) error {
	switch val := v.(type) {
	case *object:
		if len(val.keys) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, k := range val.keys {
			writeIndent(buf, depth+1)
			if err := encodeString(buf, k); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := encodeValue(buf, val.values[k], depth+1); err != nil {
				return err
			}
			if i < len(val.keys)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte('}')
	case []any:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range val {
			writeIndent(buf, depth+1)
			if err := encodeValue(buf, item, depth+1); err != nil {
				return err
			}
			if i < len(val)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte(']')
	case string:
		return encodeString(buf, val)
	case json.Number:
		buf.WriteString(val.String())
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("cannot encode %T", v)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(indentUnit)
	}
}
