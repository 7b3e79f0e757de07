/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchtree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON implements json.Marshaler, following the buffer-building
// style of structurev2's Standard*Node.MarshalJSON.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(n.b)
	case KindI64:
		return json.Marshal(n.i)
	case KindU64:
		return json.Marshal(n.u)
	case KindF64:
		return json.Marshal(n.f)
	case KindStr:
		return json.Marshal(n.s)
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, child := range n.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := child.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, key := range n.obj.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := n.obj.values[i].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("patchtree: unknown kind %v", n.kind)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (n Node) MarshalYAML() (interface{}, error) {
	switch n.kind {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", n.b)}, nil
	case KindI64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", n.i)}, nil
	case KindU64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", n.u)}, nil
	case KindF64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: fmt.Sprintf("%g", n.f)}, nil
	case KindStr:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.s}, nil
	case KindArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, child := range n.arr {
			cn, err := child.MarshalYAML()
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, cn.(*yaml.Node))
		}
		return seq, nil
	case KindObject:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, key := range n.obj.keys {
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key})
			vn, err := n.obj.values[i].MarshalYAML()
			if err != nil {
				return nil, err
			}
			m.Content = append(m.Content, vn.(*yaml.Node))
		}
		return m, nil
	default:
		return nil, fmt.Errorf("patchtree: unknown kind %v", n.kind)
	}
}

// FromJSON decodes a generic JSON document into a Node tree, preserving
// object key order via json.Decoder's token stream rather than unmarshaling
// into map[string]any (which would lose order).
func FromJSON(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeJSONValue(dec)
	if err != nil {
		return Node{}, fmt.Errorf("patchtree: decode json: %w", err)
	}
	return n, nil
}

func decodeJSONValue(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return Node{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (Node, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		if iv, err := t.Int64(); err == nil {
			return I64(iv), nil
		}
		fv, err := t.Float64()
		if err != nil {
			return Node{}, err
		}
		return F64(fv), nil
	case string:
		return Str(t), nil
	case json.Delim:
		switch t {
		case '[':
			var arr []Node
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return Node{}, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Node{}, err
			}
			return Array(arr), nil
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Node{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Node{}, fmt.Errorf("patchtree: non-string object key %v", keyTok)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return Node{}, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Node{}, err
			}
			return Object(obj), nil
		default:
			return Node{}, fmt.Errorf("patchtree: unexpected delimiter %v", t)
		}
	default:
		return Node{}, fmt.Errorf("patchtree: unexpected token %T", tok)
	}
}
