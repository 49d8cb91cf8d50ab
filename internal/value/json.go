package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Decode parses a JSON document into a Value, preserving map key order.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Null(), err
	}
	// Reject trailing content after the document.
	if dec.More() {
		return Null(), fmt.Errorf("unexpected trailing content after JSON document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Null(), fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var items []Value
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return Null(), err
			}
			return List(items...), nil
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Null(), fmt.Errorf("object key is not a string: %v", keyTok)
				}
				item, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				m.Set(key, item)
			}
			if _, err := dec.Token(); err != nil { // closing }
				return Null(), err
			}
			return MapValue(m), nil
		default:
			return Null(), fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return Null(), fmt.Errorf("unexpected token %v", tok)
	}
}

// MarshalJSON serializes the value, emitting map keys in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON parses raw JSON into the value, preserving map key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if v.n == float64(int64(v.n)) {
			buf.WriteString(strconv.FormatInt(int64(v.n), 10))
		} else {
			buf.WriteString(strconv.FormatFloat(v.n, 'g', -1, 64))
		}
	case KindString:
		enc, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(enc)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.l {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range v.m.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			enc, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(enc)
			buf.WriteByte(':')
			item, _ := v.m.Get(k)
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", v.kind)
	}
	return nil
}
