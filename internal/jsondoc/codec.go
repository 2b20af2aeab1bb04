package jsondoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// codec writes two-space indented output and leaves non-ASCII text unescaped.
var codec = jsoniter.Config{
	IndentionStep: 2,
	EscapeHTML:    false,
}.Froze()

// numberLiteral is the JSON number grammar; the iterator alone accepts forms
// such as 01 and 1. that are not valid JSON.
var numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Decode parses a complete JSON document. Anything other than whitespace after
// the top-level value is an error.
func Decode(data []byte) (Value, error) {
	if err := checkSurrogates(data); err != nil {
		return nil, err
	}
	iter := jsoniter.ParseBytes(codec, data)
	v := readValue(iter)
	if failed(iter) {
		return nil, fmt.Errorf("jsondoc: %w", iter.Error)
	}
	if v == nil {
		return nil, errors.New("jsondoc: document is empty")
	}
	if iter.Error == nil {
		if iter.WhatIsNext() != jsoniter.InvalidValue || iter.Error != io.EOF {
			return nil, errors.New("jsondoc: unexpected data after top-level value")
		}
	}
	return v, nil
}

// Encode writes v to w using the package layout: two-space indentation,
// ": " between keys and values, empty containers as [] and {}, and no
// trailing newline.
func Encode(w io.Writer, v Value) error {
	stream := jsoniter.NewStream(codec, w, 4096)
	writeValue(stream, v)
	if stream.Error != nil {
		return fmt.Errorf("jsondoc: encode: %w", stream.Error)
	}
	if err := stream.Flush(); err != nil {
		return fmt.Errorf("jsondoc: flush: %w", err)
	}
	return nil
}

// Marshal encodes v into a new byte slice.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// failed reports a real decode error. The iterator records io.EOF when a
// scalar runs to the end of the input, which is not a failure.
func failed(iter *jsoniter.Iterator) bool {
	return iter.Error != nil && iter.Error != io.EOF
}

func readValue(iter *jsoniter.Iterator) Value {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null{}
	case jsoniter.BoolValue:
		return Bool(iter.ReadBool())
	case jsoniter.NumberValue:
		n := iter.ReadNumber()
		if !numberLiteral.MatchString(string(n)) {
			iter.ReportError("readValue", "invalid number literal "+strconv.Quote(string(n)))
		}
		return Number(n)
	case jsoniter.StringValue:
		return String(iter.ReadString())
	case jsoniter.ArrayValue:
		arr := &Array{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			arr.Items = append(arr.Items, readValue(it))
			return !failed(it)
		})
		return arr
	case jsoniter.ObjectValue:
		obj := NewObject()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			obj.Set(key, readValue(it))
			return !failed(it)
		})
		return obj
	default:
		iter.ReportError("readValue", "expected a JSON value")
		return nil
	}
}

func writeValue(stream *jsoniter.Stream, v Value) {
	switch t := v.(type) {
	case nil, Null:
		stream.WriteNil()
	case Bool:
		stream.WriteBool(bool(t))
	case Number:
		stream.WriteRaw(string(t))
	case String:
		stream.WriteString(string(t))
	case *Array:
		if t.Len() == 0 {
			stream.WriteEmptyArray()
			return
		}
		stream.WriteArrayStart()
		for i, item := range t.Items {
			if i > 0 {
				stream.WriteMore()
			}
			writeValue(stream, item)
		}
		stream.WriteArrayEnd()
	case *Object:
		if t.Len() == 0 {
			stream.WriteEmptyObject()
			return
		}
		stream.WriteObjectStart()
		for i, key := range t.keys {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(key)
			writeValue(stream, t.values[key])
		}
		stream.WriteObjectEnd()
	default:
		stream.Error = fmt.Errorf("unsupported value %T", v)
	}
}

// checkSurrogates rejects \u escapes that name half of a UTF-16 surrogate
// pair without its partner. The iterator would decode them to U+FFFD and the
// record would be rewritten on save.
func checkSurrogates(data []byte) error {
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			continue
		}
		switch c {
		case '"':
			inString = false
		case '\\':
			if i+1 >= len(data) {
				return nil
			}
			if data[i+1] != 'u' {
				i++
				continue
			}
			r, ok := hexEscape(data, i)
			if !ok {
				// malformed escapes are reported by the iterator
				i++
				continue
			}
			switch {
			case r >= 0xDC00 && r <= 0xDFFF:
				return fmt.Errorf("jsondoc: lone surrogate escape at byte %d", i)
			case r >= 0xD800 && r <= 0xDBFF:
				low, ok := hexEscape(data, i+6)
				if !ok || low < 0xDC00 || low > 0xDFFF {
					return fmt.Errorf("jsondoc: lone surrogate escape at byte %d", i)
				}
				i += 11
			default:
				i += 5
			}
		}
	}
	return nil
}

// hexEscape decodes a \uXXXX escape starting at data[i].
func hexEscape(data []byte, i int) (rune, bool) {
	if i+6 > len(data) || data[i] != '\\' || data[i+1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(string(data[i+2:i+6]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
