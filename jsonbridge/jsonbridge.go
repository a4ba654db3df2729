// Package jsonbridge is the JSON external collaborator spec §1 and §6
// name but deliberately exclude from "the core": it parses JSON bytes
// into a heap value, and renders any value (heap or buffer) as JSON
// bytes. Parse uses encoding/json directly, since ingest has no
// canonical-order requirement; Render uses
// github.com/gibson042/canonicaljson-go, whose sorted-key, single-form
// number/string output is the textual analogue of this module's
// canonical buffer encoding (spec §4.3, §4.4).
package jsonbridge

import (
	"bytes"
	"encoding/json"
	"fmt"

	canonicaljson "github.com/gibson042/canonicaljson-go"

	dart "github.com/target/libdart-sub002"
)

// Parse decodes JSON bytes into a heap value tagged with flavor F. JSON
// objects become dart objects (whose keys the heap form keeps in
// canonical order as they are inserted), JSON arrays become dart
// arrays, JSON numbers without a fractional part or exponent that fit in
// an int64 become dart integers, all other JSON numbers become dart
// decimals.
func Parse[F dart.Flavor](data []byte) (dart.Heap[F], error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return dart.Heap[F]{}, dart.WrapParseError("parse JSON", err)
	}
	return fromAny[F](raw)
}

func fromAny[F dart.Flavor](v any) (dart.Heap[F], error) {
	switch t := v.(type) {
	case nil:
		return dart.NewNull[F](), nil
	case bool:
		return dart.NewBoolean[F](t), nil
	case string:
		return dart.NewString[F](t), nil
	case json.Number:
		return numberToHeap[F](t)
	case float64:
		return dart.NewDecimal[F](t), nil
	case map[string]any:
		obj := dart.NewObject[F]()
		var err error
		for k, child := range t {
			hv, ferr := fromAny[F](child)
			if ferr != nil {
				return dart.Heap[F]{}, ferr
			}
			obj, err = obj.Insert(k, hv)
			if err != nil {
				return dart.Heap[F]{}, err
			}
		}
		return obj, nil
	case []any:
		arr := dart.NewArray[F]()
		var err error
		for _, child := range t {
			hv, ferr := fromAny[F](child)
			if ferr != nil {
				return dart.Heap[F]{}, ferr
			}
			arr, err = arr.PushBack(hv)
			if err != nil {
				return dart.Heap[F]{}, err
			}
		}
		return arr, nil
	default:
		return dart.Heap[F]{}, dart.WrapParseError("parse JSON", fmt.Errorf("unsupported JSON value type %T", v))
	}
}

func numberToHeap[F dart.Flavor](n json.Number) (dart.Heap[F], error) {
	if i, err := n.Int64(); err == nil {
		return dart.NewInteger[F](i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return dart.Heap[F]{}, dart.WrapParseError("parse JSON number", err)
	}
	return dart.NewDecimal[F](f), nil
}

// RenderHeap renders h as canonical JSON bytes (spec §6 "render any
// value as JSON bytes").
func RenderHeap[F dart.Flavor](h dart.Heap[F]) ([]byte, error) {
	v, err := heapToAny(h)
	if err != nil {
		return nil, err
	}
	out, err := canonicaljson.Marshal(v)
	if err != nil {
		return nil, dart.WrapRuntimeError("render canonical JSON", err)
	}
	return out, nil
}

// RenderBuffer renders b as canonical JSON bytes.
func RenderBuffer[F dart.Flavor](b dart.Buffer[F]) ([]byte, error) {
	return RenderHeap(b.ToHeap())
}

func heapToAny[F dart.Flavor](h dart.Heap[F]) (any, error) {
	switch h.Kind() {
	case dart.Object:
		it, err := h.PairIter()
		if err != nil {
			return nil, err
		}
		out := make(map[string]any)
		for it.Next() {
			k, v, perr := it.Pair()
			if perr != nil {
				return nil, perr
			}
			child, cerr := heapToAny(v)
			if cerr != nil {
				return nil, cerr
			}
			out[k] = child
		}
		return out, nil
	case dart.Array:
		it, err := h.ValueIter()
		if err != nil {
			return nil, err
		}
		out := []any{}
		for it.Next() {
			v, verr := it.Value()
			if verr != nil {
				return nil, verr
			}
			child, cerr := heapToAny(v)
			if cerr != nil {
				return nil, cerr
			}
			out = append(out, child)
		}
		return out, nil
	case dart.String:
		s, _ := h.AsString()
		return s, nil
	case dart.Integer:
		i, _ := h.AsInteger()
		return i, nil
	case dart.Decimal:
		d, _ := h.AsDecimal()
		return d, nil
	case dart.Boolean:
		b, _ := h.AsBoolean()
		return b, nil
	default:
		return nil, nil
	}
}
