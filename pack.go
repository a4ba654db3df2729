package dart

// Pack builds a value from a compact format string and a matched
// sequence of arguments, ported from the original's
// `include/dart/common.h`/`src/helpers.h` grammar (spec §6 "format
// mini-language", §9 supplemented feature). Each letter consumes exactly
// one value-producing character of the format string and a fixed arity
// of the following args; inside an object or array, values are read
// back-to-back with no separator between them — a comma is not a
// separator but an explicit "stop consuming here" signal that hands
// control back to the enclosing scope once its own value is parsed, for
// formats where a nested aggregate does not run to the end of the
// string (spec glossary "format mini-language").
//
//	o        open an object: reads (string key, value) pairs, back to
//	         back, until a comma or the format string ends
//	a        open an array: reads values, back to back, until a comma or
//	         the format string ends
//	s        a short string (one string arg)
//	S        a long string (one string arg; same Go representation as s,
//	         kept distinct only because the original format grammar
//	         distinguishes short/long string literals at the C++ call
//	         site)
//	i        a 32-bit integer (one int32-range arg)
//	l        a 64-bit integer (one int64 arg)
//	d        a decimal (one float64 arg)
//	b        a boolean (one bool arg)
//	n or ' ' a null (no arg)
//	,        ends the enclosing object/array early; consumed, not itself
//	         a value
//
// Unlike the C original, there is no variadic argument promotion or
// unsafe casting: each letter's argument is type-asserted from args, and
// a mismatch is reported as a type error rather than silently
// misreading memory (spec §9 "C-style variadic constructor").
func Pack[F Flavor](format string, args ...any) (Heap[F], error) {
	p := &packer[F]{format: format, args: args}
	v, err := p.parseVal()
	if err != nil {
		return Heap[F]{}, err
	}
	if p.fi != len(p.format) {
		return Heap[F]{}, newLogicError("pack: trailing characters in format string %q", format)
	}
	if p.ai != len(p.args) {
		return Heap[F]{}, newLogicError("pack: %d unused argument(s) for format %q", len(p.args)-p.ai, format)
	}
	return v, nil
}

type packer[F Flavor] struct {
	format string
	args   []any
	fi     int
	ai     int
}

func (p *packer[F]) nextArg() (any, error) {
	if p.ai >= len(p.args) {
		return nil, newLogicError("pack: format %q expects more arguments than were given", p.format)
	}
	v := p.args[p.ai]
	p.ai++
	return v, nil
}

// atScopeEnd reports whether the current position ends an enclosing
// object/array scope: either the format string is exhausted, or the next
// character is the explicit scope-terminating comma.
func (p *packer[F]) atScopeEnd() bool {
	return p.fi >= len(p.format) || p.format[p.fi] == ','
}

// parseVal consumes exactly one value-producing character and recurses
// into objects/arrays.
func (p *packer[F]) parseVal() (Heap[F], error) {
	if p.fi >= len(p.format) {
		return Heap[F]{}, newLogicError("pack: format string ended mid-value")
	}
	c := p.format[p.fi]
	p.fi++
	switch c {
	case 'o':
		return p.parsePairs()
	case 'a':
		return p.parseVals()
	case 's', 'S':
		arg, err := p.nextArg()
		if err != nil {
			return Heap[F]{}, err
		}
		s, ok := arg.(string)
		if !ok {
			return Heap[F]{}, newTypeError("pack: %q expects a string argument, got %T", c, arg)
		}
		return NewString[F](s), nil
	case 'i':
		arg, err := p.nextArg()
		if err != nil {
			return Heap[F]{}, err
		}
		v, ok := toInt64(arg)
		if !ok {
			return Heap[F]{}, newTypeError("pack: 'i' expects an integer argument, got %T", arg)
		}
		return NewInteger[F](v), nil
	case 'l':
		arg, err := p.nextArg()
		if err != nil {
			return Heap[F]{}, err
		}
		v, ok := toInt64(arg)
		if !ok {
			return Heap[F]{}, newTypeError("pack: 'l' expects an integer argument, got %T", arg)
		}
		return NewInteger[F](v), nil
	case 'd':
		arg, err := p.nextArg()
		if err != nil {
			return Heap[F]{}, err
		}
		v, ok := toFloat64(arg)
		if !ok {
			return Heap[F]{}, newTypeError("pack: 'd' expects a decimal argument, got %T", arg)
		}
		return NewDecimal[F](v), nil
	case 'b':
		arg, err := p.nextArg()
		if err != nil {
			return Heap[F]{}, err
		}
		v, ok := arg.(bool)
		if !ok {
			return Heap[F]{}, newTypeError("pack: 'b' expects a bool argument, got %T", arg)
		}
		return NewBoolean[F](v), nil
	case 'n', ' ':
		return NewNull[F](), nil
	default:
		return Heap[F]{}, newLogicError("pack: unrecognized format character %q", c)
	}
}

// parsePairs reads (string key, value) pairs back to back until the
// enclosing scope ends, then swallows the terminating comma if any
// (spec: object form of the mini-language).
func (p *packer[F]) parsePairs() (Heap[F], error) {
	obj := NewObject[F]()
	for !p.atScopeEnd() {
		keyArg, err := p.nextArg()
		if err != nil {
			return Heap[F]{}, err
		}
		key, ok := keyArg.(string)
		if !ok {
			return Heap[F]{}, newTypeError("pack: object key must be a string, got %T", keyArg)
		}
		val, err := p.parseVal()
		if err != nil {
			return Heap[F]{}, err
		}
		obj, err = obj.Insert(key, val)
		if err != nil {
			return Heap[F]{}, err
		}
	}
	if p.fi < len(p.format) && p.format[p.fi] == ',' {
		p.fi++
	}
	return obj, nil
}

// parseVals reads values back to back until the enclosing scope ends,
// then swallows the terminating comma if any (spec: array form of the
// mini-language).
func (p *packer[F]) parseVals() (Heap[F], error) {
	arr := NewArray[F]()
	for !p.atScopeEnd() {
		val, err := p.parseVal()
		if err != nil {
			return Heap[F]{}, err
		}
		arr, err = arr.PushBack(val)
		if err != nil {
			return Heap[F]{}, err
		}
	}
	if p.fi < len(p.format) && p.format[p.fi] == ',' {
		p.fi++
	}
	return arr, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
