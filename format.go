package msgbundle

import (
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// Formatter renders a raw template with positional arguments.
type Formatter interface {
	Format(template string, args ...any) (string, error)
}

// FormatterFunc adapts a bare function to the Formatter interface.
type FormatterFunc func(template string, args ...any) (string, error)

// Format implements Formatter for FormatterFunc
func (fn FormatterFunc) Format(template string, args ...any) (string, error) {
	return fn(template, args...)
}

// PrintfFormatter is the formatter bundles use unless told otherwise.
var PrintfFormatter Formatter = FormatterFunc(Sprintf)

// Sprintf formats like fmt.Sprintf but fails with a *FormatError when the
// verbs of template and args disagree, instead of embedding "%!" markers in
// the output. Arguments implementing fmt.Formatter are accepted for any verb.
func Sprintf(template string, args ...any) (string, error) {
	if err := checkVerbs(template, args); err != nil {
		return "", err
	}
	return fmt.Sprintf(template, args...), nil
}

const printfFlags = "+-# 0"

type verbScanner struct {
	template  string
	args      []any
	pos       int
	argNum    int
	reordered bool
	used      []bool
}

func checkVerbs(template string, args []any) error {
	s := &verbScanner{template: template, args: args, used: make([]bool, len(args))}
	return s.run()
}

func (s *verbScanner) fail(reason string, a ...any) error {
	return &FormatError{Template: s.template, Reason: fmt.Sprintf(reason, a...)}
}

func (s *verbScanner) run() error {
	end := len(s.template)
	for s.pos < end {
		if s.template[s.pos] != '%' {
			s.pos++
			continue
		}
		s.pos++

		for s.pos < end && containsByte(printfFlags, s.template[s.pos]) {
			s.pos++
		}

		if err := s.argIndex(); err != nil {
			return err
		}
		if err := s.number("width"); err != nil {
			return err
		}
		if s.pos < end && s.template[s.pos] == '.' {
			s.pos++
			if err := s.argIndex(); err != nil {
				return err
			}
			if err := s.number("precision"); err != nil {
				return err
			}
		}
		if err := s.argIndex(); err != nil {
			return err
		}

		if s.pos >= end {
			return s.fail("incomplete verb at end of template")
		}

		verb, size := utf8.DecodeRuneInString(s.template[s.pos:])
		s.pos += size

		if verb == '%' {
			continue
		}
		if err := s.consume(verb); err != nil {
			return err
		}
	}

	if !s.reordered {
		for i, used := range s.used {
			if !used {
				return s.fail("too many arguments: %d expected, %d given", i, len(s.args))
			}
		}
	}
	return nil
}

// argIndex parses an explicit "[n]" argument index.
func (s *verbScanner) argIndex() error {
	if s.pos >= len(s.template) || s.template[s.pos] != '[' {
		return nil
	}
	s.reordered = true
	closing := s.pos + 1
	for closing < len(s.template) && s.template[closing] != ']' {
		closing++
	}
	if closing >= len(s.template) {
		return s.fail("unterminated argument index")
	}
	n, err := strconv.Atoi(s.template[s.pos+1 : closing])
	if err != nil || n < 1 || n > len(s.args) {
		return s.fail("bad argument index %q", s.template[s.pos:closing+1])
	}
	s.argNum = n - 1
	s.pos = closing + 1
	return nil
}

// number parses a width or precision, either digits or '*'.
func (s *verbScanner) number(what string) error {
	if s.pos < len(s.template) && s.template[s.pos] == '*' {
		s.pos++
		arg, err := s.next(what)
		if err != nil {
			return err
		}
		if !isIntegerKind(reflect.TypeOf(arg)) {
			return s.fail("%s argument must be an integer, got %T", what, arg)
		}
		return nil
	}
	for s.pos < len(s.template) && s.template[s.pos] >= '0' && s.template[s.pos] <= '9' {
		s.pos++
	}
	return nil
}

func (s *verbScanner) next(what string) (any, error) {
	if s.argNum >= len(s.args) {
		return nil, s.fail("missing argument for %s at position %d", what, s.argNum+1)
	}
	arg := s.args[s.argNum]
	s.used[s.argNum] = true
	s.argNum++
	return arg, nil
}

func (s *verbScanner) consume(verb rune) error {
	arg, err := s.next("%" + string(verb))
	if err != nil {
		return err
	}
	if !verbAccepts(verb, arg) {
		if arg == nil {
			return s.fail("%%%c cannot format nil at position %d", verb, s.argNum)
		}
		return s.fail("%%%c cannot format %T at position %d", verb, arg, s.argNum)
	}
	return nil
}

var (
	formatterType = reflect.TypeFor[fmt.Formatter]()
	stringerType  = reflect.TypeFor[fmt.Stringer]()
	errorType     = reflect.TypeFor[error]()
)

// maxValueDepth bounds the walk into nested composite values.
const maxValueDepth = 8

func verbAccepts(verb rune, arg any) bool {
	switch verb {
	case 'v', 'T':
		return true
	}
	if arg == nil {
		return false
	}
	value := reflect.ValueOf(arg)
	if verb == 'p' {
		switch value.Kind() {
		case reflect.Pointer, reflect.Chan, reflect.Func, reflect.Map, reflect.Slice, reflect.UnsafePointer:
			return true
		}
		return false
	}
	return valueAccepts(verb, value, 0)
}

func isKnownVerb(verb rune) bool {
	return verb < utf8.RuneSelf && containsByte("tbcdoOqxXUeEfFgGsp", byte(verb))
}

func isStringVerb(verb rune) bool {
	return verb == 's' || verb == 'q' || verb == 'x' || verb == 'X'
}

// valueAccepts mirrors how fmt walks a value: methods first, then composite
// kinds element by element. Pointers are only followed at the top level and
// only when non-nil; everything else pointer-shaped prints as an address.
func valueAccepts(verb rune, v reflect.Value, depth int) bool {
	if depth > maxValueDepth {
		return true
	}
	if !v.IsValid() {
		return depth == 0
	}
	if v.CanInterface() {
		t := v.Type()
		if t.Implements(formatterType) {
			return true
		}
		if isStringVerb(verb) && (t.Implements(stringerType) || t.Implements(errorType)) {
			return true
		}
	}
	if !isKnownVerb(verb) {
		return false
	}

	t := v.Type()
	if isStringVerb(verb) && isByteSlice(t) {
		return true
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !valueAccepts(verb, v.Index(i), depth+1) {
				return false
			}
		}
		return true
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if !valueAccepts(verb, iter.Key(), depth+1) || !valueAccepts(verb, iter.Value(), depth+1) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !valueAccepts(verb, v.Field(i), depth+1) {
				return false
			}
		}
		return true
	case reflect.Interface:
		if v.IsNil() {
			// fmt prints <nil> for any verb
			return true
		}
		return valueAccepts(verb, v.Elem(), depth+1)
	case reflect.Pointer:
		if depth == 0 && !v.IsNil() {
			switch t.Elem().Kind() {
			case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map:
				return valueAccepts(verb, v.Elem(), depth+1)
			}
		}
		return containsByte("bdoxX", byte(verb))
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return containsByte("bdoxX", byte(verb))
	}

	kind := t.Kind()
	switch verb {
	case 't':
		return kind == reflect.Bool
	case 'c', 'U', 'd', 'o', 'O':
		return isIntegerKind(t)
	case 'b':
		return isIntegerKind(t) || isFloatKind(t)
	case 'x', 'X':
		return isIntegerKind(t) || isFloatKind(t) || kind == reflect.String
	case 'q':
		return isIntegerKind(t) || kind == reflect.String
	case 'e', 'E', 'f', 'F', 'g', 'G':
		return isFloatKind(t)
	case 's':
		return kind == reflect.String
	}
	return false
}

func isIntegerKind(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloatKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

func isByteSlice(t reflect.Type) bool {
	return (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() == reflect.Uint8
}

func containsByte(set string, c byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}
