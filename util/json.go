// util/json.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

///////////////////////////////////////////////////////////////////////////
// JSON

// DuplicateJSONKey represents a duplicate key found in JSON.
type DuplicateJSONKey struct {
	Path string // JSON path to the object holding the duplicate (e.g., "surfaces")
	Key  string // The duplicate key name
}

func (d DuplicateJSONKey) String() string {
	if d.Path == "" {
		return d.Key
	}
	return d.Path + "." + d.Key
}

// FindDuplicateJSONKeys scans JSON content and returns all duplicate keys
// found. encoding/json silently keeps the last value for a repeated key,
// which makes a repeated "max_angle_deg" in a surface definition very
// hard to spot otherwise.
func FindDuplicateJSONKeys(data []byte) []DuplicateJSONKey {
	type level struct {
		object    bool
		seen      map[string]bool
		expectKey bool
		ownsPath  bool // the container is the value of a key in its parent
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var stack []level
	var path []string
	var duplicates []DuplicateJSONKey

	// valueDone is called after a complete value has been consumed inside
	// an object; the key that named it is dropped from the path.
	valueDone := func() {
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].expectKey = true
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		}
	}
	open := func(object bool) {
		owns := len(stack) > 0 && stack[len(stack)-1].object
		l := level{object: object, expectKey: object, ownsPath: owns}
		if object {
			l.seen = make(map[string]bool)
		}
		stack = append(stack, l)
	}
	closeLevel := func() {
		if len(stack) == 0 {
			return
		}
		owns := stack[len(stack)-1].ownsPath
		stack = stack[:len(stack)-1]
		if owns {
			valueDone()
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				open(true)
			case '[':
				open(false)
			case '}', ']':
				closeLevel()
			}

		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectKey {
				top := &stack[n-1]
				if top.seen[v] {
					duplicates = append(duplicates, DuplicateJSONKey{Path: strings.Join(path, "."), Key: v})
				}
				top.seen[v] = true
				top.expectKey = false
				path = append(path, v)
			} else {
				valueDone()
			}

		default:
			// Numbers, bools, and null
			valueDone()
		}
	}

	return duplicates
}

// UnmarshalJSONBytes unmarshals the bytes into the given type but goes
// through some efforts to return useful error messages when the JSON is
// invalid...
func UnmarshalJSONBytes[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	decodeOffset := func(offset int64) (line, char int) {
		line, char = 1, 1
		for i := 0; i < int(offset) && i < len(b); i++ {
			if b[i] == '\n' {
				line++
				char = 1
			} else {
				char++
			}
		}
		return
	}

	switch jerr := err.(type) {
	case *json.SyntaxError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %v", line, char, jerr)

	case *json.UnmarshalTypeError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %s value for %s.%s invalid for type %s",
			line, char, jerr.Value, jerr.Struct, jerr.Field, jerr.Type.String())

	default:
		return err
	}
}

// DecodeJSON runs the full set of checks on a JSON document before
// unmarshaling it into a T: duplicate keys and entries that don't
// correspond to fields of T are reported to e, and syntax or type errors
// are returned.
func DecodeJSON[T any](contents []byte, e *ErrorLogger) (T, error) {
	var out T

	for _, dup := range FindDuplicateJSONKeys(contents) {
		e.ErrorString("%q: key repeated; only the last value is used", dup.String())
	}

	CheckJSON[T](contents, e)

	err := UnmarshalJSONBytes(contents, &out)
	return out, err
}

///////////////////////////////////////////////////////////////////////////

// CheckJSON checks whether the provided JSON is syntactically valid and
// then typechecks it with respect to the provided type T.
func CheckJSON[T any](contents []byte, e *ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	var items interface{}
	if err := UnmarshalJSONBytes(contents, &items); err != nil {
		e.Error(err)
		return
	}

	ty := reflect.TypeOf((*T)(nil)).Elem()
	structTypeCache := make(map[reflect.Type]map[string]reflect.Type)
	typeCheckJSON(items, ty, structTypeCache, e)
}

// TypeCheckJSON returns a Boolean indicating whether the provided raw
// unmarshaled JSON values are type-compatible with the given type T.
func TypeCheckJSON[T any](json interface{}) bool {
	var e ErrorLogger
	ty := reflect.TypeOf((*T)(nil)).Elem()
	structTypeCache := make(map[reflect.Type]map[string]reflect.Type)
	typeCheckJSON(json, ty, structTypeCache, &e)
	return !e.HaveErrors()
}

// JSONChecker is an interface that allows types that implement custom JSON
// unmarshalers to check whether raw unmarshaled JSON types are compatible
// with their underlying type.
type JSONChecker interface {
	CheckJSON(json interface{}) bool
}

func typeCheckJSON(json interface{}, ty reflect.Type, structTypeCache map[reflect.Type]map[string]reflect.Type, e *ErrorLogger) {
	for ty.Kind() == reflect.Ptr {
		ty = ty.Elem()
	}

	if json == nil {
		// null is fine for anything.
		return
	}

	// Use the type's JSONChecker, if there is one.
	chty := reflect.TypeOf((*JSONChecker)(nil)).Elem()
	if ty.Implements(chty) || reflect.PointerTo(ty).Implements(chty) {
		checker := reflect.New(ty).Interface().(JSONChecker)
		if !checker.CheckJSON(json) {
			e.ErrorString("unexpected data format provided for object: %s",
				reflect.TypeOf(json))
		}
		return
	}

	switch ty.Kind() {
	case reflect.Array, reflect.Slice:
		if array, ok := json.([]interface{}); ok {
			for _, item := range array {
				typeCheckJSON(item, ty.Elem(), structTypeCache, e)
			}
		} else {
			e.ErrorString("unexpected data format provided for array: %s",
				reflect.TypeOf(json))
		}

	case reflect.Map:
		if m, ok := json.(map[string]interface{}); ok {
			for k, v := range m {
				e.Push(k)
				typeCheckJSON(v, ty.Elem(), structTypeCache, e)
				e.Pop()
			}
		} else {
			e.ErrorString("unexpected data format provided for object: %s",
				reflect.TypeOf(json))
		}

	case reflect.Struct:
		if items, ok := json.(map[string]interface{}); !ok {
			e.ErrorString("unexpected data format provided for object: %s",
				reflect.TypeOf(json))
		} else {
			// For each struct type encountered, structTypeCache holds a
			// map from the JSON name of each struct element to its
			// corresponding reflect.Type to avoid the cost and dynamic
			// memory allocation of repeated calls to
			// reflect.VisibleFields.
			types, ok := structTypeCache[ty]
			if !ok {
				types = make(map[string]reflect.Type)
				for _, field := range reflect.VisibleFields(ty) {
					if jtag, ok := field.Tag.Lookup("json"); ok {
						name, _, _ := strings.Cut(jtag, ",")
						types[name] = field.Type
					}
				}
				structTypeCache[ty] = types
			}

			for item, values := range items {
				if ty, ok := types[item]; ok {
					e.Push(item)
					typeCheckJSON(values, ty, structTypeCache, e)
					e.Pop()
				} else {
					e.ErrorString("The entry %q is not an expected JSON object. Is it misspelled?", item)
				}
			}
		}

	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int32, reflect.Int64:
		if _, ok := json.(float64); !ok {
			e.ErrorString("expected a number, got %s", reflect.TypeOf(json))
		}

	case reflect.Bool:
		if _, ok := json.(bool); !ok {
			e.ErrorString("expected true or false, got %s", reflect.TypeOf(json))
		}

	case reflect.String:
		if _, ok := json.(string); !ok {
			e.ErrorString("expected a string, got %s", reflect.TypeOf(json))
		}
	}
}
