package accessor

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/jwebster45206/worldsim/pkg/world"
)

// PathError reports a mutation that targeted an unknown field or
// misused append/remove. It is an internal-bug-class error; handlers
// translate it into a generic "inconsistent state" failure message
// and decline the action.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("state path %q: %s", e.Path, e.Reason)
}

type pathOp int

const (
	opSet pathOp = iota
	opAppend
	opRemove
)

// applyPath interprets one StateAccessor.update path/value pair against
// target, which must be a pointer to one of the world entity structs.
// It implements a small path DSL:
//
//	field            top-level attribute
//	field.sub.sub    nested struct or Properties access, creating
//	                 intermediate Properties maps on demand
//	+field[.sub]     append value to the list at that path
//	-field[.sub]     remove value from the list at that path (removing
//	                 a missing value is a hard error)
func applyPath(target interface{}, path string, value interface{}) error {
	op := opSet
	rest := path
	switch {
	case strings.HasPrefix(path, "+"):
		op = opAppend
		rest = path[1:]
	case strings.HasPrefix(path, "-"):
		op = opRemove
		rest = path[1:]
	}
	if rest == "" {
		return &PathError{Path: path, Reason: "empty field path"}
	}
	segments := strings.Split(rest, ".")

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return &PathError{Path: path, Reason: "target is not an addressable struct"}
	}
	v = v.Elem()

	return walk(v, segments, op, value, path)
}

// walk descends through struct fields and Properties maps following
// segments, applying op with value at the final segment.
func walk(v reflect.Value, segments []string, op pathOp, value interface{}, fullPath string) error {
	segment := segments[0]
	last := len(segments) == 1

	// Try a typed struct field first (matched by json tag).
	field, ok := findJSONField(v, segment)
	if ok {
		if last {
			return applyToField(field, op, value, fullPath)
		}
		next, err := descend(field, fullPath)
		if err != nil {
			return err
		}
		return walk(next, segments[1:], op, value, fullPath)
	}

	// Fall back to the Properties bag, if this struct embeds one.
	props, ok := propertiesField(v)
	if !ok {
		return &PathError{Path: fullPath, Reason: fmt.Sprintf("unknown field %q", segment)}
	}
	return walkProperties(props, segments, op, value, fullPath)
}

// descend returns the addressable struct Value one level further in,
// allocating a nil pointer if necessary.
func descend(field reflect.Value, fullPath string) (reflect.Value, error) {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			if !field.CanSet() {
				return reflect.Value{}, &PathError{Path: fullPath, Reason: "cannot allocate nested field"}
			}
			field.Set(reflect.New(field.Type().Elem()))
		}
		return field.Elem(), nil
	}
	if field.Kind() == reflect.Struct {
		return field, nil
	}
	return reflect.Value{}, &PathError{Path: fullPath, Reason: "field is not a nested structure"}
}

// findJSONField finds the struct field (including embedded fields)
// whose `json:"name,..."` tag matches name.
func findJSONField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			if fv, ok := findJSONField(v.Field(i), name); ok {
				return fv, true
			}
			continue
		}
		tag := sf.Tag.Get("json")
		tagName := strings.Split(tag, ",")[0]
		if tagName == "" {
			tagName = sf.Name
		}
		if tagName == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// propertiesField finds an embedded world.Entity's Properties map.
func propertiesField(v reflect.Value) (reflect.Value, bool) {
	f, ok := findJSONField(v, "properties")
	if !ok || f.Type() != reflect.TypeOf(world.Properties(nil)) {
		return reflect.Value{}, false
	}
	return f, true
}

func walkProperties(props reflect.Value, segments []string, op pathOp, value interface{}, fullPath string) error {
	m := props.Interface().(world.Properties)
	if m == nil {
		m = world.Properties{}
		props.Set(reflect.ValueOf(m))
	}

	key := segments[0]
	if len(segments) == 1 {
		return applyToProperties(m, key, op, value, fullPath)
	}

	child, ok := m[key]
	var childMap world.Properties
	if ok {
		childMap, ok = child.Map()
	}
	if !ok {
		childMap = world.Properties{}
		m[key] = world.NewMap(childMap)
	}
	return walkPropertiesMap(childMap, segments[1:], op, value, fullPath)
}

// walkPropertiesMap is walkProperties for a map we already hold (not a
// reflect.Value), used once we're purely inside the Properties tree.
func walkPropertiesMap(m world.Properties, segments []string, op pathOp, value interface{}, fullPath string) error {
	key := segments[0]
	if len(segments) == 1 {
		return applyToProperties(m, key, op, value, fullPath)
	}
	child, ok := m[key]
	var childMap world.Properties
	if ok {
		childMap, ok = child.Map()
	}
	if !ok {
		childMap = world.Properties{}
		m[key] = world.NewMap(childMap)
	}
	return walkPropertiesMap(childMap, segments[1:], op, value, fullPath)
}

func applyToProperties(m world.Properties, key string, op pathOp, value interface{}, fullPath string) error {
	switch op {
	case opSet:
		m[key] = toPropertyValue(value)
		return nil
	case opAppend, opRemove:
		existing, ok := m[key]
		var list []string
		if ok {
			list, ok = existing.List()
		}
		if !ok {
			if op == opRemove {
				return &PathError{Path: fullPath, Reason: "cannot remove from a non-list property"}
			}
			list = nil
		}
		s, ok := asString(value)
		if !ok {
			return &PathError{Path: fullPath, Reason: "append/remove value must be a string"}
		}
		if op == opAppend {
			list = append(list, s)
			m[key] = world.NewList(list)
			return nil
		}
		idx := indexOf(list, s)
		if idx < 0 {
			return &PathError{Path: fullPath, Reason: fmt.Sprintf("value %q not present in list", s)}
		}
		list = append(list[:idx], list[idx+1:]...)
		m[key] = world.NewList(list)
		return nil
	}
	return &PathError{Path: fullPath, Reason: "unknown operation"}
}

func applyToField(field reflect.Value, op pathOp, value interface{}, fullPath string) error {
	if !field.CanSet() {
		return &PathError{Path: fullPath, Reason: "field is not settable"}
	}
	switch op {
	case opSet:
		return setField(field, value, fullPath)
	case opAppend:
		if field.Kind() != reflect.Slice {
			return &PathError{Path: fullPath, Reason: "append target is not a list"}
		}
		elem := reflect.New(field.Type().Elem()).Elem()
		if err := setField(elem, value, fullPath); err != nil {
			return err
		}
		field.Set(reflect.Append(field, elem))
		return nil
	case opRemove:
		if field.Kind() != reflect.Slice {
			return &PathError{Path: fullPath, Reason: "remove target is not a list"}
		}
		elem := reflect.New(field.Type().Elem()).Elem()
		if err := setField(elem, value, fullPath); err != nil {
			return err
		}
		idx := -1
		for i := 0; i < field.Len(); i++ {
			if reflect.DeepEqual(field.Index(i).Interface(), elem.Interface()) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return &PathError{Path: fullPath, Reason: "value not present in list"}
		}
		field.Set(reflect.AppendSlice(field.Slice(0, idx), field.Slice(idx+1, field.Len())))
		return nil
	}
	return &PathError{Path: fullPath, Reason: "unknown operation"}
}

func setField(field reflect.Value, value interface{}, fullPath string) error {
	rv := reflect.ValueOf(value)
	ft := field.Type()

	if !rv.IsValid() {
		field.Set(reflect.Zero(ft))
		return nil
	}

	if rv.Type().ConvertibleTo(ft) && (rv.Kind() == ft.Kind() || rv.Kind() == reflect.String) {
		field.Set(rv.Convert(ft))
		return nil
	}

	// Numeric widening (e.g. int literal into a float64 field).
	switch ft.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, ok := asInt(value); ok {
			field.SetInt(int64(n))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if n, ok := asFloat(value); ok {
			field.SetFloat(n)
			return nil
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
			return nil
		}
	case reflect.String:
		if s, ok := asString(value); ok {
			field.SetString(s)
			return nil
		}
	case reflect.Ptr:
		if rv.Kind() == reflect.Ptr && rv.Type().AssignableTo(ft) {
			field.Set(rv)
			return nil
		}
	case reflect.Struct:
		if rv.Type().AssignableTo(ft) {
			field.Set(rv)
			return nil
		}
	}

	return &PathError{Path: fullPath, Reason: fmt.Sprintf("cannot assign %T to field of type %s", value, ft)}
}

func asString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.String {
			return rv.String(), true
		}
	}
	return "", false
}

func asInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	}
	return 0, false
}

func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}

func toPropertyValue(v interface{}) world.Value {
	switch t := v.(type) {
	case world.Value:
		return t
	case bool:
		return world.NewBool(t)
	case int:
		return world.NewInt(t)
	case float64:
		return world.NewFloat(t)
	case string:
		return world.NewString(t)
	case []string:
		return world.NewList(t)
	default:
		if s, ok := asString(v); ok {
			return world.NewString(s)
		}
		return world.NewNil()
	}
}

func indexOf(list []string, s string) int {
	for i, e := range list {
		if e == s {
			return i
		}
	}
	return -1
}
