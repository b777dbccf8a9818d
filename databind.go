package overlay

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Resolve walks data along a dotted path and returns the value found, or nil
// when any segment is missing. It never panics on malformed data.
//
// Supported containers are string-keyed maps, slices and arrays (numeric
// segments), and structs (exported field name or json tag). Pointers and
// interfaces are followed.
func Resolve(data any, path string) any {
	if path == "" || data == nil {
		return nil
	}
	cur := reflect.ValueOf(data)
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return nil
		}
		cur = indirect(cur)
		if !cur.IsValid() {
			return nil
		}
		switch cur.Kind() {
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil
			}
			cur = cur.MapIndex(reflect.ValueOf(seg).Convert(cur.Type().Key()))
		case reflect.Slice, reflect.Array:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= cur.Len() {
				return nil
			}
			cur = cur.Index(i)
		case reflect.Struct:
			cur = structField(cur, seg)
		default:
			return nil
		}
		if !cur.IsValid() {
			return nil
		}
	}
	cur = indirect(cur)
	if !cur.IsValid() || !cur.CanInterface() {
		return nil
	}
	return cur.Interface()
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func structField(v reflect.Value, name string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == name || (tag == "" && f.Name == name) {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}

// ResolveBool resolves path and reports the value only when it is a strict
// boolean. Any other result (missing, string, number) reports ok=false so the
// caller treats it as "no constraint".
func ResolveBool(data any, path string) (value, ok bool) {
	b, ok := Resolve(data, path).(bool)
	return b, ok
}

// ResolveInt resolves path to an integer. Floats are truncated; numeric
// strings are parsed. Anything else yields fallback.
func ResolveInt(data any, path string, fallback int) int {
	switch v := Resolve(data, path).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

// ResolveText formats the value at path for display. A missing value yields
// fallback. When format is non-empty, every "{}" in it is replaced with the
// value.
func ResolveText(data any, path, format, fallback string) string {
	v := Resolve(data, path)
	if v == nil {
		return fallback
	}
	s := formatValue(v)
	if format == "" {
		return s
	}
	return strings.ReplaceAll(format, "{}", s)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}

// JoinPath joins non-empty dotted path segments.
func JoinPath(segs ...string) string {
	var parts []string
	for _, s := range segs {
		s = strings.Trim(s, ".")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}

// SlotPath returns the absolute path of rel inside slot i of a slot list:
// prefix.side.slot<i>.rel.
func SlotPath(prefix, side string, i int, rel string) string {
	return JoinPath(prefix, side, "slot"+strconv.Itoa(i), rel)
}
