package datastore

import (
	"reflect"
	"strings"
	"time"
	"unicode"
)

// RecordOptions configures ToRecord.
type RecordOptions struct {
	OmitFields   map[string]bool
	KeyOverrides map[string]string
	// SliceSeparator joins string slices into one column. Empty keeps
	// slices as they are.
	SliceSeparator string
}

// ToRecord converts a struct into a row keyed by snake_case field names,
// ready for BatchInsert.
func ToRecord[T any](value T, opts RecordOptions) map[string]any {
	result := make(map[string]any)
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return result
		}
		v = v.Elem()
	}

	appendStructFields(v, result, opts)
	return result
}

// ToRecords converts every element of values.
func ToRecords[T any](values []T, opts RecordOptions) []map[string]any {
	out := make([]map[string]any, 0, len(values))
	for _, v := range values {
		out = append(out, ToRecord(v, opts))
	}
	return out
}

func appendStructFields(v reflect.Value, result map[string]any, opts RecordOptions) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" || opts.OmitFields[field.Name] {
			continue
		}

		value := v.Field(i)
		if field.Anonymous && value.Kind() == reflect.Struct {
			appendStructFields(value, result, opts)
			continue
		}

		key := toSnakeCase(field.Name)
		if override, ok := opts.KeyOverrides[field.Name]; ok {
			key = override
		}
		result[key] = normalizeValue(value, opts)
	}
}

func normalizeValue(value reflect.Value, opts RecordOptions) any {
	if !value.IsValid() {
		return nil
	}
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}

	if value.Type() == reflect.TypeOf(time.Time{}) {
		return value.Interface().(time.Time).UTC().Format(time.RFC3339)
	}

	if opts.SliceSeparator != "" && value.Kind() == reflect.Slice && value.Type().Elem().Kind() == reflect.String {
		items := make([]string, value.Len())
		for i := 0; i < value.Len(); i++ {
			items[i] = value.Index(i).String()
		}
		return strings.Join(items, opts.SliceSeparator)
	}

	return value.Interface()
}

// toSnakeCase keeps acronyms together: ImageURL becomes image_url.
func toSnakeCase(input string) string {
	runes := []rune(input)
	var builder strings.Builder
	builder.Grow(len(runes) + 4)

	for i, r := range runes {
		if !unicode.IsUpper(r) {
			builder.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			var next, nextNext rune
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			if i+2 < len(runes) {
				nextNext = runes[i+2]
			}
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				builder.WriteRune('_')
			case unicode.IsUpper(prev) && next != 0 && unicode.IsLower(next) && (nextNext == 0 || !unicode.IsUpper(nextNext)):
				builder.WriteRune('_')
			}
		}
		builder.WriteRune(unicode.ToLower(r))
	}

	return builder.String()
}
