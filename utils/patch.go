package utils

import (
	"reflect"
	"strconv"
	"strings"
)

// PatchColumns turns a partial-update DTO into a GORM Updates map. Only
// pointer fields that were sent are included, keyed by json name.
//
// columns renames a json name to its column, e.g. {"phone_number": "phone"}.
// Renaming to "" leaves the field out so the caller can convert it itself,
// as product updates do with {"tax_rate": ""}.
func PatchColumns(dto any, columns map[string]string) map[string]any {
	updates := map[string]any{}
	rv := reflect.ValueOf(dto)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return updates
	}
	st := rv.Elem()
	for i := range st.NumField() {
		field := st.Field(i)
		if field.Kind() != reflect.Pointer || field.IsNil() {
			continue
		}
		name, _, _ := strings.Cut(st.Type().Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		if col, ok := columns[name]; ok {
			if col == "" {
				continue
			}
			name = col
		}
		updates[name] = field.Elem().Interface()
	}
	return updates
}

// ParseIntDefault reads a non-negative query integer, else def.
func ParseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
		return v
	}
	return def
}
