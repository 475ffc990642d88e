package profile

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Decode converts the untyped "structured" object of a parse response into a
// Profile. Values of an unexpected kind are treated as absent instead of
// failing the whole record.
func Decode(raw map[string]any) (*Profile, error) {
	if raw == nil {
		return nil, fmt.Errorf("structured profile is missing")
	}

	var p Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: dropMismatched,
		Result:     &p,
	})
	if err != nil {
		return nil, fmt.Errorf("creating profile decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	return &p, nil
}

// dropMismatched replaces values whose kind does not fit the target with the
// target's zero value, or nil for optional (pointer) targets. Numeric strings
// are accepted for numeric targets.
func dropMismatched(from reflect.Type, to reflect.Type, data any) (any, error) {
	target := to
	optional := false
	if target.Kind() == reflect.Ptr {
		target = target.Elem()
		optional = true
	}

	if fits(from.Kind(), target.Kind()) {
		return data, nil
	}

	if isFloat(target.Kind()) && from.Kind() == reflect.String {
		if f, err := strconv.ParseFloat(strings.TrimSpace(data.(string)), 64); err == nil {
			return f, nil
		}
	}

	switch {
	case optional:
		return nil, nil
	case target.Kind() == reflect.Struct:
		return map[string]any{}, nil
	default:
		return reflect.Zero(target).Interface(), nil
	}
}

func fits(from, to reflect.Kind) bool {
	switch {
	case from == to:
		return true
	case to == reflect.Interface:
		return true
	case to == reflect.Struct:
		return from == reflect.Map
	case to == reflect.Slice:
		return from == reflect.Array
	case isFloat(to):
		return isNumber(from)
	default:
		return false
	}
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
