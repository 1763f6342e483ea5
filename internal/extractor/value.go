// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Value is an algorithm result: one or more output values already formatted
// as text. Positional values map onto the configured output fields in
// order; named values are matched by field name.
type Value struct {
	positional []string
	named      map[string]string
}

// Text returns a single-field Value holding s verbatim. This is the
// constructor to use when a specific textual form (precision included)
// must be preserved.
func Text(s string) Value {
	return Value{positional: []string{s}}
}

// Float returns a single-field Value formatted with prec digits after the
// decimal point.
func Float(v float64, prec int) Value {
	return Text(strconv.FormatFloat(v, 'f', prec, 64))
}

// Int returns a single-field Value holding v.
func Int(v int64) Value {
	return Text(strconv.FormatInt(v, 10))
}

// List returns a positional Value; items map onto the configured output
// fields in order.
func List(items ...string) Value {
	return Value{positional: items}
}

// Named returns a Value whose entries are matched to output fields by name.
// Entries for unconfigured fields are dropped.
func Named(fields map[string]string) Value {
	return Value{named: fields}
}

// JSON returns a single-field Value holding the JSON encoding of v, for
// algorithms whose result is a structured document.
func JSON(v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("encoding result as JSON: %w", err)
	}
	return Text(string(data)), nil
}

// Strings returns the Value's entries without resolving them against
// configured field names: positional values in order, named values in
// sorted key order. Test runs use this to print whatever an algorithm
// returned.
func (v Value) Strings() []string {
	if v.named == nil {
		return append([]string{}, v.positional...)
	}
	keys := make([]string, 0, len(v.named))
	for key := range v.named {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = v.named[key]
	}
	return out
}

// Expand resolves the Value against the configured output field names,
// returning one text value per field in field order. A positional Value
// with the wrong count, or a named Value missing a configured field, is an
// error naming the expected and received counts.
func (v Value) Expand(fieldNames []string) ([]string, error) {
	var out []string
	if v.named != nil {
		for _, name := range fieldNames {
			if val, ok := v.named[name]; ok {
				out = append(out, val)
			}
		}
	} else {
		out = v.positional
	}

	if len(out) != len(fieldNames) {
		return nil, fmt.Errorf("incorrect number of values returned: expected %d and received %d",
			len(fieldNames), len(out))
	}
	return out, nil
}
