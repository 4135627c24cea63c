package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/oapi-codegen/runtime"
)

// encodeQuery styles params as query values. Scalars and flat lists use
// OpenAPI form/explode (ids=a&ids=b). Objects and lists holding objects are
// flattened into bracketed paths (page[size]=10, sort[0][title]=asc), and an
// empty object or list is kept as a key with an empty value
// (search_fields[title]=). Nil values are skipped.
func encodeQuery(params map[string]any) (url.Values, error) {
	values := url.Values{}
	if len(params) == 0 {
		return values, nil
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if params[key] == nil {
			continue
		}
		v, err := normalize(params[key])
		if err != nil {
			return nil, fmt.Errorf("encode query parameter %q: %w", key, err)
		}

		if isFlat(v) {
			err = addForm(values, key, v)
		} else {
			err = addDeep(values, key, v)
		}
		if err != nil {
			return nil, fmt.Errorf("encode query parameter %q: %w", key, err)
		}
	}
	return values, nil
}

// normalize reduces v to the JSON data model so that structs, typed maps and
// typed slices all flatten the same way. Numbers stay as json.Number.
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// isFlat reports whether v is a scalar or a non-empty list of scalars.
func isFlat(v any) bool {
	switch t := v.(type) {
	case map[string]any, nil:
		return false
	case []any:
		if len(t) == 0 {
			return false
		}
		for _, e := range t {
			if e == nil {
				return false
			}
			switch e.(type) {
			case map[string]any, []any:
				return false
			}
		}
	}
	return true
}

func addForm(values url.Values, key string, v any) error {
	styled, err := runtime.StyleParamWithLocation("form", true, key, runtime.ParamLocationQuery, v)
	if err != nil {
		return err
	}
	parsed, err := url.ParseQuery(styled)
	if err != nil {
		return err
	}
	for k, vs := range parsed {
		for _, s := range vs {
			values.Add(k, s)
		}
	}
	return nil
}

func addDeep(values url.Values, path string, v any) error {
	switch t := v.(type) {
	case nil:
		values.Add(path, "")
	case map[string]any:
		if len(t) == 0 {
			values.Add(path, "")
			return nil
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := addDeep(values, path+"["+k+"]", t[k]); err != nil {
				return err
			}
		}
	case []any:
		if len(t) == 0 {
			values.Add(path, "")
			return nil
		}
		for i, e := range t {
			if err := addDeep(values, path+"["+strconv.Itoa(i)+"]", e); err != nil {
				return err
			}
		}
	default:
		s, err := runtime.StyleParamWithLocation("simple", false, path, runtime.ParamLocationUndefined, t)
		if err != nil {
			return err
		}
		values.Add(path, s)
	}
	return nil
}
