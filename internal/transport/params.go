package transport

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"
)

// Params are the query parameters of a request. Nil values, nil pointers and
// empty strings are omitted. Slices and arrays expand to one entry per
// element under the same key.
type Params map[string]any

// Values converts p to url.Values.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for key, val := range p {
		addParam(v, key, val)
	}
	return v
}

// Encode returns p in URL-encoded form sorted by key.
func (p Params) Encode() string {
	return p.Values().Encode()
}

func addParam(v url.Values, key string, val any) {
	if val == nil {
		return
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return
		}
		addParam(v, key, rv.Elem().Interface())
		return
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return
		}
		for i := range rv.Len() {
			addParam(v, key, rv.Index(i).Interface())
		}
		return
	}

	if s := formatParam(val); s != "" {
		v.Add(key, s)
	}
}

func formatParam(val any) string {
	switch t := val.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(val)
	}
}
