package stubserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/posadmin/internal/domain"
)

// Collection is an in-memory table of T keyed by one JSON field. Rows keep
// insertion order.
type Collection[T any] struct {
	mu       sync.RWMutex
	keyField string
	autoKey  bool
	next     int64
	rows     map[string]T
	order    []string
}

// NewCollection returns a table keyed by the string field keyField.
func NewCollection[T any](keyField string) *Collection[T] {
	return &Collection[T]{keyField: keyField, rows: make(map[string]T)}
}

// NewAutoCollection returns a table keyed by the numeric field keyField. A
// row created with a zero key receives the next free number.
func NewAutoCollection[T any](keyField string) *Collection[T] {
	c := NewCollection[T](keyField)
	c.autoKey = true
	return c
}

// KeyField returns the JSON name of the key.
func (c *Collection[T]) KeyField() string {
	return c.keyField
}

// Len returns the number of rows.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// List returns the rows matching filter, stably sorted on sortField when it
// is set.
func (c *Collection[T]) List(filter map[string]any, sortField string, desc bool) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type entry struct {
		value  T
		fields map[string]any
	}
	matched := make([]entry, 0, len(c.order))
	for _, k := range c.order {
		v := c.rows[k]
		fields, err := toFields(v)
		if err != nil {
			return nil, err
		}
		if matches(fields, filter) {
			matched = append(matched, entry{value: v, fields: fields})
		}
	}

	if sortField != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareValues(matched[i].fields[sortField], matched[j].fields[sortField])
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	out := make([]T, len(matched))
	for i, e := range matched {
		out[i] = e.value
	}
	return out, nil
}

// Get returns the row stored under key.
func (c *Collection[T]) Get(key string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.rows[key]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return v, nil
}

// Create stores v. The key must be free; auto-keyed tables assign one when
// v carries none.
func (c *Collection[T]) Create(v T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields, err := toFields(v)
	if err != nil {
		return v, err
	}
	key := keyString(fields[c.keyField])
	if c.autoKey && (key == "" || key == "0") {
		c.next++
		key = strconv.FormatInt(c.next, 10)
		fields[c.keyField] = json.Number(key)
		if v, err = fromFields[T](fields); err != nil {
			return v, err
		}
	}
	if key == "" {
		return v, domain.NewAppError(domain.CodeValidation, c.keyField+" is required", nil)
	}
	if _, exists := c.rows[key]; exists {
		return v, domain.NewAppError(domain.CodeConflict, fmt.Sprintf("%s %q already exists", c.keyField, key), nil)
	}
	if c.autoKey {
		if n, err := strconv.ParseInt(key, 10, 64); err == nil && n > c.next {
			c.next = n
		}
	}

	c.rows[key] = v
	c.order = append(c.order, key)
	return v, nil
}

// Replace overwrites the row stored under key. The key field of v is forced
// to key.
func (c *Collection[T]) Replace(key string, v T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rows[key]; !ok {
		return v, domain.ErrNotFound
	}
	fields, err := toFields(v)
	if err != nil {
		return v, err
	}
	if c.autoKey {
		fields[c.keyField] = json.Number(key)
	} else {
		fields[c.keyField] = key
	}
	if v, err = fromFields[T](fields); err != nil {
		return v, err
	}
	c.rows[key] = v
	return v, nil
}

// Delete removes the row stored under key.
func (c *Collection[T]) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rows[key]; !ok {
		return domain.ErrNotFound
	}
	delete(c.rows, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func toFields(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	fields := make(map[string]any)
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return fields, nil
}

func fromFields[T any](fields map[string]any) (T, error) {
	var v T
	data, err := json.Marshal(fields)
	if err != nil {
		return v, fmt.Errorf("encode row: %w", err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode row: %w", err)
	}
	return v, nil
}

func keyString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// matches applies exact-match filters. A "minX"/"maxX" key whose X names a
// field is an inclusive numeric bound on that field. Keys naming no field
// are ignored.
func matches(fields map[string]any, filter map[string]any) bool {
	for key, want := range filter {
		wantStr := fmt.Sprint(want)
		if got, ok := fields[key]; ok {
			if !equalValues(got, wantStr) {
				return false
			}
			continue
		}
		bound, field, ok := rangeKey(key)
		if !ok {
			continue
		}
		got, exists := fields[field]
		if !exists {
			continue
		}
		gv, err1 := decimal.NewFromString(fmt.Sprint(got))
		wv, err2 := decimal.NewFromString(wantStr)
		if err1 != nil || err2 != nil {
			return false
		}
		if bound == "min" && gv.LessThan(wv) {
			return false
		}
		if bound == "max" && gv.GreaterThan(wv) {
			return false
		}
	}
	return true
}

func rangeKey(key string) (bound, field string, ok bool) {
	if len(key) < 4 {
		return "", "", false
	}
	bound = key[:3]
	if bound != "min" && bound != "max" {
		return "", "", false
	}
	rest := key[3:]
	return bound, strings.ToLower(rest[:1]) + rest[1:], true
}

func equalValues(got any, want string) bool {
	s := fmt.Sprint(got)
	if s == want {
		return true
	}
	gv, err1 := decimal.NewFromString(s)
	wv, err2 := decimal.NewFromString(want)
	return err1 == nil && err2 == nil && gv.Equal(wv)
}

// compareValues orders numbers numerically and everything else as text.
// Missing values sort first.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	av, err1 := decimal.NewFromString(as)
	bv, err2 := decimal.NewFromString(bs)
	if err1 == nil && err2 == nil {
		return av.Cmp(bv)
	}
	return strings.Compare(as, bs)
}
