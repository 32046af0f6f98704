// Package bulk runs independent operations concurrently and reports how many
// succeeded once all of them have settled.
package bulk

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/simp-lee/posadmin/internal/resource"
)

// DefaultConcurrency bounds in-flight operations when no limit is given.
const DefaultConcurrency = 4

// Summary aggregates the outcome of a bulk run. Errors holds the failure of
// each failed key.
type Summary[K comparable] struct {
	Total     int
	Succeeded int
	Failed    int
	Errors    map[K]error
}

// OK reports whether every operation succeeded.
func (s *Summary[K]) OK() bool {
	return s.Failed == 0
}

// String renders a one-line report, e.g. "3 of 5 succeeded, 2 failed".
func (s *Summary[K]) String() string {
	return fmt.Sprintf("%d of %d succeeded, %d failed", s.Succeeded, s.Total, s.Failed)
}

// FailedKeys returns the failed keys ordered by their string form.
func (s *Summary[K]) FailedKeys() []K {
	keys := make([]K, 0, len(s.Errors))
	for k := range s.Errors {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.Compare(fmt.Sprint(keys[i]), fmt.Sprint(keys[j])) < 0
	})
	return keys
}

// Settle runs op once per key with at most limit in flight and waits for all
// of them. A failing op never stops the others. Keys not yet started when
// ctx is done fail with the context error. Keys should be unique.
func Settle[K comparable](ctx context.Context, keys []K, limit int, op func(context.Context, K) error) *Summary[K] {
	if limit < 1 {
		limit = DefaultConcurrency
	}

	var (
		mu  sync.Mutex
		sum = &Summary[K]{Total: len(keys), Errors: make(map[K]error)}
	)
	record := func(key K, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			sum.Failed++
			sum.Errors[key] = err
			return
		}
		sum.Succeeded++
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for _, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				record(key, err)
				return nil
			}
			record(key, op(ctx, key))
			return nil
		})
	}
	_ = g.Wait()
	return sum
}

// SettleThen runs Settle and calls done exactly once with the summary after
// every operation has settled.
func SettleThen[K comparable](ctx context.Context, keys []K, limit int, op func(context.Context, K) error, done func(*Summary[K])) {
	sum := Settle(ctx, keys, limit, op)
	if done != nil {
		done(sum)
	}
}

// Delete removes every code through repo and hands the summary to done.
// Each failure is logged by the repository.
func Delete[T any](ctx context.Context, repo *resource.Repository[T], codes []string, limit int, done func(*Summary[string])) {
	SettleThen(ctx, codes, limit, func(ctx context.Context, code string) error {
		return repo.Delete(ctx, code).Err
	}, done)
}
