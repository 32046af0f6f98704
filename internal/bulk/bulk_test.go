package bulk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

func TestSettle_CountsSuccessesAndFailures(t *testing.T) {
	for _, tt := range []struct{ n, k int }{{0, 0}, {1, 1}, {1, 0}, {10, 7}, {25, 0}, {25, 25}} {
		t.Run(fmt.Sprintf("n=%d k=%d", tt.n, tt.k), func(t *testing.T) {
			keys := make([]int, tt.n)
			for i := range keys {
				keys[i] = i
			}

			var calls atomic.Int32
			var (
				doneCalls atomic.Int32
				got       *Summary[int]
			)
			SettleThen(context.Background(), keys, 3, func(_ context.Context, key int) error {
				calls.Add(1)
				// Finish in scrambled order.
				time.Sleep(time.Duration((key*7)%5) * time.Millisecond)
				if key < tt.k {
					return nil
				}
				return fmt.Errorf("delete %d failed", key)
			}, func(s *Summary[int]) {
				doneCalls.Add(1)
				if int(calls.Load()) != tt.n {
					t.Errorf("callback fired after %d of %d operations", calls.Load(), tt.n)
				}
				got = s
			})

			if doneCalls.Load() != 1 {
				t.Fatalf("callback fired %d times, want 1", doneCalls.Load())
			}
			if got.Total != tt.n || got.Succeeded != tt.k || got.Failed != tt.n-tt.k {
				t.Fatalf("summary = %+v, want total=%d ok=%d failed=%d", got, tt.n, tt.k, tt.n-tt.k)
			}
			if len(got.Errors) != tt.n-tt.k {
				t.Fatalf("len(Errors) = %d, want %d", len(got.Errors), tt.n-tt.k)
			}
			if got.OK() != (tt.n == tt.k) {
				t.Errorf("OK() = %v", got.OK())
			}
		})
	}
}

func TestSettle_RespectsConcurrencyLimit(t *testing.T) {
	var (
		inFlight, peak atomic.Int32
		mu             sync.Mutex
	)
	keys := make([]string, 20)
	for i := range keys {
		keys[i] = fmt.Sprintf("K%02d", i)
	}

	sum := Settle(context.Background(), keys, 3, func(context.Context, string) error {
		n := inFlight.Add(1)
		mu.Lock()
		if n > peak.Load() {
			peak.Store(n)
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})

	if sum.Succeeded != 20 {
		t.Fatalf("summary = %+v", sum)
	}
	if peak.Load() > 3 {
		t.Fatalf("peak concurrency = %d, want <= 3", peak.Load())
	}
}

func TestSettle_CancelledContextFailsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	sum := Settle(ctx, []string{"a", "b", "c"}, 1, func(context.Context, string) error {
		calls.Add(1)
		return nil
	})
	if calls.Load() != 0 {
		t.Errorf("op ran %d times after cancellation", calls.Load())
	}
	if sum.Failed != 3 || !errors.Is(sum.Errors["b"], context.Canceled) {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestSummary_FailedKeysAndString(t *testing.T) {
	s := &Summary[string]{Total: 4, Succeeded: 2, Failed: 2, Errors: map[string]error{"C2": errors.New("x"), "A1": errors.New("y")}}
	if keys := s.FailedKeys(); len(keys) != 2 || keys[0] != "A1" || keys[1] != "C2" {
		t.Errorf("FailedKeys() = %v", keys)
	}
	if s.String() != "2 of 4 succeeded, 2 failed" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestDelete_AgainstBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		if strings.HasSuffix(r.URL.Path, "/LOCKED") {
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, `{"message":"customer has open orders"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	tc, err := transport.New(transport.Config{BaseURL: srv.URL, Timeout: time.Second}, nil,
		transport.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("transport.New() error = %v", err)
	}
	var logs strings.Builder
	repo := resource.NewRepository(resource.NewClient[domain.Customer](tc, "api/customers"), slog.New(slog.NewTextHandler(&logs, nil)))

	var (
		sum   *Summary[string]
		calls int
	)
	Delete(context.Background(), repo, []string{"C1", "LOCKED", "C3"}, 2, func(s *Summary[string]) {
		calls++
		sum = s
	})
	if calls != 1 {
		t.Fatalf("done called %d times, want 1", calls)
	}
	if sum.Succeeded != 2 || sum.Failed != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if !domain.IsConflict(sum.Errors["LOCKED"]) {
		t.Fatalf("Errors[LOCKED] = %v", sum.Errors["LOCKED"])
	}
	if strings.Count(logs.String(), "api call failed") != 1 {
		t.Errorf("logs = %q, want one failure line", logs.String())
	}
}
