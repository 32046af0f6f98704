package resource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/simp-lee/posadmin/internal/domain"
)

func newTestRepository(t *testing.T, backend *fakeBackend, retries int) (*Repository[widget], *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return NewRepository(newTestClient(t, backend, retries), logger), &buf
}

func TestRepository_AllFallsBackToEmpty(t *testing.T) {
	backend := &fakeBackend{routes: map[string]func(http.ResponseWriter){
		"GET /api/widgets/all": jsonReply(500, `{"message":"boom"}`),
	}}
	repo, logs := newTestRepository(t, backend, 2)

	res := repo.All(context.Background())
	if res.Value == nil || len(res.Value) != 0 {
		t.Fatalf("Value = %v, want empty non-nil slice", res.Value)
	}
	if !res.Failed() || res.Outcome != Failed || !domain.IsServer(res.Err) {
		t.Fatalf("result = %+v", res)
	}
	if backend.hits.Load() != 3 {
		t.Errorf("attempts = %d, want transport retries only", backend.hits.Load())
	}
	if !strings.Contains(logs.String(), `"resource":"api/widgets"`) || !strings.Contains(logs.String(), `"op":"all"`) {
		t.Errorf("log = %s", logs.String())
	}
}

func TestRepository_AllDistinguishesEmptyFromFailed(t *testing.T) {
	backend := &fakeBackend{routes: map[string]func(http.ResponseWriter){
		"GET /api/widgets/all": jsonReply(200, `[]`),
	}}
	repo, logs := newTestRepository(t, backend, 0)

	res := repo.All(context.Background())
	if res.Outcome != Empty || res.Err != nil || len(res.Value) != 0 {
		t.Fatalf("result = %+v, want Empty", res)
	}
	if logs.Len() != 0 {
		t.Errorf("empty result should not log: %s", logs.String())
	}
}

func TestRepository_Get(t *testing.T) {
	backend := &fakeBackend{routes: map[string]func(http.ResponseWriter){
		"GET /api/widgets/W1":   jsonReply(200, `{"code":"W1","name":"a","enabled":"Y"}`),
		"GET /api/widgets/DOWN": jsonReply(503, ``),
	}}
	repo, _ := newTestRepository(t, backend, 0)
	ctx := context.Background()

	if res := repo.Get(ctx, "W1"); !res.OK() || res.Value.Code != "W1" {
		t.Errorf("Get(W1) = %+v", res)
	}
	if res := repo.Get(ctx, "MISSING"); res.Outcome != Empty || res.Value != nil || res.Err != nil {
		t.Errorf("Get(MISSING) = %+v, want Empty with nil value", res)
	}
	if res := repo.Get(ctx, "DOWN"); res.Outcome != Failed || res.Value != nil || !domain.IsUnavailable(res.Err) {
		t.Errorf("Get(DOWN) = %+v, want Failed", res)
	}
}

func TestRepository_PageFallback(t *testing.T) {
	backend := &fakeBackend{}
	backend.routes = map[string]func(http.ResponseWriter){
		"GET /api/widgets": jsonReply(403, `{"message":"no access"}`),
	}
	repo, _ := newTestRepository(t, backend, 0)

	res := repo.Page(context.Background(), domain.PageRequest{Page: 2, PageSize: 5})
	if !res.Failed() || !domain.IsForbidden(res.Err) {
		t.Fatalf("result = %+v", res)
	}
	if res.Value == nil || res.Value.PageNumber != 2 || res.Value.PageSize != 5 || len(res.Value.Data) != 0 {
		t.Fatalf("fallback envelope = %+v", res.Value)
	}
	if err := res.Value.Validate(); err != nil {
		t.Fatalf("fallback envelope invalid: %v", err)
	}
}

func TestRepository_MutationsReportBool(t *testing.T) {
	backend := &fakeBackend{routes: map[string]func(http.ResponseWriter){
		"POST /api/widgets":      jsonReply(409, `{"message":"code exists"}`),
		"PUT /api/widgets/W1":    jsonReply(204, ``),
		"DELETE /api/widgets/W1": jsonReply(404, ``),
	}}
	repo, _ := newTestRepository(t, backend, 0)
	ctx := context.Background()
	w := widget{Code: "W1", Name: "a"}

	if res := repo.Create(ctx, w); res.Outcome != Failed || res.Value != nil || !domain.IsConflict(res.Err) {
		t.Errorf("Create() = %+v", res)
	}
	if res := repo.Update(ctx, "W1", w); !res.Value || !res.OK() {
		t.Errorf("Update() = %+v", res)
	}
	if res := repo.Delete(ctx, "W1"); res.Value || !res.Failed() {
		t.Errorf("Delete() = %+v", res)
	}
}

func TestRepository_FindList(t *testing.T) {
	backend := &fakeBackend{routes: map[string]func(http.ResponseWriter){
		"GET /api/widgets/group/G1": jsonReply(200, `[{"code":"W1","name":"a","enabled":"Y"}]`),
	}}
	repo, _ := newTestRepository(t, backend, 0)

	if res := repo.FindList(context.Background(), "group/G1", nil); !res.OK() || len(res.Value) != 1 {
		t.Errorf("FindList() = %+v", res)
	}
	if res := repo.FindList(context.Background(), "group/NOPE", nil); !res.Failed() || res.Value == nil {
		t.Errorf("FindList() on failure = %+v", res)
	}
	if res := repo.Find(context.Background(), "group/NOPE", nil); res.Outcome != Empty {
		t.Errorf("Find() on 404 = %+v", res)
	}
}

func TestCollectHelpers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	boom := errors.New("boom")

	if res := CollectDone(ctx, logger, "r", "op", func(context.Context) error { return boom }); res.Value || res.Err != boom {
		t.Errorf("CollectDone() = %+v", res)
	}
	if res := CollectOne(ctx, logger, "r", "op", func(context.Context) (*int, error) { return nil, nil }); res.Outcome != Empty {
		t.Errorf("CollectOne(nil, nil) = %+v", res)
	}
	if res := CollectList(ctx, logger, "r", "op", func(context.Context) ([]int, error) { return []int{1}, nil }); !res.OK() {
		t.Errorf("CollectList() = %+v", res)
	}
}

func TestOutcome_String(t *testing.T) {
	for o, want := range map[Outcome]string{OK: "ok", Empty: "empty", Failed: "failed", Outcome(9): "unknown"} {
		if o.String() != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", o, o.String(), want)
		}
	}
}
