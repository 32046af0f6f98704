package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/posadmin/internal/config"
	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/stubserver"
	"github.com/simp-lee/posadmin/internal/stubserver/stubtest"
)

// useBackend points the CLI at url with a fresh on-disk session store.
func useBackend(t *testing.T, url string) {
	t.Helper()
	t.Setenv("POSADMIN__API__BASE_URL", url)
	t.Setenv("POSADMIN__API__MAX_RETRIES", "0")
	t.Setenv("POSADMIN__SESSION__DRIVER", "sqlite")
	t.Setenv("POSADMIN__SESSION__SQLITE__PATH", filepath.Join(t.TempDir(), "session.db"))
	t.Setenv("POSADMIN__LOG__LEVEL", "error")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeStreams(t, stdin, args...)
	return out, err
}

// executeStreams runs one command line and returns stdout and stderr apart.
func executeStreams(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), err
}

func mustExecute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := execute(t, stdin, args...)
	if err != nil {
		t.Fatalf("posadmin %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestRun_ResourceCommands(t *testing.T) {
	b := stubtest.Start(t, true)
	useBackend(t, b.HTTP.URL)

	var customers []domain.Customer
	if err := json.Unmarshal([]byte(mustExecute(t, "", "customers", "all")), &customers); err != nil {
		t.Fatalf("customers all is not JSON: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("customers all = %d rows, want 2", len(customers))
	}

	csvOut := mustExecute(t, "", "customers", "by-group", "VIP", "--csv")
	if !strings.HasPrefix(csvOut, "Code,Name,Group") || !strings.Contains(csvOut, "C0002,Ana Lima,VIP") {
		t.Errorf("customers by-group --csv = %q", csvOut)
	}

	mustExecute(t, `{"customerCode":"C0100","customerName":"Bea","groupCode":"RETAIL","discount":0,"enabled":"Y"}`, "customers", "create")
	got := mustExecute(t, "", "customers", "get", "C0100")
	if !strings.Contains(got, `"customerName": "Bea"`) {
		t.Errorf("customers get = %s", got)
	}

	if _, err := execute(t, `{"customerCode":"C0101","enabled":"yes"}`, "customers", "create"); err == nil {
		t.Error("create with a malformed flag should fail")
	}

	var page domain.PagedResponse[domain.Customer]
	if err := json.Unmarshal([]byte(mustExecute(t, "", "customers", "list", "--page-size", "2", "--page", "2")), &page); err != nil {
		t.Fatalf("customers list is not JSON: %v", err)
	}
	if page.TotalCount != 3 || page.TotalPages != 2 || len(page.Data) != 1 {
		t.Errorf("customers list page 2 = %+v", page)
	}

	out, err := execute(t, "", "customers", "bulk-delete", "C0001", "NOPE")
	if err == nil {
		t.Error("bulk-delete with a missing code should fail")
	}
	if !strings.Contains(out, "1 of 2 succeeded, 1 failed") || !strings.Contains(out, "NOPE:") {
		t.Errorf("bulk-delete output = %q", out)
	}
	if b.Store().Customers.Len() != 2 {
		t.Errorf("store has %d customers, want 2", b.Store().Customers.Len())
	}
}

func TestRun_QueryCommands(t *testing.T) {
	b := stubtest.Start(t, true)
	useBackend(t, b.HTTP.URL)

	views := mustExecute(t, "", "products", "views", "--csv")
	if !strings.Contains(views, "COLA-01,Cola,Drinks,Sodas,2.00,Y,Active") {
		t.Errorf("products views --csv = %q", views)
	}

	var priced []domain.Product
	if err := json.Unmarshal([]byte(mustExecute(t, "", "products", "by-price", "--min", "1", "--max", "3")), &priced); err != nil {
		t.Fatal(err)
	}
	if len(priced) != 1 || priced[0].ItemCode != "COLA-01" {
		t.Errorf("products by-price = %+v", priced)
	}
	if _, err := execute(t, "", "products", "by-price", "--min", "cheap"); err == nil {
		t.Error("by-price with a bad --min should fail")
	}

	variants := mustExecute(t, "", "products", "variants", "all", "--item", "COLA-01", "--csv")
	if strings.Count(variants, "\n") != 3 {
		t.Errorf("variants of COLA-01 = %q, want a header and 2 rows", variants)
	}

	if got := mustExecute(t, "", "orders", "set-status", "1", "Completed"); got != "order 1 is Completed (success)\n" {
		t.Errorf("set-status = %q", got)
	}
	completed := mustExecute(t, "", "orders", "by-status", "Completed", "--csv")
	if !strings.Contains(completed, "\n1,SO-1,POS01,C0001,Completed,10.50,") {
		t.Errorf("orders by-status = %q", completed)
	}
	if _, err := execute(t, "", "orders", "set-status", "one", "Completed"); err == nil {
		t.Error("set-status with a non-numeric docEntry should fail")
	}
	if _, err := execute(t, "", "orders", "set-status", "1", "Lost"); !domain.IsValidation(err) {
		t.Errorf("set-status with an unknown status error = %v, want validation", err)
	}

	kds := mustExecute(t, "", "devices", "by-type", domain.DeviceTypeKDS, "--csv")
	if !strings.Contains(kds, "DEV-KDS-1") || strings.Contains(kds, "DEV-TILL-1") {
		t.Errorf("devices by-type KDS = %q", kds)
	}
}

func TestRun_Images(t *testing.T) {
	b := stubtest.Start(t, false)
	useBackend(t, b.HTTP.URL)

	dir := t.TempDir()
	src := filepath.Join(dir, "logo.txt")
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	var img domain.Image
	if err := json.Unmarshal([]byte(mustExecute(t, "", "images", "upload", src, "--description", "logo")), &img); err != nil {
		t.Fatal(err)
	}
	if img.FileName != "logo.txt" || img.Description != "logo" {
		t.Errorf("uploaded image = %+v", img)
	}

	dst := filepath.Join(dir, "copy.txt")
	mustExecute(t, "", "images", "download", img.ImageCode, "-o", dst)
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "hello" {
		t.Errorf("downloaded %q, %v", data, err)
	}

	second := filepath.Join(dir, "menu board.txt")
	if err := os.WriteFile(second, []byte("today"), 0o644); err != nil {
		t.Fatal(err)
	}
	var more []domain.Image
	if err := json.Unmarshal([]byte(mustExecute(t, "", "images", "upload", second, src)), &more); err != nil {
		t.Fatal(err)
	}
	if len(more) != 2 {
		t.Fatalf("upload of two files = %+v", more)
	}
	board := more[0]
	if board.FileName != "menu board.txt" {
		board = more[1]
	}

	outDir := t.TempDir()
	got := mustExecute(t, "", "images", "download", board.ImageCode, img.ImageCode, "-o", outDir)
	if strings.Count(got, "saved ") != 2 {
		t.Errorf("download of two images = %q", got)
	}
	if data, err := os.ReadFile(filepath.Join(outDir, "menu board.txt")); err != nil || string(data) != "today" {
		t.Errorf("menu board.txt = %q, %v", data, err)
	}
	if data, err := os.ReadFile(filepath.Join(outDir, "logo.txt")); err != nil || string(data) != "hello" {
		t.Errorf("logo.txt = %q, %v", data, err)
	}

	if _, err := execute(t, "", "images", "download", img.ImageCode, "NOPE", "-o", outDir); !domain.IsNotFound(err) {
		t.Errorf("download of an unknown code error = %v, want not found", err)
	}
}

func TestRun_ResultOutcomes(t *testing.T) {
	b := stubtest.Start(t, true)
	useBackend(t, b.HTTP.URL)

	out, errOut, err := executeStreams(t, "", "customers", "by-group", "NOBODY")
	if err != nil {
		t.Fatalf("by-group of an empty group: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("stdout = %q, want an empty list", out)
	}
	if !strings.Contains(errOut, "no customers found") {
		t.Errorf("stderr = %q", errOut)
	}

	_, errOut, err = executeStreams(t, "", "customers", "list", "--page", "9")
	if err != nil || !strings.Contains(errOut, "no customers found") {
		t.Errorf("list past the last page: err = %v, stderr = %q", err, errOut)
	}

	if _, err := execute(t, "", "customers", "get", "NOPE"); !domain.IsNotFound(err) {
		t.Errorf("get of a missing code error = %v, want not found", err)
	}
	if _, err := execute(t, "", "customers", "delete", "NOPE"); !domain.IsNotFound(err) {
		t.Errorf("delete of a missing code error = %v, want not found", err)
	}
}

func TestRun_NewTemplates(t *testing.T) {
	b := stubtest.Start(t, true)
	useBackend(t, b.HTTP.URL)

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"customers", "new"}, []string{`"customerCode": "CUS-`, `"enabled": "Y"`}},
		{[]string{"cgroups", "new"}, []string{`"groupCode": "CG-`}},
		{[]string{"pgroups", "new"}, []string{`"groupCode": "PG-`}},
		{[]string{"categories", "new", "--group", "FOOD"}, []string{`"categoryCode": "PC-`, `"groupCode": "FOOD"`}},
		{[]string{"products", "new", "--group", "DRINK"}, []string{`"itemCode": "PRD-`, `"groupCode": "DRINK"`, `"uom": "EA"`}},
		{[]string{"products", "variants", "new", "--item", "COLA-01"}, []string{`"itemCode": "COLA-01"`, `"price": "2"`}},
		{[]string{"products", "variants", "new", "--item", "NOPE"}, []string{`"itemCode": "NOPE"`, `"price": "0"`}},
		{[]string{"sizes", "new"}, []string{`"sizeCode": "SZ-`}},
		{[]string{"trees", "new", "--item", "BURGER-01"}, []string{`"treeCode": "TR-`, `"itemCode": "BURGER-01"`, `"components": []`}},
		{[]string{"accompaniments", "new"}, []string{`"accompanimentCode": "ACC-`}},
		{[]string{"combos", "new"}, []string{`"comboCode": "CMB-`, `"options": []`}},
		{[]string{"devices", "new", "--pos", "POS01"}, []string{`"deviceCode": "DEV-`, `"posCode": "POS01"`}},
		{[]string{"pos", "new"}, []string{`"posCode": "POS-`}},
		{[]string{"orders", "new", "--pos", "POS01"}, []string{`"posCode": "POS01"`, `"status": "Pending"`, `"lines": []`}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			got := mustExecute(t, "", tt.args...)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output lacks %s:\n%s", w, got)
				}
			}
		})
	}
}

func TestRun_OrderTotals(t *testing.T) {
	b := stubtest.Start(t, true)
	useBackend(t, b.HTTP.URL)

	doc := `{"posCode":"POS01","status":"Pending","docTotal":"99","lines":[` +
		`{"itemCode":"COLA-01","quantity":"2","price":"2.00"},` +
		`{"itemCode":"BURGER-01","quantity":"1","price":"8.50","lineTotal":"1"}]}`
	var created domain.Order
	if err := json.Unmarshal([]byte(mustExecute(t, doc, "orders", "create")), &created); err != nil {
		t.Fatal(err)
	}
	if !created.DocTotal.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("docTotal = %s, want 12.50", created.DocTotal)
	}
	if created.Lines[0].LineNum != 1 || created.Lines[1].LineNum != 2 || !created.Lines[1].LineTotal.Equal(decimal.RequireFromString("8.50")) {
		t.Errorf("lines = %+v", created.Lines)
	}
}

func TestRun_ComboEditing(t *testing.T) {
	b := stubtest.Start(t, true)
	useBackend(t, b.HTTP.URL)

	mustExecute(t, "", "combos", "add-option", "MENU-01", "Side", "--item", "FRIES-01=0.50", "--item", "BUN-01", "--default", "BUN-01")
	mustExecute(t, "", "combos", "move-option", "MENU-01", "Side", "1")
	mustExecute(t, "", "combos", "add-item", "MENU-01", "Drink", "BURGER-01", "--extra", "1.5")
	mustExecute(t, "", "combos", "set-default", "MENU-01", "Drink", "BURGER-01")
	mustExecute(t, "", "combos", "remove-item", "MENU-01", "Drink", "COLA-01")
	mustExecute(t, "", "combos", "remove-option", "MENU-01", "Main")

	failing := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{"duplicate item", []string{"combos", "add-item", "MENU-01", "Drink", "BURGER-01"}, domain.IsConflict},
		{"duplicate option", []string{"combos", "add-option", "MENU-01", "Side", "--item", "COLA-01"}, domain.IsConflict},
		{"option without items", []string{"combos", "add-option", "MENU-01", "Dessert"}, domain.IsValidation},
		{"unknown option", []string{"combos", "remove-option", "MENU-01", "Dessert"}, domain.IsNotFound},
		{"unknown combo", []string{"combos", "remove-option", "NOPE", "Side"}, domain.IsNotFound},
		{"position out of range", []string{"combos", "move-option", "MENU-01", "Side", "5"}, domain.IsBadRequest},
	}
	for _, tt := range failing {
		if _, err := execute(t, "", tt.args...); !tt.check(err) {
			t.Errorf("%s: error = %v", tt.name, err)
		}
	}

	combo, err := b.Store().Combos.Get("MENU-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(combo.Options) != 2 || combo.Options[0].OptionName != "Side" || combo.Options[1].OptionName != "Drink" {
		t.Fatalf("options = %+v", combo.Options)
	}
	side := combo.Options[0].Items
	if len(side) != 2 || !side[0].ExtraPrice.Equal(decimal.RequireFromString("0.5")) || bool(side[0].IsDefault) || !bool(side[1].IsDefault) {
		t.Errorf("Side items = %+v", side)
	}
	drink := combo.Options[1].Items
	if len(drink) != 1 || drink[0].ItemCode != "BURGER-01" || !drink[0].IsDefault {
		t.Errorf("Drink items = %+v", drink)
	}
}

func TestRun_TreeEditing(t *testing.T) {
	b := stubtest.Start(t, true)
	useBackend(t, b.HTTP.URL)

	mustExecute(t, "", "trees", "add-component", "T-BURGER-01", "PATTY-01", "2", "--uom", "EA")
	mustExecute(t, "", "trees", "add-component", "T-BURGER-01", "BUN-01", "1")
	mustExecute(t, "", "trees", "set-quantity", "T-BURGER-01", "PATTY-01", "1.5")

	if _, err := execute(t, "", "trees", "add-component", "T-BURGER-01", "BURGER-01", "1"); !domain.IsValidation(err) {
		t.Errorf("self reference error = %v, want validation", err)
	}
	if _, err := execute(t, "", "trees", "set-quantity", "T-BURGER-01", "PATTY-01", "0"); !domain.IsValidation(err) {
		t.Errorf("zero quantity error = %v, want validation", err)
	}
	if _, err := execute(t, "", "trees", "remove-component", "T-BURGER-01", "CHEESE-01"); !domain.IsNotFound(err) {
		t.Errorf("remove of a missing component error = %v, want not found", err)
	}
	if _, err := execute(t, "", "trees", "add-component", "T-BURGER-01", "PATTY-01", "lots"); err == nil {
		t.Error("a non-numeric quantity should fail")
	}

	tree, err := b.Store().ProductTrees.Get("T-BURGER-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Components) != 2 {
		t.Fatalf("components = %+v", tree.Components)
	}
	bun, patty := tree.Components[0], tree.Components[1]
	if bun.ItemCode != "BUN-01" || !bun.Quantity.Equal(decimal.NewFromInt(2)) {
		t.Errorf("bun = %+v, want quantity 2", bun)
	}
	if patty.ItemCode != "PATTY-01" || !patty.Quantity.Equal(decimal.RequireFromString("1.5")) || patty.UoM != "EA" {
		t.Errorf("patty = %+v", patty)
	}

	mustExecute(t, "", "trees", "remove-component", "T-BURGER-01", "PATTY-01")
	if tree, _ := b.Store().ProductTrees.Get("T-BURGER-01"); len(tree.Components) != 1 {
		t.Errorf("components after remove = %+v", tree.Components)
	}
}

func TestRun_LoginWhoamiLogout(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	srv, err := stubserver.New(&config.StubConfig{
		Host: "127.0.0.1",
		Port: 1,
		Mode: gin.TestMode,
		Auth: config.StubAuthConfig{
			Enabled:     true,
			JWTSecret:   "Cli-Test-Secret-0123456789-abcdefgh",
			TokenExpiry: "1h",
			Users:       []config.StubUser{{Username: "admin", PasswordHash: string(hash)}},
		},
	}, stubtest.Logger(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	useBackend(t, hs.URL)

	if _, err := execute(t, "", "products", "all"); !domain.IsUnauthorized(err) {
		t.Fatalf("products all signed out error = %v, want unauthorized", err)
	}
	if _, err := execute(t, "", "login", "--user", "admin", "--password", "wrong"); !domain.IsUnauthorized(err) {
		t.Errorf("login with a wrong password error = %v, want unauthorized", err)
	}
	if _, err := execute(t, "", "login"); err == nil {
		t.Error("login without credentials should fail")
	}

	mustExecute(t, "", "login", "--user", "admin", "--password", "s3cret-pass")
	who := mustExecute(t, "", "whoami")
	if !strings.Contains(who, `"subject": "admin"`) || !strings.Contains(who, `"expired": false`) {
		t.Errorf("whoami = %s", who)
	}
	mustExecute(t, "", "products", "all")

	mustExecute(t, "", "logout")
	if _, err := execute(t, "", "whoami"); err == nil {
		t.Error("whoami after logout should fail")
	}
}

func TestRun_EnvFile(t *testing.T) {
	b := stubtest.Start(t, true)
	useBackend(t, "http://127.0.0.1:1/")

	envFile := filepath.Join(t.TempDir(), "posadmin.env")
	if err := os.WriteFile(envFile, []byte("POSADMIN__API__BASE_URL="+b.HTTP.URL+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set.
	if err := os.Unsetenv("POSADMIN__API__BASE_URL"); err != nil {
		t.Fatal(err)
	}

	if out := mustExecute(t, "", "--env-file", envFile, "sizes", "all"); !strings.Contains(out, `"sizeCode": "S"`) {
		t.Errorf("sizes all = %s", out)
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	useBackend(t, "ftp://example.com")
	if _, err := execute(t, "", "sizes", "all"); err == nil {
		t.Error("an invalid base url should fail before any request")
	}

	useBackend(t, "http://127.0.0.1:1/")
	if _, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "sizes", "all"); err == nil {
		t.Error("an explicit missing config file should fail")
	}
	if _, err := execute(t, "", "stub", "--port", "70000"); err == nil {
		t.Error("stub with an out-of-range port should fail")
	}
}
