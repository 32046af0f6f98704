package customer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/stubserver/stubtest"
)

func TestAPI_Queries(t *testing.T) {
	b := stubtest.Start(t, true)
	api := NewAPI(b.Client)
	ctx := context.Background()

	vip, err := api.ByGroup(ctx, "VIP")
	if err != nil {
		t.Fatalf("ByGroup() error = %v", err)
	}
	if len(vip) != 1 || vip[0].CustomerCode != "C0002" {
		t.Errorf("ByGroup(VIP) = %+v", vip)
	}

	none, err := api.ByGroup(ctx, "WHOLESALE")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("ByGroup(WHOLESALE) = %v, %v; want empty slice", none, err)
	}

	group := NewGroup()
	group.GroupName = "Staff"
	group.Enabled = false
	if _, err := api.Groups.Create(ctx, group); err != nil {
		t.Fatalf("Groups.Create() error = %v", err)
	}
	enabled, err := api.EnabledGroups(ctx)
	if err != nil {
		t.Fatalf("EnabledGroups() error = %v", err)
	}
	if len(enabled) != 2 {
		t.Errorf("EnabledGroups() = %d groups, want 2", len(enabled))
	}
}

func TestRepository_Outcomes(t *testing.T) {
	b := stubtest.Start(t, true)
	var logBuf bytes.Buffer
	repo := NewRepository(NewAPI(b.Client), stubtest.Logger(&logBuf))
	ctx := context.Background()

	if got := repo.ByGroup(ctx, "VIP"); got.Outcome != resource.OK || len(got.Value) != 1 {
		t.Errorf("ByGroup(VIP) = %+v", got)
	}
	if got := repo.ByGroup(ctx, "NONE"); got.Outcome != resource.Empty || got.Value == nil {
		t.Errorf("ByGroup(NONE) = %+v, want Empty with a non-nil slice", got)
	}
	if got := repo.Customers.Get(ctx, "MISSING"); got.Outcome != resource.Empty || got.Value != nil {
		t.Errorf("Get(MISSING) = %+v, want Empty", got)
	}

	c := NewCustomer()
	c.CustomerName = "Rui"
	c.GroupCode = "RETAIL"
	created := repo.Customers.Create(ctx, c)
	if !created.OK() || created.Value.CustomerCode != c.CustomerCode {
		t.Fatalf("Create() = %+v", created)
	}

	bad := NewCustomer()
	bad.Discount = 101
	if got := repo.Customers.Create(ctx, bad); !got.Failed() || !domain.IsValidation(got.Err) {
		t.Errorf("Create(invalid) = %+v, want validation failure", got)
	}
	if b.Store().Customers.Len() != 3 {
		t.Errorf("store has %d customers, want 3: invalid rows must not be sent", b.Store().Customers.Len())
	}

	b.HTTP.Close()
	logBuf.Reset()
	got := repo.EnabledGroups(ctx)
	if !got.Failed() || got.Value == nil || len(got.Value) != 0 {
		t.Errorf("EnabledGroups() on a dead backend = %+v, want Failed with empty slice", got)
	}
	if !strings.Contains(logBuf.String(), "api call failed") || !strings.Contains(logBuf.String(), domain.PathCustomerGroups) {
		t.Errorf("expected the failure to be logged, got:\n%s", logBuf.String())
	}
}

func TestNewCustomerDefaults(t *testing.T) {
	c := NewCustomer()
	if !strings.HasPrefix(c.CustomerCode, "CUS-") || len(c.CustomerCode) > 20 {
		t.Errorf("CustomerCode = %q", c.CustomerCode)
	}
	if !c.Enabled {
		t.Error("new customers start enabled")
	}
	if g := NewGroup(); !strings.HasPrefix(g.GroupCode, "CG-") || !bool(g.Enabled) {
		t.Errorf("NewGroup() = %+v", g)
	}
}

func TestCustomersCSV(t *testing.T) {
	out, err := CustomersCSV([]domain.Customer{
		{CustomerCode: "C1", CustomerName: "Smith, Jo", GroupCode: "VIP", Discount: 12.5, Enabled: true},
		{CustomerCode: "C2", CustomerName: "Ana", Enabled: false},
	})
	if err != nil {
		t.Fatalf("CustomersCSV() error = %v", err)
	}
	want := "Code,Name,Group,Phone,Email,Discount,Status\n" +
		"C1,\"Smith, Jo\",VIP,,,12.5,Active\n" +
		"C2,Ana,,,,0,Inactive\n"
	if out != want {
		t.Errorf("CustomersCSV() =\n%s\nwant\n%s", out, want)
	}

	out, err = GroupsCSV([]domain.CustomerGroup{{GroupCode: "VIP", GroupName: "VIP", Discount: 10, Enabled: true}})
	if err != nil {
		t.Fatalf("GroupsCSV() error = %v", err)
	}
	if out != "Code,Name,Discount,Status\nVIP,VIP,10,Active\n" {
		t.Errorf("GroupsCSV() = %q", out)
	}
}
