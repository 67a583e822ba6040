package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tenauth/tenauth/internal/common"
	"github.com/tenauth/tenauth/internal/server/models"
)

func newTenantForTest(t *testing.T, rm *fakeRepoManager) *TenantService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	return NewTenantService(db, rm)
}

func TestTenantResolve_KnownTenant(t *testing.T) {
	rm := newFakeRepoManager()
	rm.t.tenants["tenant-acme"] = &models.Tenant{ID: "tenant-acme", Name: "acme"}
	s := newTenantForTest(t, rm)

	for _, required := range []bool{true, false} {
		ref, err := s.Resolve(context.Background(), "tenant-acme", required)
		if err != nil {
			t.Fatalf("required=%v: Resolve error: %v", required, err)
		}
		if ref.Host || ref.ID != "tenant-acme" {
			t.Fatalf("required=%v: ref = %+v", required, ref)
		}
		if ref.Key() != "tenant-acme" {
			t.Fatalf("required=%v: key = %q", required, ref.Key())
		}
	}
}

func TestTenantResolve_UnknownTenant(t *testing.T) {
	s := newTenantForTest(t, newFakeRepoManager())

	// A present identifier that matches nothing fails even when the tenant
	// is optional.
	for _, required := range []bool{true, false} {
		_, err := s.Resolve(context.Background(), "no-such-tenant", required)
		if !errors.Is(err, common.ErrTenantNotFound) {
			t.Fatalf("required=%v: err = %v, want ErrTenantNotFound", required, err)
		}
	}
}

func TestTenantResolve_AbsentIdentifier(t *testing.T) {
	s := newTenantForTest(t, newFakeRepoManager())

	_, err := s.Resolve(context.Background(), "", true)
	if !errors.Is(err, common.ErrTenantRequired) {
		t.Fatalf("required: err = %v, want ErrTenantRequired", err)
	}

	ref, err := s.Resolve(context.Background(), "", false)
	if err != nil {
		t.Fatalf("optional: Resolve error: %v", err)
	}
	if !ref.Host {
		t.Fatalf("optional: ref = %+v, want host scope", ref)
	}
	if ref.Key() != models.HostTenantKey {
		t.Fatalf("optional: key = %q, want %q", ref.Key(), models.HostTenantKey)
	}
}

func TestTenantCreate(t *testing.T) {
	rm := newFakeRepoManager()
	s := newTenantForTest(t, rm)

	tenant, err := s.Create(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if tenant.ID == "" || tenant.Name != "acme" {
		t.Fatalf("tenant = %+v", tenant)
	}

	got, err := rm.t.GetByID(context.Background(), tenant.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Name != "acme" {
		t.Fatalf("stored tenant = %+v", got)
	}
}
