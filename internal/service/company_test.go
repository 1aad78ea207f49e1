package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
)

func newTestCompanyService() (*CompanyService, *mockCompanyRepo) {
	repo := newMockCompanyRepo()
	return NewCompanyService(repo, testLogger()), repo
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestCompanyList_InvertedRangeRejectedBeforeQuery(t *testing.T) {
	svc, repo := newTestCompanyService()

	_, err := svc.List(context.Background(), model.CompanyFilter{
		MinEmployees: ptr(500),
		MaxEmployees: ptr(10),
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("List() error = %v, want ErrValidation", err)
	}
	if err.Error() != "Incorrect Parameters" {
		t.Errorf("message = %q, want %q", err.Error(), "Incorrect Parameters")
	}
	if repo.searchCalls != 0 {
		t.Errorf("repository was queried %d times, want 0", repo.searchCalls)
	}
}

func TestCompanyList_EqualBoundsAllowed(t *testing.T) {
	svc, repo := newTestCompanyService()

	if _, err := svc.List(context.Background(), model.CompanyFilter{
		MinEmployees: ptr(10),
		MaxEmployees: ptr(10),
	}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if repo.searchCalls != 1 {
		t.Errorf("searchCalls = %d, want 1", repo.searchCalls)
	}
}

func TestCompanyList_OnlyOneBound(t *testing.T) {
	svc, _ := newTestCompanyService()

	if _, err := svc.List(context.Background(), model.CompanyFilter{MinEmployees: ptr(1000)}); err != nil {
		t.Errorf("List(min only) error = %v", err)
	}
	if _, err := svc.List(context.Background(), model.CompanyFilter{MaxEmployees: ptr(0)}); err != nil {
		t.Errorf("List(max only) error = %v", err)
	}
}

func TestCompanyList_StoreFailure(t *testing.T) {
	svc, repo := newTestCompanyService()
	repo.failSearch = true

	_, err := svc.List(context.Background(), model.CompanyFilter{})
	if !errors.Is(err, errDatabaseDown) {
		t.Fatalf("List() error = %v, want wrapped errDatabaseDown", err)
	}
}

// =========================================================================
// GET / CREATE / UPDATE / DELETE TESTS
// =========================================================================

func TestCompanyGet_IncludesJobs(t *testing.T) {
	svc, repo := newTestCompanyService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, model.NewCompany{Handle: "LLL", Name: "Lulu Lemon"}); err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}
	repo.jobs["LLL"] = []model.CompanyJob{{ID: 1, Title: "Yogi"}}

	detail, err := svc.Get(ctx, "LLL")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail.Handle != "LLL" {
		t.Errorf("Handle = %q, want LLL", detail.Handle)
	}
	if len(detail.Jobs) != 1 || detail.Jobs[0].Title != "Yogi" {
		t.Errorf("Jobs = %+v, want [Yogi]", detail.Jobs)
	}
}

func TestCompanyGet_NotFound(t *testing.T) {
	svc, _ := newTestCompanyService()

	_, err := svc.Get(context.Background(), "BBF")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if err.Error() != "company not found with handle BBF" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCompanyCreate_TrimsAndRequires(t *testing.T) {
	svc, _ := newTestCompanyService()

	c, err := svc.Create(context.Background(), model.NewCompany{Handle: " LLL ", Name: " Lulu Lemon "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.Handle != "LLL" || c.Name != "Lulu Lemon" {
		t.Errorf("Create() = %+v, want trimmed fields", c)
	}

	_, err = svc.Create(context.Background(), model.NewCompany{Handle: "   ", Name: "x"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create(blank handle) error = %v, want ErrValidation", err)
	}
}

func TestCompanyCreate_Duplicate(t *testing.T) {
	svc, _ := newTestCompanyService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, model.NewCompany{Handle: "LLL", Name: "Lulu Lemon"}); err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	_, err := svc.Create(ctx, model.NewCompany{Handle: "LLL", Name: "Again"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict", err)
	}
}

func TestCompanyUpdate(t *testing.T) {
	svc, _ := newTestCompanyService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, model.NewCompany{Handle: "LLL", Name: "Lulu Lemon"}); err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	tests := []struct {
		name    string
		handle  string
		patch   model.CompanyPatch
		wantErr error
	}{
		{"changes description", "LLL", model.CompanyPatch{Description: model.Some("THE LAMEST YOGA COMPANY EVER!")}, nil},
		{"empty patch", "LLL", model.CompanyPatch{}, apperror.ErrValidation},
		{"missing company", "BBF", model.CompanyPatch{Name: ptr("x")}, apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := svc.Update(ctx, tt.handle, tt.patch)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if c.Description == nil || *c.Description != "THE LAMEST YOGA COMPANY EVER!" {
				t.Errorf("Description = %v", c.Description)
			}
		})
	}
}

func TestCompanyDelete(t *testing.T) {
	svc, _ := newTestCompanyService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, model.NewCompany{Handle: "LLL", Name: "Lulu Lemon"}); err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	if err := svc.Delete(ctx, "LLL"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, "LLL"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
