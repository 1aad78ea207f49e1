package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/auth"
	"github.com/sakif/jobly/internal/model"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// In-memory implementations of the repository interfaces. They return the
// same apperror kinds the SQL store does, so the services can't tell them
// apart. searchCalls lets tests assert that a query was never attempted.

var errDatabaseDown = errors.New("database is down")

type mockCompanyRepo struct {
	companies   map[string]*model.Company
	jobs        map[string][]model.CompanyJob
	searchCalls int
	failSearch  bool
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{
		companies: make(map[string]*model.Company),
		jobs:      make(map[string][]model.CompanyJob),
	}
}

func (m *mockCompanyRepo) Search(_ context.Context, f model.CompanyFilter) ([]model.CompanySummary, error) {
	m.searchCalls++
	if m.failSearch {
		return nil, errDatabaseDown
	}
	result := make([]model.CompanySummary, 0, len(m.companies))
	for _, c := range m.companies {
		if f.Search != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*f.Search)) {
			continue
		}
		result = append(result, model.CompanySummary{Handle: c.Handle, Name: c.Name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockCompanyRepo) Get(_ context.Context, handle string) (*model.Company, error) {
	c, ok := m.companies[handle]
	if !ok {
		return nil, apperror.NotFound("company", "handle", handle)
	}
	result := *c
	return &result, nil
}

func (m *mockCompanyRepo) Jobs(_ context.Context, handle string) ([]model.CompanyJob, error) {
	return append([]model.CompanyJob{}, m.jobs[handle]...), nil
}

func (m *mockCompanyRepo) Create(_ context.Context, nc model.NewCompany) (*model.Company, error) {
	if _, ok := m.companies[nc.Handle]; ok {
		return nil, apperror.Conflict("company", "handle", nc.Handle)
	}
	c := &model.Company{
		Handle:       nc.Handle,
		Name:         nc.Name,
		NumEmployees: nc.NumEmployees,
		Description:  nc.Description,
		LogoURL:      nc.LogoURL,
	}
	m.companies[c.Handle] = c
	result := *c
	return &result, nil
}

func (m *mockCompanyRepo) Update(_ context.Context, handle string, p model.CompanyPatch) (*model.Company, error) {
	c, ok := m.companies[handle]
	if !ok {
		return nil, apperror.NotFound("company", "handle", handle)
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.NumEmployees.Set {
		c.NumEmployees = p.NumEmployees.Value
	}
	if p.Description.Set {
		c.Description = p.Description.Value
	}
	if p.LogoURL.Set {
		c.LogoURL = p.LogoURL.Value
	}
	result := *c
	return &result, nil
}

func (m *mockCompanyRepo) Delete(_ context.Context, handle string) error {
	if _, ok := m.companies[handle]; !ok {
		return apperror.NotFound("company", "handle", handle)
	}
	delete(m.companies, handle)
	delete(m.jobs, handle)
	return nil
}

type mockJobRepo struct {
	jobs   map[int64]*model.Job
	nextID int64
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[int64]*model.Job)}
}

func (m *mockJobRepo) Search(_ context.Context, f model.JobFilter) ([]model.JobSummary, error) {
	result := make([]model.JobSummary, 0, len(m.jobs))
	for _, j := range m.jobs {
		if f.MinSalary != nil && j.Salary < *f.MinSalary {
			continue
		}
		result = append(result, model.JobSummary{ID: j.ID, Title: j.Title, CompanyHandle: j.CompanyHandle})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockJobRepo) Get(_ context.Context, id int64) (*model.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, apperror.NotFound("job", "id", strconv.FormatInt(id, 10))
	}
	result := *j
	return &result, nil
}

func (m *mockJobRepo) Create(_ context.Context, nj model.NewJob) (*model.Job, error) {
	m.nextID++
	j := &model.Job{
		ID:            m.nextID,
		Title:         nj.Title,
		Salary:        *nj.Salary,
		Equity:        *nj.Equity,
		CompanyHandle: nj.CompanyHandle,
		DatePosted:    time.Now().UTC(),
	}
	m.jobs[j.ID] = j
	result := *j
	return &result, nil
}

func (m *mockJobRepo) Update(_ context.Context, id int64, p model.JobPatch) (*model.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, apperror.NotFound("job", "id", strconv.FormatInt(id, 10))
	}
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Salary != nil {
		j.Salary = *p.Salary
	}
	if p.Equity != nil {
		j.Equity = *p.Equity
	}
	if p.CompanyHandle != nil {
		j.CompanyHandle = *p.CompanyHandle
	}
	result := *j
	return &result, nil
}

func (m *mockJobRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.jobs[id]; !ok {
		return apperror.NotFound("job", "id", strconv.FormatInt(id, 10))
	}
	delete(m.jobs, id)
	return nil
}

type mockUserRepo struct {
	users   map[string]*model.User
	failGet bool
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (m *mockUserRepo) Get(_ context.Context, username string) (*model.User, error) {
	if m.failGet {
		return nil, errDatabaseDown
	}
	u, ok := m.users[username]
	if !ok {
		return nil, apperror.NotFound("user", "username", username)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) Create(_ context.Context, u model.User) (*model.User, error) {
	if _, ok := m.users[u.Username]; ok {
		return nil, apperror.Conflict("user", "username", u.Username)
	}
	stored := u
	m.users[u.Username] = &stored
	return &u, nil
}

func (m *mockUserRepo) Update(_ context.Context, username string, p model.UserPatch) (*model.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, apperror.NotFound("user", "username", username)
	}
	if p.Password != nil {
		u.PasswordHash = *p.Password
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PhotoURL.Set {
		u.PhotoURL = p.PhotoURL.Value
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := m.users[username]; !ok {
		return apperror.NotFound("user", "username", username)
	}
	delete(m.users, username)
	return nil
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func ptr[T any](v T) *T { return &v }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPasswords(t *testing.T) *auth.PasswordService {
	t.Helper()
	ps, err := auth.NewPasswordServiceWithCost(4)
	if err != nil {
		t.Fatalf("NewPasswordServiceWithCost: %v", err)
	}
	return ps
}

func testTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}
