package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/query"
	"github.com/sakif/jobly/internal/repository"
)

// compile-time check that *CompanyStore implements repository.CompanyRepository
var _ repository.CompanyRepository = (*CompanyStore)(nil)

// CompanyStore reads and writes the companies table.
type CompanyStore struct {
	db *DB
}

const companyColumns = "handle, name, num_employees, description, logo_url"

func scanCompany(row interface{ Scan(...any) error }, c *model.Company) error {
	return row.Scan(&c.Handle, &c.Name, &c.NumEmployees, &c.Description, &c.LogoURL)
}

// Search runs the fixed-shape company search. Absent filters match everything.
//
// KEY CONCEPTS:
//   - query.CompanySearch renders the SQL; this method only runs it
//   - rows must be closed, and rows.Err checked after the loop
//   - the result starts as an empty slice so "no matches" encodes as []
//     rather than null
func (s *CompanyStore) Search(ctx context.Context, f model.CompanyFilter) ([]model.CompanySummary, error) {
	st := query.CompanySearch(s.db.dialect, f)

	rows, err := s.db.conn.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: searching companies: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty result encodes as [] rather than null.
	companies := make([]model.CompanySummary, 0)
	for rows.Next() {
		var c model.CompanySummary
		if err := rows.Scan(&c.Handle, &c.Name); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating companies: %w", err)
	}

	return companies, nil
}

// Get retrieves a company by handle.
// Returns apperror.ErrNotFound if no company has that handle.
func (s *CompanyStore) Get(ctx context.Context, handle string) (*model.Company, error) {
	var c model.Company

	err := scanCompany(s.db.conn.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM companies WHERE handle = %s`, companyColumns, s.db.dialect.Placeholder(1)),
		handle,
	), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("company", "handle", handle)
		}
		return nil, fmt.Errorf("sqlstore: getting company %s: %w", handle, err)
	}

	return &c, nil
}

// Jobs lists the jobs posted by one company, newest first.
func (s *CompanyStore) Jobs(ctx context.Context, handle string) ([]model.CompanyJob, error) {
	st := query.JobsByCompany(s.db.dialect, handle)

	rows, err := s.db.conn.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing jobs of %s: %w", handle, err)
	}
	defer rows.Close()

	jobs := make([]model.CompanyJob, 0)
	for rows.Next() {
		var j model.CompanyJob
		if err := rows.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, scanTime(&j.DatePosted)); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating jobs: %w", err)
	}

	return jobs, nil
}

// Create inserts a company and returns the stored row.
func (s *CompanyStore) Create(ctx context.Context, nc model.NewCompany) (*model.Company, error) {
	var c model.Company

	err := scanCompany(s.db.conn.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO companies (%s) VALUES (%s) RETURNING %s`,
			companyColumns, s.db.placeholders(5), companyColumns),
		nc.Handle, nc.Name, nc.NumEmployees, nc.Description, nc.LogoURL,
	), &c)
	if err != nil {
		return nil, storeError(err, "creating", "company", map[string]string{
			"handle": nc.Handle,
			"name":   nc.Name,
		})
	}

	return &c, nil
}

// Update applies a partial update and returns the updated row.
//
// KEY CONCEPTS:
//   - companyChanges picks the fields the client sent
//   - UpdateBuilder renders "UPDATE companies SET ... RETURNING *" and
//     rejects columns outside the allow-list
//   - sql.ErrNoRows from RETURNING means no company had that handle
func (s *CompanyStore) Update(ctx context.Context, handle string, p model.CompanyPatch) (*model.Company, error) {
	stmt, args, err := s.db.updates.Build("companies", companyChanges(p), "handle", handle)
	if err != nil {
		return nil, builderError(err)
	}

	var c model.Company
	if err := scanCompany(s.db.conn.QueryRowContext(ctx, stmt, args...), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("company", "handle", handle)
		}
		keys := map[string]string{}
		if p.Name != nil {
			keys["name"] = *p.Name
		}
		return nil, storeError(err, "updating", "company", keys)
	}

	return &c, nil
}

// Delete removes a company. Its jobs go with it (ON DELETE CASCADE).
func (s *CompanyStore) Delete(ctx context.Context, handle string) error {
	result, err := s.db.conn.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM companies WHERE handle = %s`, s.db.dialect.Placeholder(1)),
		handle,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting company %s: %w", handle, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("company", "handle", handle)
	}

	return nil
}

// companyChanges lists the fields present in p in a fixed column order.
func companyChanges(p model.CompanyPatch) []query.Set {
	var changes []query.Set
	if p.Name != nil {
		changes = append(changes, query.Set{Column: "name", Value: *p.Name})
	}
	// A set Nullable with a nil Value binds as NULL.
	if p.NumEmployees.Set {
		changes = append(changes, query.Set{Column: "num_employees", Value: p.NumEmployees.Value})
	}
	if p.Description.Set {
		changes = append(changes, query.Set{Column: "description", Value: p.Description.Value})
	}
	if p.LogoURL.Set {
		changes = append(changes, query.Set{Column: "logo_url", Value: p.LogoURL.Value})
	}
	return changes
}
