package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/query"
	"github.com/sakif/jobly/internal/repository"
)

var _ repository.JobRepository = (*JobStore)(nil)

// JobStore reads and writes the jobs table.
type JobStore struct {
	db *DB
}

// Same order as the table definition, so it also matches RETURNING *.
const jobColumns = "id, title, salary, equity, company_handle, date_posted"

func scanJob(row interface{ Scan(...any) error }, j *model.Job) error {
	return row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle, scanTime(&j.DatePosted))
}

func (s *JobStore) Search(ctx context.Context, f model.JobFilter) ([]model.JobSummary, error) {
	st := query.JobSearch(s.db.dialect, f)

	rows, err := s.db.conn.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: searching jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.JobSummary, 0)
	for rows.Next() {
		var j model.JobSummary
		if err := rows.Scan(&j.ID, &j.Title, &j.CompanyHandle); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating jobs: %w", err)
	}

	return jobs, nil
}

func (s *JobStore) Get(ctx context.Context, id int64) (*model.Job, error) {
	var j model.Job

	err := scanJob(s.db.conn.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs WHERE id = %s`, jobColumns, s.db.dialect.Placeholder(1)),
		id,
	), &j)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("job", "id", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlstore: getting job %d: %w", id, err)
	}

	return &j, nil
}

// Create inserts a job. The id is generated by the database and
// date_posted is stamped here, in UTC.
func (s *JobStore) Create(ctx context.Context, nj model.NewJob) (*model.Job, error) {
	var salary, equity float64
	if nj.Salary != nil {
		salary = *nj.Salary
	}
	if nj.Equity != nil {
		equity = *nj.Equity
	}
	// Microsecond precision is what PostgreSQL keeps.
	posted := time.Now().UTC().Truncate(time.Microsecond)

	var j model.Job
	err := scanJob(s.db.conn.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO jobs (title, salary, equity, company_handle, date_posted)
		 VALUES (%s) RETURNING %s`, s.db.placeholders(5), jobColumns),
		nj.Title, salary, equity, nj.CompanyHandle, posted,
	), &j)
	if err != nil {
		return nil, jobError(err, "creating", nj.CompanyHandle)
	}

	return &j, nil
}

// Update applies a partial update. Same flow as CompanyStore.Update, with the
// numeric id as key.
func (s *JobStore) Update(ctx context.Context, id int64, p model.JobPatch) (*model.Job, error) {
	stmt, args, err := s.db.updates.Build("jobs", jobChanges(p), "id", id)
	if err != nil {
		return nil, builderError(err)
	}

	var j model.Job
	if err := scanJob(s.db.conn.QueryRowContext(ctx, stmt, args...), &j); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("job", "id", strconv.FormatInt(id, 10))
		}
		handle := ""
		if p.CompanyHandle != nil {
			handle = *p.CompanyHandle
		}
		return nil, jobError(err, "updating", handle)
	}

	return &j, nil
}

func (s *JobStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.conn.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM jobs WHERE id = %s`, s.db.dialect.Placeholder(1)),
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting job %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("job", "id", strconv.FormatInt(id, 10))
	}

	return nil
}

// jobError names the missing company when the foreign key fails.
func jobError(err error, op, handle string) error {
	if kind, _ := classify(err); kind == foreignKeyViolation {
		return apperror.ValidationFailed("company_handle",
			fmt.Sprintf("company_handle %s does not match any company", handle))
	}
	return storeError(err, op, "job", nil)
}

func jobChanges(p model.JobPatch) []query.Set {
	var changes []query.Set
	if p.Title != nil {
		changes = append(changes, query.Set{Column: "title", Value: *p.Title})
	}
	if p.Salary != nil {
		changes = append(changes, query.Set{Column: "salary", Value: *p.Salary})
	}
	if p.Equity != nil {
		changes = append(changes, query.Set{Column: "equity", Value: *p.Equity})
	}
	if p.CompanyHandle != nil {
		changes = append(changes, query.Set{Column: "company_handle", Value: *p.CompanyHandle})
	}
	return changes
}
