package query

import (
	"fmt"
	"math"

	"github.com/sakif/jobly/internal/model"
)

// NEUTRAL DEFAULTS:
// An absent filter is replaced by a value that matches every row:
//
//	min_employees → 0               max_employees → MaxEmployees
//	min_salary    → 0               min_equity    → 0
//	name/title    → "%%"
//
// so each search is one fixed statement with a fixed parameter count.
// MaxEmployees equals the largest value the num_employees column accepts.
const (
	AnyPattern   = "%%"
	MaxEmployees = math.MaxInt32
)

// Statement is rendered SQL plus its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Pattern wraps a search term for a substring match.
func Pattern(search *string) string {
	if search == nil {
		return AnyPattern
	}
	return "%" + *search + "%"
}

// CompanySearch renders the company search. Companies with an unknown
// size count as size 0, so an unfiltered search returns every row.
func CompanySearch(d Dialect, f model.CompanyFilter) Statement {
	lo, hi := 0, MaxEmployees
	if f.MinEmployees != nil {
		lo = *f.MinEmployees
	}
	if f.MaxEmployees != nil {
		hi = *f.MaxEmployees
	}

	sql := fmt.Sprintf(
		`SELECT handle, name FROM companies
		 WHERE COALESCE(num_employees, 0) >= %[1]s
		   AND COALESCE(num_employees, 0) <= %[2]s
		   AND (%[3]s OR %[4]s)
		 ORDER BY name`,
		d.Placeholder(1), d.Placeholder(2), d.Match("name", d.Placeholder(3)), d.Match("handle", d.Placeholder(3)),
	)

	return Statement{SQL: sql, Args: []any{lo, hi, Pattern(f.Search)}}
}

// JobSearch renders the job search, newest postings first.
func JobSearch(d Dialect, f model.JobFilter) Statement {
	minSalary, minEquity := 0.0, 0.0
	if f.MinSalary != nil {
		minSalary = *f.MinSalary
	}
	if f.MinEquity != nil {
		minEquity = *f.MinEquity
	}

	sql := fmt.Sprintf(
		`SELECT id, title, company_handle FROM jobs
		 WHERE salary >= %[1]s
		   AND equity >= %[2]s
		   AND (%[3]s OR %[4]s)
		 ORDER BY date_posted DESC, id DESC`,
		d.Placeholder(1), d.Placeholder(2), d.Match("title", d.Placeholder(3)), d.Match("company_handle", d.Placeholder(3)),
	)

	return Statement{SQL: sql, Args: []any{minSalary, minEquity, Pattern(f.Search)}}
}

// JobsByCompany lists the jobs that reference one company.
func JobsByCompany(d Dialect, handle string) Statement {
	sql := fmt.Sprintf(
		`SELECT id, title, salary, equity, date_posted FROM jobs
		 WHERE company_handle = %s
		 ORDER BY date_posted DESC, id DESC`,
		d.Placeholder(1),
	)
	return Statement{SQL: sql, Args: []any{handle}}
}
