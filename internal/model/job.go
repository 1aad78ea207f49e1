package model

import "time"

// Job is one row of the jobs table. DatePosted is assigned by the store.
type Job struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Salary        float64   `json:"salary"`
	Equity        float64   `json:"equity"`
	CompanyHandle string    `json:"company_handle"`
	DatePosted    time.Time `json:"date_posted"`
}

// JobSummary is the shape returned by the job search.
type JobSummary struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	CompanyHandle string `json:"company_handle"`
}

// CompanyJob is a job as listed under its company.
type CompanyJob struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Salary     float64   `json:"salary"`
	Equity     float64   `json:"equity"`
	DatePosted time.Time `json:"date_posted"`
}

// NewJob is the POST /jobs payload. Salary and equity are pointers so that
// "required" means "present", and an explicit 0 is still accepted.
type NewJob struct {
	Title         string   `json:"title"          validate:"required"`
	Salary        *float64 `json:"salary"         validate:"required,min=0"`
	Equity        *float64 `json:"equity"         validate:"required,min=0,max=1"`
	CompanyHandle string   `json:"company_handle" validate:"required"`
}

// JobPatch is the PATCH /jobs/{id} payload.
type JobPatch struct {
	Title         *string  `json:"title"          validate:"omitnil,min=1"`
	Salary        *float64 `json:"salary"         validate:"omitnil,min=0"`
	Equity        *float64 `json:"equity"         validate:"omitnil,min=0,max=1"`
	CompanyHandle *string  `json:"company_handle" validate:"omitnil,min=1"`
}

func (p JobPatch) IsEmpty() bool {
	return p.Title == nil && p.Salary == nil && p.Equity == nil && p.CompanyHandle == nil
}

// JobFilter holds the optional job search criteria.
type JobFilter struct {
	Search    *string
	MinSalary *float64
	MinEquity *float64
}
