// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data. The `json:"..."` tags fix the
// wire names (snake_case, as clients expect) and the `validate:"..."` tags are
// read by go-playground/validator at the request boundary.
//
// Nullable columns are pointers: a nil *int serializes as null. PATCH
// payloads wrap them in Nullable, which also tells "not sent" apart from
// "sent as null".
package model

// Company is one row of the companies table.
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	NumEmployees *int    `json:"num_employees"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
}

// CompanySummary is the shape returned by the company search.
type CompanySummary struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

// CompanyDetail is a company together with the jobs that reference it.
type CompanyDetail struct {
	Company
	Jobs []CompanyJob `json:"jobs"`
}

// NewCompany is the POST /companies payload.
type NewCompany struct {
	Handle       string  `json:"handle"        validate:"required,max=25"`
	Name         string  `json:"name"          validate:"required"`
	NumEmployees *int    `json:"num_employees" validate:"omitnil,min=0,max=2147483647"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"      validate:"omitnil,url"`
}

// CompanyPatch is the PATCH /companies/{handle} payload.
// The handle is the key and cannot be changed. Nullable columns accept an
// explicit null, which clears them.
type CompanyPatch struct {
	Name         *string          `json:"name"          validate:"omitnil,min=1"`
	NumEmployees Nullable[int]    `json:"num_employees" validate:"omitnil,min=0,max=2147483647"`
	Description  Nullable[string] `json:"description"`
	LogoURL      Nullable[string] `json:"logo_url"      validate:"omitnil,url"`
}

// IsEmpty reports whether the patch would change nothing.
func (p CompanyPatch) IsEmpty() bool {
	return p.Name == nil && !p.NumEmployees.Set && !p.Description.Set && !p.LogoURL.Set
}

// CompanyFilter holds the optional company search criteria.
// A nil field means "no constraint".
type CompanyFilter struct {
	Search       *string
	MinEmployees *int
	MaxEmployees *int
}
