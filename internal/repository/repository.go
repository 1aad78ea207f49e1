// Package repository declares the storage contracts the service layer
// depends on. Implementations live in subpackages (see sqlstore).
//
// Every Get, Update and Delete returns an error wrapping apperror.ErrNotFound
// when the key matches no row.
package repository

import (
	"context"

	"github.com/sakif/jobly/internal/model"
)

type CompanyRepository interface {
	Search(ctx context.Context, f model.CompanyFilter) ([]model.CompanySummary, error)
	Get(ctx context.Context, handle string) (*model.Company, error)
	Jobs(ctx context.Context, handle string) ([]model.CompanyJob, error)
	Create(ctx context.Context, c model.NewCompany) (*model.Company, error)
	Update(ctx context.Context, handle string, p model.CompanyPatch) (*model.Company, error)
	Delete(ctx context.Context, handle string) error
}

type JobRepository interface {
	Search(ctx context.Context, f model.JobFilter) ([]model.JobSummary, error)
	Get(ctx context.Context, id int64) (*model.Job, error)
	Create(ctx context.Context, j model.NewJob) (*model.Job, error)
	Update(ctx context.Context, id int64, p model.JobPatch) (*model.Job, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository stores accounts. Passwords arrive already hashed.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, u model.User) (*model.User, error)
	Update(ctx context.Context, username string, p model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, username string) error
}
