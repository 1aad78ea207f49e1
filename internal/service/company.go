// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take repository interfaces, not *sqlstore.DB, so tests inject
// in-memory fakes and the store can be SQLite or PostgreSQL. Services return
// apperror kinds and never know about HTTP status codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/repository"
)

// CompanyService handles business logic for companies.
type CompanyService struct {
	repo   repository.CompanyRepository
	logger *slog.Logger
}

func NewCompanyService(repo repository.CompanyRepository, logger *slog.Logger) *CompanyService {
	return &CompanyService{
		repo:   repo,
		logger: logger,
	}
}

// List searches companies. An inverted employee range is rejected before
// any query runs.
func (s *CompanyService) List(ctx context.Context, f model.CompanyFilter) ([]model.CompanySummary, error) {
	if f.MinEmployees != nil && f.MaxEmployees != nil && *f.MinEmployees > *f.MaxEmployees {
		return nil, apperror.ValidationFailed("min_employees", "Incorrect Parameters")
	}

	companies, err := s.repo.Search(ctx, f)
	if err != nil {
		s.logger.Error("failed to search companies", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing companies: %w", err)
	}

	return companies, nil
}

// Get returns the company with its jobs.
// Returns apperror.ErrNotFound if no company has that handle.
func (s *CompanyService) Get(ctx context.Context, handle string) (*model.CompanyDetail, error) {
	company, err := s.repo.Get(ctx, handle)
	if err != nil {
		return nil, err
	}

	jobs, err := s.repo.Jobs(ctx, handle)
	if err != nil {
		s.logger.Error("failed to list company jobs",
			slog.String("handle", handle),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("getting company %s: %w", handle, err)
	}

	return &model.CompanyDetail{Company: *company, Jobs: jobs}, nil
}

func (s *CompanyService) Create(ctx context.Context, nc model.NewCompany) (*model.Company, error) {
	nc.Handle = strings.TrimSpace(nc.Handle)
	nc.Name = strings.TrimSpace(nc.Name)
	if nc.Handle == "" {
		return nil, apperror.ValidationFailed("handle", "handle is required")
	}
	if nc.Name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}

	company, err := s.repo.Create(ctx, nc)
	if err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}

	s.logger.Info("company created", slog.String("handle", company.Handle))
	return company, nil
}

// Update applies a partial update. An empty patch is a validation error.
func (s *CompanyService) Update(ctx context.Context, handle string, p model.CompanyPatch) (*model.Company, error) {
	if p.IsEmpty() {
		return nil, apperror.ValidationFailed("", "no fields to update")
	}

	company, err := s.repo.Update(ctx, handle, p)
	if err != nil {
		return nil, fmt.Errorf("updating company: %w", err)
	}

	s.logger.Info("company updated", slog.String("handle", handle))
	return company, nil
}

func (s *CompanyService) Delete(ctx context.Context, handle string) error {
	if err := s.repo.Delete(ctx, handle); err != nil {
		return err
	}

	s.logger.Info("company deleted", slog.String("handle", handle))
	return nil
}
