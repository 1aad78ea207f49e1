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

// JobService handles business logic for job postings.
type JobService struct {
	repo   repository.JobRepository
	logger *slog.Logger
}

func NewJobService(repo repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{
		repo:   repo,
		logger: logger,
	}
}

func (s *JobService) List(ctx context.Context, f model.JobFilter) ([]model.JobSummary, error) {
	jobs, err := s.repo.Search(ctx, f)
	if err != nil {
		s.logger.Error("failed to search jobs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobService) Get(ctx context.Context, id int64) (*model.Job, error) {
	return s.repo.Get(ctx, id)
}

// Create posts a job for an existing company.
//
// VALIDATION SPLIT:
// The handler has already checked types and ranges (salary >= 0,
// 0 <= equity <= 1). This layer checks what a struct tag cannot: a title
// made only of spaces. The company's existence is left to the foreign key,
// which the store reports as a validation error.
func (s *JobService) Create(ctx context.Context, nj model.NewJob) (*model.Job, error) {
	nj.Title = strings.TrimSpace(nj.Title)
	if nj.Title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}

	job, err := s.repo.Create(ctx, nj)
	if err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	s.logger.Info("job created",
		slog.Int64("id", job.ID),
		slog.String("company", job.CompanyHandle),
	)
	return job, nil
}

// Update applies a partial update. id and company_handle are not patchable.
func (s *JobService) Update(ctx context.Context, id int64, p model.JobPatch) (*model.Job, error) {
	if p.IsEmpty() {
		return nil, apperror.ValidationFailed("", "no fields to update")
	}

	job, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("updating job: %w", err)
	}

	s.logger.Info("job updated", slog.Int64("id", id))
	return job, nil
}

func (s *JobService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("job deleted", slog.Int64("id", id))
	return nil
}
