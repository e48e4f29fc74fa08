package service

import (
	"context"
	"fmt"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository"
)

var ErrBarNotFound = repository.ErrBarNotFound

type BarRepository interface {
	Create(ctx context.Context, bar domain.Bar) (domain.Bar, error)
	FindAll(ctx context.Context) ([]domain.Bar, error)
	FindFeatured(ctx context.Context) ([]domain.Bar, error)
	FindByID(ctx context.Context, id string) (domain.Bar, error)
	Update(ctx context.Context, id string, update domain.BarUpdate) (domain.Bar, error)
	Delete(ctx context.Context, id string) error
	ToggleFeatured(ctx context.Context, id string) (domain.Bar, error)
}

type BarService struct {
	repo BarRepository
}

func NewBarService(repo BarRepository) *BarService {
	return &BarService{
		repo: repo,
	}
}

func (s *BarService) ListBars(ctx context.Context) ([]domain.Bar, error) {
	bars, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return bars, nil
}

func (s *BarService) ListFeaturedBars(ctx context.Context) ([]domain.Bar, error) {
	bars, err := s.repo.FindFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindFeatured -> %w", err)
	}

	return bars, nil
}

func (s *BarService) GetBar(ctx context.Context, id string) (domain.Bar, error) {
	bar, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return bar, nil
}

func (s *BarService) CreateBar(ctx context.Context, bar domain.Bar) (domain.Bar, error) {
	if bar.ID == "" {
		bar.ID = newID("bar")
	}

	created, err := s.repo.Create(ctx, bar)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *BarService) UpdateBar(ctx context.Context, id string, update domain.BarUpdate) (domain.Bar, error) {
	bar, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return bar, nil
}

func (s *BarService) DeleteBar(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *BarService) ToggleFeatured(ctx context.Context, id string) (domain.Bar, error) {
	bar, err := s.repo.ToggleFeatured(ctx, id)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("s.repo.ToggleFeatured -> %w", err)
	}

	return bar, nil
}
