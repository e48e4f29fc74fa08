package repository

import (
	"context"
	"fmt"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository/dao"
)

var ErrBarNotFound = dao.ErrBarNotFound

type BarDAO interface {
	Insert(ctx context.Context, bar dao.Bar) (dao.Bar, error)
	FindAll(ctx context.Context) ([]dao.Bar, error)
	FindFeatured(ctx context.Context) ([]dao.Bar, error)
	FindByID(ctx context.Context, id string) (dao.Bar, error)
	FindIDs(ctx context.Context, limit int) ([]string, error)
	UpdateFields(ctx context.Context, id string, values map[string]any) (dao.Bar, error)
	Delete(ctx context.Context, id string) error
	ToggleFeatured(ctx context.Context, id string) (dao.Bar, error)
}

type BarRepository struct {
	dao BarDAO
}

func NewBarRepository(dao BarDAO) *BarRepository {
	return &BarRepository{
		dao: dao,
	}
}

func (r *BarRepository) Create(ctx context.Context, bar domain.Bar) (domain.Bar, error) {
	created, err := r.dao.Insert(ctx, barDomainToDAO(bar))
	if err != nil {
		return domain.Bar{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return barDAOToDomain(created), nil
}

func (r *BarRepository) FindAll(ctx context.Context) ([]domain.Bar, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return barsDAOToDomain(found), nil
}

func (r *BarRepository) FindFeatured(ctx context.Context) ([]domain.Bar, error) {
	found, err := r.dao.FindFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindFeatured -> %w", err)
	}

	return barsDAOToDomain(found), nil
}

func (r *BarRepository) FindByID(ctx context.Context, id string) (domain.Bar, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return barDAOToDomain(found), nil
}

func (r *BarRepository) FindIDs(ctx context.Context, limit int) ([]string, error) {
	ids, err := r.dao.FindIDs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindIDs -> %w", err)
	}

	return ids, nil
}

func (r *BarRepository) Update(ctx context.Context, id string, update domain.BarUpdate) (domain.Bar, error) {
	values := map[string]any{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.NameEn != nil {
		values["name_en"] = *update.NameEn
	}
	if update.DistrictID != nil {
		values["district_id"] = *update.DistrictID
	}
	if update.Address != nil {
		values["address"] = *update.Address
	}
	if update.Image != nil {
		values["image"] = *update.Image
	}
	if update.Rating != nil {
		values["rating"] = *update.Rating
	}
	if update.Drinks != nil {
		values["drinks"] = dao.StringList(update.Drinks)
	}

	if len(values) == 0 {
		return r.FindByID(ctx, id)
	}

	updated, err := r.dao.UpdateFields(ctx, id, values)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return barDAOToDomain(updated), nil
}

func (r *BarRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *BarRepository) ToggleFeatured(ctx context.Context, id string) (domain.Bar, error) {
	toggled, err := r.dao.ToggleFeatured(ctx, id)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("r.dao.ToggleFeatured -> %w", err)
	}

	return barDAOToDomain(toggled), nil
}

func barDAOToDomain(b dao.Bar) domain.Bar {
	return domain.Bar{
		ID:         b.ID,
		Name:       b.Name,
		NameEn:     b.NameEn,
		DistrictID: b.DistrictID,
		Address:    b.Address,
		Image:      b.Image,
		Rating:     b.Rating,
		Drinks:     b.Drinks,
		IsFeatured: b.IsFeatured,
	}
}

func barDomainToDAO(b domain.Bar) dao.Bar {
	return dao.Bar{
		ID:         b.ID,
		Name:       b.Name,
		NameEn:     b.NameEn,
		DistrictID: b.DistrictID,
		Address:    b.Address,
		Image:      b.Image,
		Rating:     b.Rating,
		Drinks:     dao.StringList(b.Drinks),
		IsFeatured: b.IsFeatured,
	}
}

func barsDAOToDomain(bars []dao.Bar) []domain.Bar {
	out := make([]domain.Bar, 0, len(bars))
	for _, b := range bars {
		out = append(out, barDAOToDomain(b))
	}

	return out
}
