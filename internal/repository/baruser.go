package repository

import (
	"context"
	"fmt"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository/dao"
)

var (
	ErrBarUserEmailExists = dao.ErrBarUserEmailExists
	ErrBarUserNotFound    = dao.ErrBarUserNotFound
)

type BarUserDAO interface {
	Insert(ctx context.Context, barUser dao.BarUser) (dao.BarUser, error)
	FindActiveByEmailWithBar(ctx context.Context, email string) (dao.BarUserWithBar, error)
	FindByIDWithBar(ctx context.Context, id string) (dao.BarUserWithBar, error)
	FindAllWithBars(ctx context.Context) ([]dao.BarUserWithBar, error)
}

type BarUserRepository struct {
	dao BarUserDAO
}

func NewBarUserRepository(dao BarUserDAO) *BarUserRepository {
	return &BarUserRepository{
		dao: dao,
	}
}

func (r *BarUserRepository) Create(ctx context.Context, barUser domain.BarUser) (domain.BarUser, error) {
	created, err := r.dao.Insert(ctx, dao.BarUser{
		ID:          barUser.ID,
		BarID:       barUser.BarID,
		Email:       barUser.Email,
		Password:    barUser.Password,
		DisplayName: barUser.DisplayName,
		Role:        barUser.Role,
		IsActive:    barUser.IsActive,
	})
	if err != nil {
		return domain.BarUser{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return barUserDAOToDomain(created), nil
}

// FindActiveByEmail resolves a bar-portal login. The joined bar comes back
// alongside the account.
func (r *BarUserRepository) FindActiveByEmail(ctx context.Context, email string) (domain.BarUser, domain.Bar, error) {
	found, err := r.dao.FindActiveByEmailWithBar(ctx, email)
	if err != nil {
		return domain.BarUser{}, domain.Bar{}, fmt.Errorf("r.dao.FindActiveByEmailWithBar -> %w", err)
	}

	barUser := barUserDAOToDomain(found.BarUser)
	barUser.BarName = found.Bar.Name

	return barUser, barDAOToDomain(found.Bar), nil
}

func (r *BarUserRepository) FindByID(ctx context.Context, id string) (domain.BarUser, domain.Bar, error) {
	found, err := r.dao.FindByIDWithBar(ctx, id)
	if err != nil {
		return domain.BarUser{}, domain.Bar{}, fmt.Errorf("r.dao.FindByIDWithBar -> %w", err)
	}

	barUser := barUserDAOToDomain(found.BarUser)
	barUser.BarName = found.Bar.Name

	return barUser, barDAOToDomain(found.Bar), nil
}

func (r *BarUserRepository) FindAll(ctx context.Context) ([]domain.BarUser, error) {
	found, err := r.dao.FindAllWithBars(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllWithBars -> %w", err)
	}

	barUsers := make([]domain.BarUser, 0, len(found))
	for _, row := range found {
		barUser := barUserDAOToDomain(row.BarUser)
		barUser.BarName = row.Bar.Name
		barUsers = append(barUsers, barUser)
	}

	return barUsers, nil
}

func barUserDAOToDomain(bu dao.BarUser) domain.BarUser {
	return domain.BarUser{
		ID:          bu.ID,
		BarID:       bu.BarID,
		Email:       bu.Email,
		Password:    bu.Password,
		DisplayName: bu.DisplayName,
		Role:        bu.Role,
		IsActive:    bu.IsActive,
		CreatedAt:   bu.CreatedAt,
	}
}
