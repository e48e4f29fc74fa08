package repository

import (
	"context"
	"fmt"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id string) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindAll(ctx context.Context) ([]dao.User, error)
	UpdateFields(ctx context.Context, id string, values map[string]any) (dao.User, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, domainToDAO(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return daoToDomain(found), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	users := make([]domain.User, 0, len(found))
	for _, u := range found {
		users = append(users, daoToDomain(u))
	}

	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (domain.User, error) {
	values := map[string]any{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.Phone != nil {
		values["phone"] = *update.Phone
	}
	if update.Avatar != nil {
		values["avatar"] = *update.Avatar
	}
	if update.DisplayName != nil {
		values["display_name"] = *update.DisplayName
	}
	if update.Gender != nil {
		values["gender"] = *update.Gender
	}

	if len(values) == 0 {
		return r.FindByID(ctx, id)
	}

	updated, err := r.dao.UpdateFields(ctx, id, values)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return daoToDomain(updated), nil
}

func (r *UserRepository) UpdateMembership(ctx context.Context, id string, tier *domain.MembershipTier, expiry any) (domain.User, error) {
	values := map[string]any{}
	if tier != nil {
		values["membership_tier"] = string(*tier)
	}
	if expiry != nil {
		values["membership_expiry"] = expiry
	}

	if len(values) == 0 {
		return r.FindByID(ctx, id)
	}

	updated, err := r.dao.UpdateFields(ctx, id, values)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return daoToDomain(updated), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:               u.ID,
		Email:            u.Email,
		Password:         u.Password,
		Name:             u.Name,
		Phone:            u.Phone,
		Avatar:           u.Avatar,
		DisplayName:      u.DisplayName,
		Gender:           u.Gender,
		Age:              u.Age,
		HeightCm:         u.HeightCm,
		DrinkCapacity:    u.DrinkCapacity,
		MembershipTier:   domain.MembershipTier(u.MembershipTier),
		MembershipExpiry: u.MembershipExpiry,
		JoinedAt:         u.JoinedAt,
		TotalSpent:       u.TotalSpent,
		TotalVisits:      u.TotalVisits,
	}
}

func domainToDAO(u domain.User) dao.User {
	return dao.User{
		ID:               u.ID,
		Email:            u.Email,
		Password:         u.Password,
		Name:             u.Name,
		Phone:            u.Phone,
		Avatar:           u.Avatar,
		DisplayName:      u.DisplayName,
		Gender:           u.Gender,
		Age:              u.Age,
		HeightCm:         u.HeightCm,
		DrinkCapacity:    u.DrinkCapacity,
		MembershipTier:   string(u.MembershipTier),
		MembershipExpiry: u.MembershipExpiry,
		JoinedAt:         u.JoinedAt,
		TotalSpent:       u.TotalSpent,
		TotalVisits:      u.TotalVisits,
	}
}
