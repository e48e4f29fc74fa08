package service

import (
	"context"
	"fmt"
	"time"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository"
)

var (
	ErrBarUserEmailExists = repository.ErrBarUserEmailExists
	ErrSettingsNotFound   = repository.ErrSettingsNotFound
)

type AdminUserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	UpdateMembership(ctx context.Context, id string, tier *domain.MembershipTier, expiry any) (domain.User, error)
	Delete(ctx context.Context, id string) error
}

type AdminPassRepository interface {
	FindAllWithUsers(ctx context.Context) ([]domain.Pass, error)
	Revoke(ctx context.Context, id string) error
}

type AdminBarRepository interface {
	FindByID(ctx context.Context, id string) (domain.Bar, error)
}

type AdminBarUserRepository interface {
	Create(ctx context.Context, barUser domain.BarUser) (domain.BarUser, error)
	FindAll(ctx context.Context) ([]domain.BarUser, error)
}

type AdminSettingsRepository interface {
	FindPaymentSettings(ctx context.Context) (domain.PaymentSettings, error)
	UpdatePaymentSettings(ctx context.Context, update domain.PaymentSettingsUpdate) (domain.PaymentSettings, error)
	FindAdSettings(ctx context.Context) (domain.AdSettings, error)
	SaveAdSettings(ctx context.Context, settings domain.AdSettings) (domain.AdSettings, error)
}

type AdminService struct {
	userRepo     AdminUserRepository
	passRepo     AdminPassRepository
	barRepo      AdminBarRepository
	barUserRepo  AdminBarUserRepository
	settingsRepo AdminSettingsRepository
}

func NewAdminService(
	userRepo AdminUserRepository,
	passRepo AdminPassRepository,
	barRepo AdminBarRepository,
	barUserRepo AdminBarUserRepository,
	settingsRepo AdminSettingsRepository,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		passRepo:     passRepo,
		barRepo:      barRepo,
		barUserRepo:  barUserRepo,
		settingsRepo: settingsRepo,
	}
}

func (s *AdminService) ListMembers(ctx context.Context) ([]domain.User, error) {
	members, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.userRepo.FindAll -> %w", err)
	}

	return members, nil
}

// UpdateMember edits a member's tier and expiry. Nil leaves a field alone.
func (s *AdminService) UpdateMember(ctx context.Context, id string, tier *domain.MembershipTier, expiry *time.Time) (domain.User, error) {
	var expiryValue any
	if expiry != nil {
		expiryValue = *expiry
	}

	member, err := s.userRepo.UpdateMembership(ctx, id, tier, expiryValue)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.userRepo.UpdateMembership -> %w", err)
	}

	return member, nil
}

func (s *AdminService) DeleteMember(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.userRepo.Delete -> %w", err)
	}

	return nil
}

func (s *AdminService) ListPasses(ctx context.Context) ([]domain.Pass, error) {
	passes, err := s.passRepo.FindAllWithUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.passRepo.FindAllWithUsers -> %w", err)
	}

	return passes, nil
}

// RevokePass deactivates a pass for good.
func (s *AdminService) RevokePass(ctx context.Context, id string) error {
	if err := s.passRepo.Revoke(ctx, id); err != nil {
		return fmt.Errorf("s.passRepo.Revoke -> %w", err)
	}

	return nil
}

func (s *AdminService) GetPaymentSettings(ctx context.Context) (domain.PaymentSettings, error) {
	settings, err := s.settingsRepo.FindPaymentSettings(ctx)
	if err != nil {
		return domain.PaymentSettings{}, fmt.Errorf("s.settingsRepo.FindPaymentSettings -> %w", err)
	}

	return settings, nil
}

func (s *AdminService) UpdatePaymentSettings(ctx context.Context, update domain.PaymentSettingsUpdate) (domain.PaymentSettings, error) {
	settings, err := s.settingsRepo.UpdatePaymentSettings(ctx, update)
	if err != nil {
		return domain.PaymentSettings{}, fmt.Errorf("s.settingsRepo.UpdatePaymentSettings -> %w", err)
	}

	return settings, nil
}

func (s *AdminService) GetAdSettings(ctx context.Context) (domain.AdSettings, error) {
	settings, err := s.settingsRepo.FindAdSettings(ctx)
	if err != nil {
		return domain.AdSettings{}, fmt.Errorf("s.settingsRepo.FindAdSettings -> %w", err)
	}

	return settings, nil
}

func (s *AdminService) SaveAdSettings(ctx context.Context, settings domain.AdSettings) (domain.AdSettings, error) {
	saved, err := s.settingsRepo.SaveAdSettings(ctx, settings)
	if err != nil {
		return domain.AdSettings{}, fmt.Errorf("s.settingsRepo.SaveAdSettings -> %w", err)
	}

	return saved, nil
}

// CreateBarUser provisions a bar-portal account. The bar must exist first.
func (s *AdminService) CreateBarUser(ctx context.Context, barUser domain.BarUser) (domain.BarUser, error) {
	bar, err := s.barRepo.FindByID(ctx, barUser.BarID)
	if err != nil {
		return domain.BarUser{}, fmt.Errorf("s.barRepo.FindByID -> %w", err)
	}

	hashedPassword, err := hashPassword(barUser.Password)
	if err != nil {
		return domain.BarUser{}, err
	}

	barUser.ID = newID("baruser")
	barUser.Password = hashedPassword
	barUser.IsActive = true

	created, err := s.barUserRepo.Create(ctx, barUser)
	if err != nil {
		return domain.BarUser{}, fmt.Errorf("s.barUserRepo.Create -> %w", err)
	}
	created.BarName = bar.Name

	return created, nil
}

func (s *AdminService) ListBarUsers(ctx context.Context) ([]domain.BarUser, error) {
	barUsers, err := s.barUserRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.barUserRepo.FindAll -> %w", err)
	}

	return barUsers, nil
}
