package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository"
)

var ErrBarUserNotFound = repository.ErrBarUserNotFound

type BarPortalBarUserRepository interface {
	FindActiveByEmail(ctx context.Context, email string) (domain.BarUser, domain.Bar, error)
	FindByID(ctx context.Context, id string) (domain.BarUser, domain.Bar, error)
}

type BarPortalPassRepository interface {
	FindForBarByCode(ctx context.Context, barID, code string) (domain.Pass, error)
	FindForBarToday(ctx context.Context, barID string, now time.Time) ([]domain.Pass, error)
	FindForBarHistory(ctx context.Context, barID string, filter repository.BarHistoryFilter, limit int) ([]domain.Pass, error)
	Collect(ctx context.Context, barID, passID, barUserID string, now time.Time) (domain.Pass, error)
}

type BarPortalBarRepository interface {
	Update(ctx context.Context, id string, update domain.BarUpdate) (domain.Bar, error)
}

// VerifyResult is what a QR scan reports back to the portal. The pass row
// is included even when invalid so staff can see why.
type VerifyResult struct {
	Valid     bool
	IsExpired bool
	Pass      domain.Pass
}

// HistoryFilter narrows the payment history listing.
type HistoryFilter = repository.BarHistoryFilter

type BarPortalService struct {
	barUserRepo BarPortalBarUserRepository
	passRepo    BarPortalPassRepository
	barRepo     BarPortalBarRepository
}

func NewBarPortalService(barUserRepo BarPortalBarUserRepository, passRepo BarPortalPassRepository, barRepo BarPortalBarRepository) *BarPortalService {
	return &BarPortalService{
		barUserRepo: barUserRepo,
		passRepo:    passRepo,
		barRepo:     barRepo,
	}
}

// Login authenticates active bar staff only.
func (s *BarPortalService) Login(ctx context.Context, email, password string) (domain.BarUser, domain.Bar, error) {
	barUser, bar, err := s.barUserRepo.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrBarUserNotFound) {
			return domain.BarUser{}, domain.Bar{}, ErrBarUserNotFound
		}

		return domain.BarUser{}, domain.Bar{}, fmt.Errorf("s.barUserRepo.FindActiveByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(barUser.Password), []byte(password)); err != nil {
		return domain.BarUser{}, domain.Bar{}, ErrWrongPassword
	}

	return barUser, bar, nil
}

func (s *BarPortalService) Me(ctx context.Context, barUserID string) (domain.BarUser, domain.Bar, error) {
	barUser, bar, err := s.barUserRepo.FindByID(ctx, barUserID)
	if err != nil {
		return domain.BarUser{}, domain.Bar{}, fmt.Errorf("s.barUserRepo.FindByID -> %w", err)
	}

	return barUser, bar, nil
}

func (s *BarPortalService) PassesToday(ctx context.Context, barID string) ([]domain.Pass, error) {
	passes, err := s.passRepo.FindForBarToday(ctx, barID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("s.passRepo.FindForBarToday -> %w", err)
	}

	return passes, nil
}

// VerifyPass resolves a scanned code against the bar's own passes without
// mutating anything.
func (s *BarPortalService) VerifyPass(ctx context.Context, barID, code string) (VerifyResult, error) {
	pass, err := s.passRepo.FindForBarByCode(ctx, barID, code)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("s.passRepo.FindForBarByCode -> %w", err)
	}

	now := time.Now()

	return VerifyResult{
		Valid:     pass.Valid(now),
		IsExpired: !now.Before(pass.ExpiryTime),
		Pass:      pass,
	}, nil
}

// CollectPass marks a pass as redeemed, once. A second collection attempt
// reports the existing redemption rather than re-crediting.
func (s *BarPortalService) CollectPass(ctx context.Context, barID, passID, barUserID string) (domain.Pass, error) {
	pass, err := s.passRepo.Collect(ctx, barID, passID, barUserID, time.Now())
	if err != nil {
		return pass, fmt.Errorf("s.passRepo.Collect -> %w", err)
	}

	return pass, nil
}

func (s *BarPortalService) PaymentHistory(ctx context.Context, barID string, filter HistoryFilter, limit int) ([]domain.Pass, error) {
	passes, err := s.passRepo.FindForBarHistory(ctx, barID, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("s.passRepo.FindForBarHistory -> %w", err)
	}

	return passes, nil
}

// UpdateOwnBar lets staff edit their bar's listing.
func (s *BarPortalService) UpdateOwnBar(ctx context.Context, barID string, update domain.BarUpdate) (domain.Bar, error) {
	bar, err := s.barRepo.Update(ctx, barID, update)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("s.barRepo.Update -> %w", err)
	}

	return bar, nil
}
