package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository/dao"
)

var (
	ErrPassNotFound         = dao.ErrPassNotFound
	ErrPassAlreadyCollected = dao.ErrPassAlreadyCollected
)

type PassDAO interface {
	InsertWithTotals(ctx context.Context, pass dao.Pass) (dao.Pass, error)
	FindByUserID(ctx context.Context, userID string) ([]dao.Pass, error)
	FindActiveByUserID(ctx context.Context, userID string, now time.Time) ([]dao.Pass, error)
	FindByID(ctx context.Context, id string) (dao.Pass, error)
	FindAllWithUsers(ctx context.Context) ([]dao.PassWithUser, error)
	FindForBarByCode(ctx context.Context, barID, code string) (dao.PassWithUser, error)
	FindForBarToday(ctx context.Context, barID string, now time.Time) ([]dao.PassWithUser, error)
	FindForBarHistory(ctx context.Context, barID string, filter dao.BarHistoryFilter, limit int) ([]dao.PassWithUser, error)
	Collect(ctx context.Context, barID, passID, barUserID string, now time.Time) (dao.Pass, error)
	Revoke(ctx context.Context, id string) error
}

// BarHistoryFilter narrows the bar portal's payment history listing.
type BarHistoryFilter = dao.BarHistoryFilter

type PassRepository struct {
	dao PassDAO
}

func NewPassRepository(dao PassDAO) *PassRepository {
	return &PassRepository{
		dao: dao,
	}
}

func (r *PassRepository) CreateWithTotals(ctx context.Context, pass domain.Pass) (domain.Pass, error) {
	created, err := r.dao.InsertWithTotals(ctx, passDomainToDAO(pass))
	if err != nil {
		return domain.Pass{}, fmt.Errorf("r.dao.InsertWithTotals -> %w", err)
	}

	return passDAOToDomain(created), nil
}

func (r *PassRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Pass, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return passesDAOToDomain(found), nil
}

func (r *PassRepository) FindActiveByUserID(ctx context.Context, userID string, now time.Time) ([]domain.Pass, error) {
	found, err := r.dao.FindActiveByUserID(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveByUserID -> %w", err)
	}

	return passesDAOToDomain(found), nil
}

func (r *PassRepository) FindByID(ctx context.Context, id string) (domain.Pass, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Pass{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return passDAOToDomain(found), nil
}

func (r *PassRepository) FindAllWithUsers(ctx context.Context) ([]domain.Pass, error) {
	found, err := r.dao.FindAllWithUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllWithUsers -> %w", err)
	}

	passes := make([]domain.Pass, 0, len(found))
	for _, p := range found {
		passes = append(passes, passWithUserDAOToDomain(p))
	}

	return passes, nil
}

func (r *PassRepository) FindForBarByCode(ctx context.Context, barID, code string) (domain.Pass, error) {
	found, err := r.dao.FindForBarByCode(ctx, barID, code)
	if err != nil {
		return domain.Pass{}, fmt.Errorf("r.dao.FindForBarByCode -> %w", err)
	}

	return passWithUserDAOToDomain(found), nil
}

func (r *PassRepository) FindForBarToday(ctx context.Context, barID string, now time.Time) ([]domain.Pass, error) {
	found, err := r.dao.FindForBarToday(ctx, barID, now)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindForBarToday -> %w", err)
	}

	passes := make([]domain.Pass, 0, len(found))
	for _, p := range found {
		passes = append(passes, passWithUserDAOToDomain(p))
	}

	return passes, nil
}

func (r *PassRepository) FindForBarHistory(ctx context.Context, barID string, filter BarHistoryFilter, limit int) ([]domain.Pass, error) {
	found, err := r.dao.FindForBarHistory(ctx, barID, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindForBarHistory -> %w", err)
	}

	passes := make([]domain.Pass, 0, len(found))
	for _, p := range found {
		passes = append(passes, passWithUserDAOToDomain(p))
	}

	return passes, nil
}

func (r *PassRepository) Collect(ctx context.Context, barID, passID, barUserID string, now time.Time) (domain.Pass, error) {
	collected, err := r.dao.Collect(ctx, barID, passID, barUserID, now)
	if err != nil {
		// The already-collected case still carries the row so the portal
		// can show who collected it and when.
		return passDAOToDomain(collected), fmt.Errorf("r.dao.Collect -> %w", err)
	}

	return passDAOToDomain(collected), nil
}

func (r *PassRepository) Revoke(ctx context.Context, id string) error {
	if err := r.dao.Revoke(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Revoke -> %w", err)
	}

	return nil
}

func passDAOToDomain(p dao.Pass) domain.Pass {
	return domain.Pass{
		ID:            p.ID,
		UserID:        p.UserID,
		BarID:         p.BarID,
		BarName:       p.BarName,
		PersonCount:   p.PersonCount,
		TotalPrice:    p.TotalPrice,
		PlatformFee:   p.PlatformFee,
		BarPayment:    p.BarPayment,
		PurchaseTime:  p.PurchaseTime,
		ExpiryTime:    p.ExpiryTime,
		QRCode:        p.QRCode,
		IsActive:      p.IsActive,
		TransactionID: p.TransactionID,
		PaymentMethod: p.PaymentMethod,
		CollectedAt:   p.CollectedAt,
		CollectedBy:   p.CollectedBy,
	}
}

func passWithUserDAOToDomain(p dao.PassWithUser) domain.Pass {
	pass := passDAOToDomain(p.Pass)
	pass.UserName = p.UserName
	pass.UserEmail = p.UserEmail
	pass.UserPhone = p.UserPhone

	return pass
}

func passDomainToDAO(p domain.Pass) dao.Pass {
	return dao.Pass{
		ID:            p.ID,
		UserID:        p.UserID,
		BarID:         p.BarID,
		BarName:       p.BarName,
		PersonCount:   p.PersonCount,
		TotalPrice:    p.TotalPrice,
		PlatformFee:   p.PlatformFee,
		BarPayment:    p.BarPayment,
		PurchaseTime:  p.PurchaseTime,
		ExpiryTime:    p.ExpiryTime,
		QRCode:        p.QRCode,
		IsActive:      p.IsActive,
		TransactionID: p.TransactionID,
		PaymentMethod: p.PaymentMethod,
		CollectedAt:   p.CollectedAt,
		CollectedBy:   p.CollectedBy,
	}
}

func passesDAOToDomain(passes []dao.Pass) []domain.Pass {
	out := make([]domain.Pass, 0, len(passes))
	for _, p := range passes {
		out = append(out, passDAOToDomain(p))
	}

	return out
}
