package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository"
)

var (
	ErrPassNotFound         = repository.ErrPassNotFound
	ErrPassAlreadyCollected = repository.ErrPassAlreadyCollected
)

const qrImageSize = 256

type PassRepository interface {
	CreateWithTotals(ctx context.Context, pass domain.Pass) (domain.Pass, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Pass, error)
	FindActiveByUserID(ctx context.Context, userID string, now time.Time) ([]domain.Pass, error)
	FindByID(ctx context.Context, id string) (domain.Pass, error)
}

type PassUserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

type PassBarRepository interface {
	FindByID(ctx context.Context, id string) (domain.Bar, error)
}

type PassSettingsRepository interface {
	FindPaymentSettings(ctx context.Context) (domain.PaymentSettings, error)
}

// PurchaseInput is what the buyer controls; everything else about the pass
// is computed server-side.
type PurchaseInput struct {
	UserID        string
	BarID         string
	PersonCount   int
	TotalPrice    float64
	TransactionID string
	PaymentMethod string
}

type PassService struct {
	repo         PassRepository
	userRepo     PassUserRepository
	barRepo      PassBarRepository
	settingsRepo PassSettingsRepository
}

func NewPassService(repo PassRepository, userRepo PassUserRepository, barRepo PassBarRepository, settingsRepo PassSettingsRepository) *PassService {
	return &PassService{
		repo:         repo,
		userRepo:     userRepo,
		barRepo:      barRepo,
		settingsRepo: settingsRepo,
	}
}

// Purchase creates a pass for the buyer. The price split between platform
// fee and bar payment follows the configured fee percentage, expiry follows
// the configured validity window, and the returned pass carries a base64
// PNG of its QR code. The insert and the buyer's running totals commit
// together or not at all.
func (s *PassService) Purchase(ctx context.Context, input PurchaseInput) (domain.Pass, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return domain.Pass{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	bar, err := s.barRepo.FindByID(ctx, input.BarID)
	if err != nil {
		return domain.Pass{}, fmt.Errorf("s.barRepo.FindByID -> %w", err)
	}

	settings, err := s.settingsRepo.FindPaymentSettings(ctx)
	if err != nil {
		return domain.Pass{}, fmt.Errorf("s.settingsRepo.FindPaymentSettings -> %w", err)
	}

	now := time.Now()
	platformFee := input.TotalPrice * settings.PlatformFeePercentage
	pass := domain.Pass{
		ID:            newID("pass"),
		UserID:        user.ID,
		BarID:         bar.ID,
		BarName:       bar.Name,
		PersonCount:   input.PersonCount,
		TotalPrice:    input.TotalPrice,
		PlatformFee:   platformFee,
		BarPayment:    input.TotalPrice - platformFee,
		PurchaseTime:  now,
		ExpiryTime:    now.AddDate(0, 0, settings.PassValidDays),
		IsActive:      true,
		TransactionID: input.TransactionID,
		PaymentMethod: input.PaymentMethod,
	}

	payload := domain.QRPayload{
		Type:          domain.QRPayloadType,
		PassID:        pass.ID,
		BarID:         pass.BarID,
		BarName:       pass.BarName,
		PersonCount:   pass.PersonCount,
		BarPayment:    pass.BarPayment,
		UserName:      user.Name,
		UserPhone:     user.Phone,
		Expiry:        pass.ExpiryTime.Format(time.RFC3339),
		TransactionID: pass.TransactionID,
		PaymentMethod: pass.PaymentMethod,
		Code:          redeemCode(9),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return domain.Pass{}, fmt.Errorf("json.Marshal -> %w", err)
	}
	pass.QRCode = string(encoded)

	png, err := qrcode.Encode(pass.QRCode, qrcode.Medium, qrImageSize)
	if err != nil {
		return domain.Pass{}, fmt.Errorf("qrcode.Encode -> %w", err)
	}

	created, err := s.repo.CreateWithTotals(ctx, pass)
	if err != nil {
		return domain.Pass{}, fmt.Errorf("s.repo.CreateWithTotals -> %w", err)
	}

	created.QRCodeImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	return created, nil
}

func (s *PassService) ListPasses(ctx context.Context, userID string) ([]domain.Pass, error) {
	passes, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return passes, nil
}

func (s *PassService) ListActivePasses(ctx context.Context, userID string) ([]domain.Pass, error) {
	passes, err := s.repo.FindActiveByUserID(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActiveByUserID -> %w", err)
	}

	return passes, nil
}

func (s *PassService) GetPass(ctx context.Context, id string) (domain.Pass, error) {
	pass, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Pass{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return pass, nil
}
