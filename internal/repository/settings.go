package repository

import (
	"context"
	"fmt"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository/dao"
)

var ErrSettingsNotFound = dao.ErrSettingsNotFound

type SettingsDAO interface {
	FindPaymentSettings(ctx context.Context) (dao.PaymentSettings, error)
	UpdatePaymentSettings(ctx context.Context, values map[string]any) (dao.PaymentSettings, error)
	FindAdSettings(ctx context.Context) (dao.AdSettings, error)
	UpsertAdSettings(ctx context.Context, settings dao.AdSettings) (dao.AdSettings, error)
}

type SettingsRepository struct {
	dao SettingsDAO
}

func NewSettingsRepository(dao SettingsDAO) *SettingsRepository {
	return &SettingsRepository{
		dao: dao,
	}
}

func (r *SettingsRepository) FindPaymentSettings(ctx context.Context) (domain.PaymentSettings, error) {
	found, err := r.dao.FindPaymentSettings(ctx)
	if err != nil {
		return domain.PaymentSettings{}, fmt.Errorf("r.dao.FindPaymentSettings -> %w", err)
	}

	return paymentSettingsDAOToDomain(found), nil
}

// UpdatePaymentSettings patches only the provided fields on the singleton.
func (r *SettingsRepository) UpdatePaymentSettings(ctx context.Context, update domain.PaymentSettingsUpdate) (domain.PaymentSettings, error) {
	values := map[string]any{}
	if update.PlatformFeePercentage != nil {
		values["platform_fee_percentage"] = *update.PlatformFeePercentage
	}
	if update.MinPersonCount != nil {
		values["min_person_count"] = *update.MinPersonCount
	}
	if update.MaxPersonCount != nil {
		values["max_person_count"] = *update.MaxPersonCount
	}
	if update.PassValidDays != nil {
		values["pass_valid_days"] = *update.PassValidDays
	}
	if update.StripeEnabled != nil {
		values["stripe_enabled"] = *update.StripeEnabled
	}
	if update.PaymeEnabled != nil {
		values["payme_enabled"] = *update.PaymeEnabled
	}
	if update.FpsEnabled != nil {
		values["fps_enabled"] = *update.FpsEnabled
	}
	if update.AlipayEnabled != nil {
		values["alipay_enabled"] = *update.AlipayEnabled
	}
	if update.WechatEnabled != nil {
		values["wechat_enabled"] = *update.WechatEnabled
	}
	if update.TestMode != nil {
		values["test_mode"] = *update.TestMode
	}
	if update.PaymeQRCode != nil {
		values["payme_qr_code"] = *update.PaymeQRCode
	}
	if update.FpsQRCode != nil {
		values["fps_qr_code"] = *update.FpsQRCode
	}
	if update.AlipayQRCode != nil {
		values["alipay_qr_code"] = *update.AlipayQRCode
	}
	if update.WechatQRCode != nil {
		values["wechat_qr_code"] = *update.WechatQRCode
	}

	if len(values) == 0 {
		return r.FindPaymentSettings(ctx)
	}

	updated, err := r.dao.UpdatePaymentSettings(ctx, values)
	if err != nil {
		return domain.PaymentSettings{}, fmt.Errorf("r.dao.UpdatePaymentSettings -> %w", err)
	}

	return paymentSettingsDAOToDomain(updated), nil
}

func (r *SettingsRepository) FindAdSettings(ctx context.Context) (domain.AdSettings, error) {
	found, err := r.dao.FindAdSettings(ctx)
	if err != nil {
		return domain.AdSettings{}, fmt.Errorf("r.dao.FindAdSettings -> %w", err)
	}

	return adSettingsDAOToDomain(found), nil
}

func (r *SettingsRepository) SaveAdSettings(ctx context.Context, settings domain.AdSettings) (domain.AdSettings, error) {
	saved, err := r.dao.UpsertAdSettings(ctx, dao.AdSettings{
		HomeAds:    adItemsDomainToDAO(settings.HomeAds),
		PartiesAds: adItemsDomainToDAO(settings.PartiesAds),
		ProfileAds: adItemsDomainToDAO(settings.ProfileAds),
	})
	if err != nil {
		return domain.AdSettings{}, fmt.Errorf("r.dao.UpsertAdSettings -> %w", err)
	}

	return adSettingsDAOToDomain(saved), nil
}

func paymentSettingsDAOToDomain(s dao.PaymentSettings) domain.PaymentSettings {
	return domain.PaymentSettings{
		PlatformFeePercentage: s.PlatformFeePercentage,
		MinPersonCount:        s.MinPersonCount,
		MaxPersonCount:        s.MaxPersonCount,
		PassValidDays:         s.PassValidDays,
		StripeEnabled:         s.StripeEnabled,
		PaymeEnabled:          s.PaymeEnabled,
		FpsEnabled:            s.FpsEnabled,
		AlipayEnabled:         s.AlipayEnabled,
		WechatEnabled:         s.WechatEnabled,
		TestMode:              s.TestMode,
		PaymeQRCode:           s.PaymeQRCode,
		FpsQRCode:             s.FpsQRCode,
		AlipayQRCode:          s.AlipayQRCode,
		WechatQRCode:          s.WechatQRCode,
	}
}

func adSettingsDAOToDomain(s dao.AdSettings) domain.AdSettings {
	return domain.AdSettings{
		HomeAds:    adItemsDAOToDomain(s.HomeAds),
		PartiesAds: adItemsDAOToDomain(s.PartiesAds),
		ProfileAds: adItemsDAOToDomain(s.ProfileAds),
	}
}

func adItemsDAOToDomain(items dao.AdItemList) []domain.AdItem {
	out := make([]domain.AdItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.AdItem{Image: it.Image, Link: it.Link, Enabled: it.Enabled})
	}

	return out
}

func adItemsDomainToDAO(items []domain.AdItem) dao.AdItemList {
	out := make(dao.AdItemList, 0, len(items))
	for _, it := range items {
		out = append(out, dao.AdItem{Image: it.Image, Link: it.Link, Enabled: it.Enabled})
	}

	return out
}
