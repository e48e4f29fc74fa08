package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettingsNotFound = errors.New("settings not found")

// PaymentSettings is a singleton row, id = 1.
type PaymentSettings struct {
	ID int `gorm:"primaryKey"`

	PlatformFeePercentage float64 `gorm:"not null;default:0.5"`
	MinPersonCount        int     `gorm:"not null;default:1"`
	MaxPersonCount        int     `gorm:"not null;default:10"`
	PassValidDays         int     `gorm:"not null;default:7"`

	StripeEnabled bool `gorm:"not null;default:false"`
	PaymeEnabled  bool `gorm:"not null;default:false"`
	FpsEnabled    bool `gorm:"not null;default:false"`
	AlipayEnabled bool `gorm:"not null;default:false"`
	WechatEnabled bool `gorm:"not null;default:false"`
	TestMode      bool `gorm:"not null;default:true"`

	PaymeQRCode  string `gorm:"column:payme_qr_code"`
	FpsQRCode    string `gorm:"column:fps_qr_code"`
	AlipayQRCode string `gorm:"column:alipay_qr_code"`
	WechatQRCode string `gorm:"column:wechat_qr_code"`

	UpdatedAt time.Time
}

// AdSettings is a singleton row, id = 1.
type AdSettings struct {
	ID int `gorm:"primaryKey"`

	HomeAds    AdItemList `gorm:"type:text"`
	PartiesAds AdItemList `gorm:"type:text"`
	ProfileAds AdItemList `gorm:"type:text"`

	UpdatedAt time.Time
}

type SettingsDAO struct {
	db *gorm.DB
}

func NewSettingsDAO(db *gorm.DB) *SettingsDAO {
	return &SettingsDAO{
		db: db,
	}
}

func (d *SettingsDAO) FindPaymentSettings(ctx context.Context) (PaymentSettings, error) {
	var settings PaymentSettings

	result := d.db.WithContext(ctx).First(&settings, "id = ?", 1)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PaymentSettings{}, ErrSettingsNotFound
		}

		return PaymentSettings{}, result.Error
	}

	return settings, nil
}

func (d *SettingsDAO) UpdatePaymentSettings(ctx context.Context, values map[string]any) (PaymentSettings, error) {
	result := d.db.WithContext(ctx).Model(&PaymentSettings{}).Where("id = ?", 1).Updates(values)
	if result.Error != nil {
		return PaymentSettings{}, result.Error
	}
	if result.RowsAffected == 0 {
		return PaymentSettings{}, ErrSettingsNotFound
	}

	return d.FindPaymentSettings(ctx)
}

// FindAdSettings creates the empty singleton on first read, matching the
// lazy-provisioning behavior of the admin dashboard.
func (d *SettingsDAO) FindAdSettings(ctx context.Context) (AdSettings, error) {
	var settings AdSettings

	result := d.db.WithContext(ctx).First(&settings, "id = ?", 1)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			settings = AdSettings{ID: 1, HomeAds: AdItemList{}, PartiesAds: AdItemList{}, ProfileAds: AdItemList{}}
			if err := d.db.WithContext(ctx).Create(&settings).Error; err != nil {
				return AdSettings{}, err
			}
			return settings, nil
		}

		return AdSettings{}, result.Error
	}

	return settings, nil
}

func (d *SettingsDAO) UpsertAdSettings(ctx context.Context, settings AdSettings) (AdSettings, error) {
	settings.ID = 1
	settings.UpdatedAt = time.Now()

	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"home_ads", "parties_ads", "profile_ads", "updated_at"}),
	}).Create(&settings)
	if result.Error != nil {
		return AdSettings{}, result.Error
	}

	return settings, nil
}

// SeedDefaults inserts the payment settings singleton if missing.
func (d *SettingsDAO) SeedDefaults(ctx context.Context) error {
	settings := PaymentSettings{
		ID:                    1,
		PlatformFeePercentage: 0.5,
		MinPersonCount:        1,
		MaxPersonCount:        10,
		PassValidDays:         7,
		TestMode:              true,
	}

	return d.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error
}
