package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrPassNotFound         = errors.New("pass not found")
	ErrPassAlreadyCollected = errors.New("pass already collected")
)

type Pass struct {
	ID string `gorm:"primaryKey"`

	UserID  string `gorm:"not null;index"`
	BarID   string `gorm:"not null;index"`
	BarName string `gorm:"not null"`

	PersonCount  int       `gorm:"not null"`
	TotalPrice   float64   `gorm:"not null"`
	PlatformFee  float64   `gorm:"not null"`
	BarPayment   float64   `gorm:"not null"`
	PurchaseTime time.Time `gorm:"not null"`
	ExpiryTime   time.Time `gorm:"not null"`

	QRCode string `gorm:"column:qr_code;not null"`

	IsActive      bool `gorm:"not null;default:true"`
	TransactionID string
	PaymentMethod string

	CollectedAt *time.Time
	CollectedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PassWithUser joins the owner's contact details for admin and bar-portal
// listings.
type PassWithUser struct {
	Pass
	UserName  string
	UserEmail string
	UserPhone string
}

type PassDAO struct {
	db *gorm.DB
}

func NewPassDAO(db *gorm.DB) *PassDAO {
	return &PassDAO{
		db: db,
	}
}

// InsertWithTotals creates the pass and bumps the owner's running totals in
// one transaction, with the increments done in SQL rather than read-modify-
// write.
func (d *PassDAO) InsertWithTotals(ctx context.Context, pass Pass) (Pass, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pass).Error; err != nil {
			return err
		}

		result := tx.Model(&User{}).Where("id = ?", pass.UserID).
			Updates(map[string]any{
				"total_spent":  gorm.Expr("total_spent + ?", pass.TotalPrice),
				"total_visits": gorm.Expr("total_visits + ?", pass.PersonCount),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
	if err != nil {
		return Pass{}, err
	}

	return pass, nil
}

func (d *PassDAO) FindByUserID(ctx context.Context, userID string) ([]Pass, error) {
	var passes []Pass

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchase_time DESC").
		Find(&passes)
	if result.Error != nil {
		return nil, result.Error
	}

	return passes, nil
}

func (d *PassDAO) FindActiveByUserID(ctx context.Context, userID string, now time.Time) ([]Pass, error) {
	var passes []Pass

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND expiry_time > ?", userID, true, now).
		Order("purchase_time DESC").
		Find(&passes)
	if result.Error != nil {
		return nil, result.Error
	}

	return passes, nil
}

func (d *PassDAO) FindByID(ctx context.Context, id string) (Pass, error) {
	var pass Pass

	result := d.db.WithContext(ctx).First(&pass, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Pass{}, ErrPassNotFound
		}

		return Pass{}, result.Error
	}

	return pass, nil
}

func (d *PassDAO) FindAllWithUsers(ctx context.Context) ([]PassWithUser, error) {
	var rows []PassWithUser

	result := d.db.WithContext(ctx).Model(&Pass{}).
		Select("passes.*, users.name AS user_name, users.email AS user_email, users.phone AS user_phone").
		Joins("JOIN users ON users.id = passes.user_id").
		Order("passes.purchase_time DESC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// FindForBarByCode resolves a scanned QR payload or a raw pass id, scoped
// to one bar.
func (d *PassDAO) FindForBarByCode(ctx context.Context, barID, code string) (PassWithUser, error) {
	var row PassWithUser

	result := d.db.WithContext(ctx).Model(&Pass{}).
		Select("passes.*, users.name AS user_name, users.email AS user_email, users.phone AS user_phone").
		Joins("JOIN users ON users.id = passes.user_id").
		Where("passes.bar_id = ? AND (passes.qr_code = ? OR passes.id = ?)", barID, code, code).
		First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PassWithUser{}, ErrPassNotFound
		}

		return PassWithUser{}, result.Error
	}

	return row, nil
}

func (d *PassDAO) FindForBarToday(ctx context.Context, barID string, now time.Time) ([]PassWithUser, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var rows []PassWithUser
	result := d.db.WithContext(ctx).Model(&Pass{}).
		Select("passes.*, users.name AS user_name, users.email AS user_email, users.phone AS user_phone").
		Joins("JOIN users ON users.id = passes.user_id").
		Where("passes.bar_id = ? AND passes.purchase_time >= ? AND passes.purchase_time < ?",
			barID, dayStart, dayStart.AddDate(0, 0, 1)).
		Order("passes.purchase_time DESC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

type BarHistoryFilter struct {
	From      *time.Time
	To        *time.Time
	Collected *bool
}

func (d *PassDAO) FindForBarHistory(ctx context.Context, barID string, filter BarHistoryFilter, limit int) ([]PassWithUser, error) {
	q := d.db.WithContext(ctx).Model(&Pass{}).
		Select("passes.*, users.name AS user_name, users.email AS user_email, users.phone AS user_phone").
		Joins("JOIN users ON users.id = passes.user_id").
		Where("passes.bar_id = ?", barID)

	if filter.Collected != nil {
		if *filter.Collected {
			q = q.Where("passes.collected_at IS NOT NULL")
		} else {
			q = q.Where("passes.collected_at IS NULL")
		}
	}
	if filter.From != nil {
		q = q.Where("passes.purchase_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("passes.purchase_time <= ?", *filter.To)
	}

	var rows []PassWithUser
	result := q.Order("passes.purchase_time DESC").Limit(limit).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// Collect marks a pass collected exactly once. The collected_at IS NULL
// guard makes the second call lose, whatever the interleaving.
func (d *PassDAO) Collect(ctx context.Context, barID, passID, barUserID string, now time.Time) (Pass, error) {
	result := d.db.WithContext(ctx).Model(&Pass{}).
		Where("id = ? AND bar_id = ? AND collected_at IS NULL", passID, barID).
		Updates(map[string]any{
			"collected_at": now,
			"collected_by": barUserID,
		})
	if result.Error != nil {
		return Pass{}, result.Error
	}

	if result.RowsAffected == 0 {
		var existing Pass
		err := d.db.WithContext(ctx).
			First(&existing, "id = ? AND bar_id = ?", passID, barID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Pass{}, ErrPassNotFound
			}
			return Pass{}, err
		}

		return existing, ErrPassAlreadyCollected
	}

	return d.FindByID(ctx, passID)
}

// Revoke deactivates a pass. There is no API that reactivates one.
func (d *PassDAO) Revoke(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Model(&Pass{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPassNotFound
	}

	return nil
}
