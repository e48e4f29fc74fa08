package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrBarNotFound = errors.New("bar not found")

type Bar struct {
	ID string `gorm:"primaryKey"`

	Name       string `gorm:"not null"`
	NameEn     string `gorm:"not null"`
	DistrictID string `gorm:"not null;index"`
	Address    string `gorm:"not null"`
	Image      string
	Rating     float64    `gorm:"not null;default:0"`
	Drinks     StringList `gorm:"type:text"`
	IsFeatured bool       `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type BarDAO struct {
	db *gorm.DB
}

func NewBarDAO(db *gorm.DB) *BarDAO {
	return &BarDAO{
		db: db,
	}
}

func (d *BarDAO) Insert(ctx context.Context, bar Bar) (Bar, error) {
	result := d.db.WithContext(ctx).Create(&bar)
	if result.Error != nil {
		return Bar{}, result.Error
	}

	return bar, nil
}

func (d *BarDAO) FindAll(ctx context.Context) ([]Bar, error) {
	var bars []Bar

	result := d.db.WithContext(ctx).Order("name").Find(&bars)
	if result.Error != nil {
		return nil, result.Error
	}

	return bars, nil
}

func (d *BarDAO) FindFeatured(ctx context.Context) ([]Bar, error) {
	var bars []Bar

	result := d.db.WithContext(ctx).Where("is_featured = ?", true).Order("name").Find(&bars)
	if result.Error != nil {
		return nil, result.Error
	}

	return bars, nil
}

func (d *BarDAO) FindByID(ctx context.Context, id string) (Bar, error) {
	var bar Bar

	result := d.db.WithContext(ctx).First(&bar, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Bar{}, ErrBarNotFound
		}

		return Bar{}, result.Error
	}

	return bar, nil
}

func (d *BarDAO) FindIDs(ctx context.Context, limit int) ([]string, error) {
	var ids []string

	result := d.db.WithContext(ctx).Model(&Bar{}).Limit(limit).Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *BarDAO) UpdateFields(ctx context.Context, id string, values map[string]any) (Bar, error) {
	result := d.db.WithContext(ctx).Model(&Bar{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return Bar{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Bar{}, ErrBarNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *BarDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Bar{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBarNotFound
	}

	return nil
}

// ToggleFeatured flips is_featured in a single statement.
func (d *BarDAO) ToggleFeatured(ctx context.Context, id string) (Bar, error) {
	result := d.db.WithContext(ctx).Model(&Bar{}).Where("id = ?", id).
		Updates(map[string]any{
			"is_featured": gorm.Expr("NOT is_featured"),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return Bar{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Bar{}, ErrBarNotFound
	}

	return d.FindByID(ctx, id)
}
