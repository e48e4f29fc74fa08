package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrBarUserEmailExists = errors.New("bar user email already exists")
	ErrBarUserNotFound    = errors.New("bar user not found")
)

type BarUser struct {
	ID string `gorm:"primaryKey"`

	BarID    string `gorm:"not null;index"`
	Email    string `gorm:"unique;not null"`
	Password string `gorm:"column:password_hash;not null"`

	DisplayName string `gorm:"not null"`
	Role        string `gorm:"not null;default:staff"`
	IsActive    bool   `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BarUserWithBar joins the bar row for login responses and admin listings.
type BarUserWithBar struct {
	BarUser
	Bar Bar
}

type BarUserDAO struct {
	db *gorm.DB
}

func NewBarUserDAO(db *gorm.DB) *BarUserDAO {
	return &BarUserDAO{
		db: db,
	}
}

func (d *BarUserDAO) Insert(ctx context.Context, barUser BarUser) (BarUser, error) {
	result := d.db.WithContext(ctx).Create(&barUser)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "email") {
			return BarUser{}, ErrBarUserEmailExists
		}

		return BarUser{}, result.Error
	}

	return barUser, nil
}

func (d *BarUserDAO) FindByEmail(ctx context.Context, email string) (BarUser, error) {
	var barUser BarUser

	result := d.db.WithContext(ctx).First(&barUser, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return BarUser{}, ErrBarUserNotFound
		}

		return BarUser{}, result.Error
	}

	return barUser, nil
}

// FindActiveByEmailWithBar backs the bar-portal login: only active staff of
// an existing bar may sign in.
func (d *BarUserDAO) FindActiveByEmailWithBar(ctx context.Context, email string) (BarUserWithBar, error) {
	barUser, err := d.FindByEmail(ctx, email)
	if err != nil {
		return BarUserWithBar{}, err
	}
	if !barUser.IsActive {
		return BarUserWithBar{}, ErrBarUserNotFound
	}

	var bar Bar
	if err := d.db.WithContext(ctx).First(&bar, "id = ?", barUser.BarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BarUserWithBar{}, ErrBarNotFound
		}
		return BarUserWithBar{}, err
	}

	return BarUserWithBar{BarUser: barUser, Bar: bar}, nil
}

func (d *BarUserDAO) FindByIDWithBar(ctx context.Context, id string) (BarUserWithBar, error) {
	var barUser BarUser

	result := d.db.WithContext(ctx).First(&barUser, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return BarUserWithBar{}, ErrBarUserNotFound
		}

		return BarUserWithBar{}, result.Error
	}

	var bar Bar
	if err := d.db.WithContext(ctx).First(&bar, "id = ?", barUser.BarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BarUserWithBar{}, ErrBarNotFound
		}
		return BarUserWithBar{}, err
	}

	return BarUserWithBar{BarUser: barUser, Bar: bar}, nil
}

func (d *BarUserDAO) FindAllWithBars(ctx context.Context) ([]BarUserWithBar, error) {
	var barUsers []BarUser

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&barUsers)
	if result.Error != nil {
		return nil, result.Error
	}

	rows := make([]BarUserWithBar, 0, len(barUsers))
	for _, bu := range barUsers {
		var bar Bar
		err := d.db.WithContext(ctx).First(&bar, "id = ?", bu.BarID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		rows = append(rows, BarUserWithBar{BarUser: bu, Bar: bar})
	}

	return rows, nil
}
