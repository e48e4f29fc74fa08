package dao

import (
	"context"

	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Bar{},
		&Pass{},
		&Party{},
		&PartyMember{},
		&BarUser{},
		&PaymentSettings{},
		&AdSettings{},
	)
	if err != nil {
		return err
	}

	return NewSettingsDAO(db).SeedDefaults(context.Background())
}
