package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPartyNotFound = errors.New("party not found")
	ErrPartyNotOpen  = errors.New("party is not open")
	ErrPartyFull     = errors.New("party is full")
)

type Party struct {
	ID string `gorm:"primaryKey"`

	HostID          string `gorm:"not null;index"`
	HostName        string `gorm:"not null"`
	HostDisplayName string
	HostAvatar      string

	PassID  string `gorm:"not null"`
	BarID   string `gorm:"not null;index"`
	BarName string `gorm:"not null"`

	Title           string `gorm:"not null"`
	Description     string
	MaxFemaleGuests int       `gorm:"not null"`
	PartyTime       time.Time `gorm:"not null"`
	Status          string    `gorm:"not null;default:open;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PartyMember struct {
	PartyID string `gorm:"primaryKey"`
	UserID  string `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	DisplayName string
	Avatar      string
	Gender      string

	JoinedAt time.Time `gorm:"not null"`
}

type PartyDAO struct {
	db *gorm.DB
}

func NewPartyDAO(db *gorm.DB) *PartyDAO {
	return &PartyDAO{
		db: db,
	}
}

func (d *PartyDAO) Insert(ctx context.Context, party Party) (Party, error) {
	result := d.db.WithContext(ctx).Create(&party)
	if result.Error != nil {
		return Party{}, result.Error
	}

	return party, nil
}

func (d *PartyDAO) FindByStatus(ctx context.Context, status string) ([]Party, error) {
	var parties []Party

	result := d.db.WithContext(ctx).
		Where("status = ?", status).
		Order("party_time ASC").
		Find(&parties)
	if result.Error != nil {
		return nil, result.Error
	}

	return parties, nil
}

func (d *PartyDAO) FindByHostID(ctx context.Context, hostID string) ([]Party, error) {
	var parties []Party

	result := d.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("party_time DESC").
		Find(&parties)
	if result.Error != nil {
		return nil, result.Error
	}

	return parties, nil
}

func (d *PartyDAO) FindByMemberID(ctx context.Context, userID string) ([]Party, error) {
	var parties []Party

	result := d.db.WithContext(ctx).Model(&Party{}).
		Joins("JOIN party_members ON party_members.party_id = parties.id").
		Where("party_members.user_id = ?", userID).
		Order("parties.party_time DESC").
		Find(&parties)
	if result.Error != nil {
		return nil, result.Error
	}

	return parties, nil
}

func (d *PartyDAO) FindByID(ctx context.Context, id string) (Party, error) {
	var party Party

	result := d.db.WithContext(ctx).First(&party, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Party{}, ErrPartyNotFound
		}

		return Party{}, result.Error
	}

	return party, nil
}

func (d *PartyDAO) FindOpenIDs(ctx context.Context, limit int) ([]string, error) {
	var ids []string

	result := d.db.WithContext(ctx).Model(&Party{}).
		Where("status = ?", "open").
		Limit(limit).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *PartyDAO) FindMembers(ctx context.Context, partyIDs []string) ([]PartyMember, error) {
	if len(partyIDs) == 0 {
		return nil, nil
	}

	var members []PartyMember
	result := d.db.WithContext(ctx).
		Where("party_id IN ?", partyIDs).
		Order("joined_at ASC").
		Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

// AddMember runs the whole check-then-act join inside one transaction. The
// guarded UPDATE on the party row takes a row lock first, so two concurrent
// joins for the last slot serialize and exactly one sees the free seat.
// Re-joining is a no-op thanks to the composite key plus ON CONFLICT.
func (d *PartyDAO) AddMember(ctx context.Context, partyID string, member PartyMember) (becameFull bool, err error) {
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lock := tx.Model(&Party{}).
			Where("id = ? AND status = ?", partyID, "open").
			Update("updated_at", time.Now())
		if lock.Error != nil {
			return lock.Error
		}
		if lock.RowsAffected == 0 {
			var party Party
			if errFind := tx.First(&party, "id = ?", partyID).Error; errFind != nil {
				if errors.Is(errFind, gorm.ErrRecordNotFound) {
					return ErrPartyNotFound
				}
				return errFind
			}
			// A loser racing for the last slot sees the party already
			// flipped to full and must be told so, not "not open".
			if party.Status == "full" {
				return ErrPartyFull
			}
			return ErrPartyNotOpen
		}

		var party Party
		if errFind := tx.First(&party, "id = ?", partyID).Error; errFind != nil {
			return errFind
		}

		var count int64
		if errCount := tx.Model(&PartyMember{}).
			Where("party_id = ?", partyID).
			Count(&count).Error; errCount != nil {
			return errCount
		}
		if count >= int64(party.MaxFemaleGuests) {
			return ErrPartyFull
		}

		member.PartyID = partyID
		insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member)
		if insert.Error != nil {
			return insert.Error
		}
		if insert.RowsAffected == 0 {
			// Duplicate join; nothing changed.
			return nil
		}

		if count+1 >= int64(party.MaxFemaleGuests) {
			if errFull := tx.Model(&Party{}).
				Where("id = ?", partyID).
				Update("status", "full").Error; errFull != nil {
				return errFull
			}
			becameFull = true
		}

		return nil
	})

	return becameFull, err
}

// RemoveMember deletes the membership and reverts a full party to open.
func (d *PartyDAO) RemoveMember(ctx context.Context, partyID, userID string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Delete(&PartyMember{}, "party_id = ? AND user_id = ?", partyID, userID).
			Error; err != nil {
			return err
		}

		return tx.Model(&Party{}).
			Where("id = ? AND status = ?", partyID, "full").
			Update("status", "open").Error
	})
}

// Cancel soft-deletes the party, host only.
func (d *PartyDAO) Cancel(ctx context.Context, partyID, hostID string) error {
	result := d.db.WithContext(ctx).Model(&Party{}).
		Where("id = ? AND host_id = ?", partyID, hostID).
		Update("status", "cancelled")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPartyNotFound
	}

	return nil
}
