package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Per-test in-memory database to avoid cross-test interference.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, InitTables(db))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string) User {
	t.Helper()

	user := User{
		ID:             id,
		Email:          id + "@example.com",
		Password:       "hashed",
		Name:           "User " + id,
		Phone:          "+85291234567",
		MembershipTier: "free",
		JoinedAt:       time.Now(),
	}
	require.NoError(t, db.Create(&user).Error)

	return user
}

func seedBar(t *testing.T, db *gorm.DB, id string) Bar {
	t.Helper()

	bar := Bar{
		ID:         id,
		Name:       "Bar " + id,
		NameEn:     "Bar " + id,
		DistrictID: "lkf",
		Address:    "1 D'Aguilar Street",
	}
	require.NoError(t, db.Create(&bar).Error)

	return bar
}

func seedParty(t *testing.T, db *gorm.DB, id, hostID string, maxGuests int) Party {
	t.Helper()

	party := Party{
		ID:              id,
		HostID:          hostID,
		HostName:        "Host",
		PassID:          "pass-1",
		BarID:           "bar-1",
		BarName:         "Bar",
		Title:           "Friday drinks",
		MaxFemaleGuests: maxGuests,
		PartyTime:       time.Now().Add(24 * time.Hour),
		Status:          "open",
	}
	require.NoError(t, db.Create(&party).Error)

	return party
}

func TestUserInsertDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	d := NewUserDAO(db)
	ctx := context.Background()

	first := User{ID: "user-1", Email: "dup@example.com", Password: "x", Name: "A", Phone: "1", JoinedAt: time.Now()}
	_, err := d.Insert(ctx, first)
	require.NoError(t, err)

	second := User{ID: "user-2", Email: "dup@example.com", Password: "x", Name: "B", Phone: "2", JoinedAt: time.Now()}
	_, err = d.Insert(ctx, second)
	require.ErrorIs(t, err, ErrUserEmailExists)
}

func TestUserUpdateFieldsPartial(t *testing.T) {
	db := setupDB(t)
	d := NewUserDAO(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")

	updated, err := d.UpdateFields(ctx, "user-1", map[string]any{"display_name": "Night Owl"})
	require.NoError(t, err)
	require.Equal(t, "Night Owl", updated.DisplayName)
	require.Equal(t, "User user-1", updated.Name)

	_, err = d.UpdateFields(ctx, "missing", map[string]any{"display_name": "x"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestPassInsertWithTotals(t *testing.T) {
	db := setupDB(t)
	d := NewPassDAO(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")

	pass := Pass{
		ID:           "pass-1",
		UserID:       "user-1",
		BarID:        "bar-1",
		BarName:      "Bar",
		PersonCount:  3,
		TotalPrice:   900,
		PlatformFee:  450,
		BarPayment:   450,
		PurchaseTime: time.Now(),
		ExpiryTime:   time.Now().AddDate(0, 0, 7),
		QRCode:       `{"passId":"pass-1"}`,
		IsActive:     true,
	}
	created, err := d.InsertWithTotals(ctx, pass)
	require.NoError(t, err)
	require.Equal(t, "pass-1", created.ID)

	var user User
	require.NoError(t, db.First(&user, "id = ?", "user-1").Error)
	require.Equal(t, 900.0, user.TotalSpent)
	require.Equal(t, 3, user.TotalVisits)
}

func TestPassInsertWithTotalsUnknownUserRollsBack(t *testing.T) {
	db := setupDB(t)
	d := NewPassDAO(db)
	ctx := context.Background()

	pass := Pass{
		ID:           "pass-ghost",
		UserID:       "missing",
		BarID:        "bar-1",
		BarName:      "Bar",
		PersonCount:  1,
		TotalPrice:   300,
		PurchaseTime: time.Now(),
		ExpiryTime:   time.Now().AddDate(0, 0, 7),
		QRCode:       "{}",
		IsActive:     true,
	}
	_, err := d.InsertWithTotals(ctx, pass)
	require.ErrorIs(t, err, ErrUserNotFound)

	var count int64
	require.NoError(t, db.Model(&Pass{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestPassCollectOnce(t *testing.T) {
	db := setupDB(t)
	d := NewPassDAO(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	pass := Pass{
		ID: "pass-1", UserID: "user-1", BarID: "bar-1", BarName: "Bar",
		PersonCount: 2, TotalPrice: 600,
		PurchaseTime: time.Now(), ExpiryTime: time.Now().AddDate(0, 0, 7),
		QRCode: "{}", IsActive: true,
	}
	require.NoError(t, db.Create(&pass).Error)

	now := time.Now()
	collected, err := d.Collect(ctx, "bar-1", "pass-1", "baruser-1", now)
	require.NoError(t, err)
	require.NotNil(t, collected.CollectedAt)
	require.Equal(t, "baruser-1", collected.CollectedBy)

	// Second attempt must lose and report the existing row.
	again, err := d.Collect(ctx, "bar-1", "pass-1", "baruser-2", now.Add(time.Minute))
	require.ErrorIs(t, err, ErrPassAlreadyCollected)
	require.Equal(t, "baruser-1", again.CollectedBy)

	_, err = d.Collect(ctx, "bar-1", "missing", "baruser-1", now)
	require.ErrorIs(t, err, ErrPassNotFound)

	// Wrong bar never sees the pass.
	_, err = d.Collect(ctx, "bar-2", "pass-1", "baruser-3", now)
	require.ErrorIs(t, err, ErrPassNotFound)
}

func TestPassFindForBarByCode(t *testing.T) {
	db := setupDB(t)
	d := NewPassDAO(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	pass := Pass{
		ID: "pass-1", UserID: "user-1", BarID: "bar-1", BarName: "Bar",
		PersonCount: 2, TotalPrice: 600,
		PurchaseTime: time.Now(), ExpiryTime: time.Now().AddDate(0, 0, 7),
		QRCode: `{"passId":"pass-1","code":"ABC123XYZ"}`, IsActive: true,
	}
	require.NoError(t, db.Create(&pass).Error)

	byCode, err := d.FindForBarByCode(ctx, "bar-1", `{"passId":"pass-1","code":"ABC123XYZ"}`)
	require.NoError(t, err)
	require.Equal(t, "pass-1", byCode.ID)
	require.Equal(t, "User user-1", byCode.UserName)

	byID, err := d.FindForBarByCode(ctx, "bar-1", "pass-1")
	require.NoError(t, err)
	require.Equal(t, "pass-1", byID.ID)

	_, err = d.FindForBarByCode(ctx, "bar-2", "pass-1")
	require.ErrorIs(t, err, ErrPassNotFound)
}

func TestPassRevoke(t *testing.T) {
	db := setupDB(t)
	d := NewPassDAO(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	pass := Pass{
		ID: "pass-1", UserID: "user-1", BarID: "bar-1", BarName: "Bar",
		PersonCount: 1, TotalPrice: 300,
		PurchaseTime: time.Now(), ExpiryTime: time.Now().AddDate(0, 0, 7),
		QRCode: "{}", IsActive: true,
	}
	require.NoError(t, db.Create(&pass).Error)

	require.NoError(t, d.Revoke(ctx, "pass-1"))

	active, err := d.FindActiveByUserID(ctx, "user-1", time.Now())
	require.NoError(t, err)
	require.Empty(t, active)

	require.ErrorIs(t, d.Revoke(ctx, "missing"), ErrPassNotFound)
}

func TestPartyAddMemberCapacity(t *testing.T) {
	db := setupDB(t)
	d := NewPartyDAO(db)
	ctx := context.Background()

	seedParty(t, db, "party-1", "host-1", 2)

	full, err := d.AddMember(ctx, "party-1", PartyMember{UserID: "guest-1", Name: "G1", JoinedAt: time.Now()})
	require.NoError(t, err)
	require.False(t, full)

	full, err = d.AddMember(ctx, "party-1", PartyMember{UserID: "guest-2", Name: "G2", JoinedAt: time.Now()})
	require.NoError(t, err)
	require.True(t, full)

	party, err := d.FindByID(ctx, "party-1")
	require.NoError(t, err)
	require.Equal(t, "full", party.Status)

	// A full party rejects the next guest as full, not as "not open".
	_, err = d.AddMember(ctx, "party-1", PartyMember{UserID: "guest-3", Name: "G3", JoinedAt: time.Now()})
	require.ErrorIs(t, err, ErrPartyFull)
}

func TestPartyAddMemberLastSlotLoserGetsFull(t *testing.T) {
	db := setupDB(t)
	d := NewPartyDAO(db)
	ctx := context.Background()

	seedParty(t, db, "party-1", "host-1", 1)

	full, err := d.AddMember(ctx, "party-1", PartyMember{UserID: "winner", Name: "W", JoinedAt: time.Now()})
	require.NoError(t, err)
	require.True(t, full)

	_, err = d.AddMember(ctx, "party-1", PartyMember{UserID: "loser", Name: "L", JoinedAt: time.Now()})
	require.ErrorIs(t, err, ErrPartyFull)

	members, err := d.FindMembers(ctx, []string{"party-1"})
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "winner", members[0].UserID)
}

func TestPartyAddMemberIdempotent(t *testing.T) {
	db := setupDB(t)
	d := NewPartyDAO(db)
	ctx := context.Background()

	seedParty(t, db, "party-1", "host-1", 3)

	_, err := d.AddMember(ctx, "party-1", PartyMember{UserID: "guest-1", Name: "G1", JoinedAt: time.Now()})
	require.NoError(t, err)
	_, err = d.AddMember(ctx, "party-1", PartyMember{UserID: "guest-1", Name: "G1", JoinedAt: time.Now()})
	require.NoError(t, err)

	members, err := d.FindMembers(ctx, []string{"party-1"})
	require.NoError(t, err)
	require.Len(t, members, 1)
}

func TestPartyAddMemberNotFoundAndNotOpen(t *testing.T) {
	db := setupDB(t)
	d := NewPartyDAO(db)
	ctx := context.Background()

	_, err := d.AddMember(ctx, "missing", PartyMember{UserID: "guest-1", Name: "G1", JoinedAt: time.Now()})
	require.ErrorIs(t, err, ErrPartyNotFound)

	seedParty(t, db, "party-1", "host-1", 2)
	require.NoError(t, d.Cancel(ctx, "party-1", "host-1"))

	_, err = d.AddMember(ctx, "party-1", PartyMember{UserID: "guest-1", Name: "G1", JoinedAt: time.Now()})
	require.ErrorIs(t, err, ErrPartyNotOpen)
}

func TestPartyRemoveMemberReopens(t *testing.T) {
	db := setupDB(t)
	d := NewPartyDAO(db)
	ctx := context.Background()

	seedParty(t, db, "party-1", "host-1", 1)

	full, err := d.AddMember(ctx, "party-1", PartyMember{UserID: "guest-1", Name: "G1", JoinedAt: time.Now()})
	require.NoError(t, err)
	require.True(t, full)

	require.NoError(t, d.RemoveMember(ctx, "party-1", "guest-1"))

	party, err := d.FindByID(ctx, "party-1")
	require.NoError(t, err)
	require.Equal(t, "open", party.Status)

	members, err := d.FindMembers(ctx, []string{"party-1"})
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestPartyCancelHostOnly(t *testing.T) {
	db := setupDB(t)
	d := NewPartyDAO(db)
	ctx := context.Background()

	seedParty(t, db, "party-1", "host-1", 2)

	require.ErrorIs(t, d.Cancel(ctx, "party-1", "someone-else"), ErrPartyNotFound)

	require.NoError(t, d.Cancel(ctx, "party-1", "host-1"))
	party, err := d.FindByID(ctx, "party-1")
	require.NoError(t, err)
	require.Equal(t, "cancelled", party.Status)
}

func TestSettingsSeedAndLazyAds(t *testing.T) {
	db := setupDB(t)
	d := NewSettingsDAO(db)
	ctx := context.Background()

	payment, err := d.FindPaymentSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, 0.5, payment.PlatformFeePercentage)
	require.Equal(t, 7, payment.PassValidDays)
	require.True(t, payment.TestMode)

	// Seeding twice is a no-op.
	require.NoError(t, d.SeedDefaults(ctx))

	ads, err := d.FindAdSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, ads.ID)
	require.Empty(t, ads.HomeAds)

	ads.HomeAds = AdItemList{{Image: "https://cdn.example.com/a.png", Link: "/bars", Enabled: true}}
	saved, err := d.UpsertAdSettings(ctx, ads)
	require.NoError(t, err)
	require.Len(t, saved.HomeAds, 1)

	reread, err := d.FindAdSettings(ctx)
	require.NoError(t, err)
	require.Len(t, reread.HomeAds, 1)
	require.Equal(t, "/bars", reread.HomeAds[0].Link)
}

func TestBarToggleFeatured(t *testing.T) {
	db := setupDB(t)
	d := NewBarDAO(db)
	ctx := context.Background()

	seedBar(t, db, "bar-1")

	toggled, err := d.ToggleFeatured(ctx, "bar-1")
	require.NoError(t, err)
	require.True(t, toggled.IsFeatured)

	toggled, err = d.ToggleFeatured(ctx, "bar-1")
	require.NoError(t, err)
	require.False(t, toggled.IsFeatured)

	_, err = d.ToggleFeatured(ctx, "missing")
	require.ErrorIs(t, err, ErrBarNotFound)
}
