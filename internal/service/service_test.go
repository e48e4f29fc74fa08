package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository"
	"github.com/onenightdrink/api/internal/repository/dao"
)

type testRepos struct {
	db       *gorm.DB
	users    *repository.UserRepository
	bars     *repository.BarRepository
	passes   *repository.PassRepository
	parties  *repository.PartyRepository
	barUsers *repository.BarUserRepository
	settings *repository.SettingsRepository
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	return testRepos{
		db:       db,
		users:    repository.NewUserRepository(dao.NewUserDAO(db)),
		bars:     repository.NewBarRepository(dao.NewBarDAO(db)),
		passes:   repository.NewPassRepository(dao.NewPassDAO(db)),
		parties:  repository.NewPartyRepository(dao.NewPartyDAO(db)),
		barUsers: repository.NewBarUserRepository(dao.NewBarUserDAO(db)),
		settings: repository.NewSettingsRepository(dao.NewSettingsDAO(db)),
	}
}

func registerUser(t *testing.T, svc *AuthService, email string) domain.User {
	t.Helper()

	user, err := svc.Register(context.Background(), domain.User{
		Email:    email,
		Password: "secret123",
		Name:     "Mei",
		Phone:    "+85291234567",
	})
	require.NoError(t, err)

	return user
}

func createBar(t *testing.T, svc *BarService, name string) domain.Bar {
	t.Helper()

	bar, err := svc.CreateBar(context.Background(), domain.Bar{
		Name:       name,
		NameEn:     name,
		DistrictID: "lkf",
		Address:    "1 D'Aguilar Street",
		Drinks:     []string{"beer", "whisky"},
	})
	require.NoError(t, err)

	return bar
}

func TestRegisterAndLogin(t *testing.T) {
	repos := setupRepos(t)
	svc := NewAuthService(repos.users)
	ctx := context.Background()

	user := registerUser(t, svc, "mei@example.com")
	require.True(t, strings.HasPrefix(user.ID, "user-"))
	require.Equal(t, domain.TierFree, user.MembershipTier)
	// Stored as a bcrypt hash, never the plaintext.
	require.NotEqual(t, "secret123", user.Password)

	_, err := svc.Register(ctx, domain.User{Email: "mei@example.com", Password: "x", Name: "Dup", Phone: "1"})
	require.ErrorIs(t, err, ErrUserEmailExists)

	logged, err := svc.Login(ctx, "mei@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)

	_, err = svc.Login(ctx, "mei@example.com", "wrong")
	require.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfilePartial(t *testing.T) {
	repos := setupRepos(t)
	authSvc := NewAuthService(repos.users)
	userSvc := NewUserService(repos.users)
	ctx := context.Background()

	user := registerUser(t, authSvc, "mei@example.com")

	displayName := "Night Owl"
	gender := "female"
	updated, err := userSvc.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{
		DisplayName: &displayName,
		Gender:      &gender,
	})
	require.NoError(t, err)
	require.Equal(t, "Night Owl", updated.DisplayName)
	require.Equal(t, "female", updated.Gender)
	require.Equal(t, "Mei", updated.Name)
}

func TestPurchasePassSplitsFeeAndEncodesQR(t *testing.T) {
	repos := setupRepos(t)
	authSvc := NewAuthService(repos.users)
	barSvc := NewBarService(repos.bars)
	passSvc := NewPassService(repos.passes, repos.users, repos.bars, repos.settings)
	ctx := context.Background()

	user := registerUser(t, authSvc, "mei@example.com")
	bar := createBar(t, barSvc, "Moonshine")

	pass, err := passSvc.Purchase(ctx, PurchaseInput{
		UserID:        user.ID,
		BarID:         bar.ID,
		PersonCount:   3,
		TotalPrice:    900,
		PaymentMethod: "payme",
	})
	require.NoError(t, err)

	// Default platform fee is 50%.
	require.Equal(t, 450.0, pass.PlatformFee)
	require.Equal(t, 450.0, pass.BarPayment)
	require.Equal(t, bar.Name, pass.BarName)
	require.True(t, pass.Valid(time.Now()))
	require.WithinDuration(t, time.Now().AddDate(0, 0, 7), pass.ExpiryTime, time.Minute)
	require.True(t, strings.HasPrefix(pass.QRCodeImage, "data:image/png;base64,"))

	var payload domain.QRPayload
	require.NoError(t, json.Unmarshal([]byte(pass.QRCode), &payload))
	require.Equal(t, pass.ID, payload.PassID)
	require.Equal(t, bar.ID, payload.BarID)
	require.Len(t, payload.Code, 9)

	// The purchase bumps the buyer's totals atomically.
	after, err := repos.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 900.0, after.TotalSpent)
	require.Equal(t, 3, after.TotalVisits)

	active, err := passSvc.ListActivePasses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestPurchasePassExpiryFollowsSettings(t *testing.T) {
	repos := setupRepos(t)
	authSvc := NewAuthService(repos.users)
	barSvc := NewBarService(repos.bars)
	passSvc := NewPassService(repos.passes, repos.users, repos.bars, repos.settings)
	adminSvc := NewAdminService(repos.users, repos.passes, repos.bars, repos.barUsers, repos.settings)
	ctx := context.Background()

	user := registerUser(t, authSvc, "mei@example.com")
	bar := createBar(t, barSvc, "Moonshine")

	days := 14
	_, err := adminSvc.UpdatePaymentSettings(ctx, domain.PaymentSettingsUpdate{PassValidDays: &days})
	require.NoError(t, err)

	pass, err := passSvc.Purchase(ctx, PurchaseInput{
		UserID:        user.ID,
		BarID:         bar.ID,
		PersonCount:   2,
		TotalPrice:    600,
		PaymentMethod: "payme",
	})
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().AddDate(0, 0, 14), pass.ExpiryTime, time.Minute)
}

func TestPurchasePassUnknownBar(t *testing.T) {
	repos := setupRepos(t)
	authSvc := NewAuthService(repos.users)
	passSvc := NewPassService(repos.passes, repos.users, repos.bars, repos.settings)
	ctx := context.Background()

	user := registerUser(t, authSvc, "mei@example.com")

	_, err := passSvc.Purchase(ctx, PurchaseInput{UserID: user.ID, BarID: "missing", PersonCount: 1, TotalPrice: 300})
	require.ErrorIs(t, err, ErrBarNotFound)
}

func partyFixture(t *testing.T, repos testRepos) (*PartyService, domain.User, domain.Pass) {
	t.Helper()

	authSvc := NewAuthService(repos.users)
	barSvc := NewBarService(repos.bars)
	passSvc := NewPassService(repos.passes, repos.users, repos.bars, repos.settings)
	partySvc := NewPartyService(repos.parties, repos.passes, repos.users)
	ctx := context.Background()

	host := registerUser(t, authSvc, "host@example.com")
	bar := createBar(t, barSvc, "Moonshine")
	pass, err := passSvc.Purchase(ctx, PurchaseInput{UserID: host.ID, BarID: bar.ID, PersonCount: 4, TotalPrice: 1200})
	require.NoError(t, err)

	return partySvc, host, pass
}

func TestCreatePartyRequiresOwnValidPass(t *testing.T) {
	repos := setupRepos(t)
	partySvc, host, pass := partyFixture(t, repos)
	ctx := context.Background()

	party, err := partySvc.CreateParty(ctx, CreatePartyInput{
		HostID:          host.ID,
		PassID:          pass.ID,
		Title:           "Friday drinks",
		MaxFemaleGuests: 2,
		PartyTime:       time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, domain.PartyOpen, party.Status)
	require.Equal(t, host.Name, party.HostName)
	require.Equal(t, pass.BarName, party.BarName)

	// Someone else's pass does not host a party.
	authSvc := NewAuthService(repos.users)
	other := registerUser(t, authSvc, "other@example.com")
	_, err = partySvc.CreateParty(ctx, CreatePartyInput{
		HostID:          other.ID,
		PassID:          pass.ID,
		Title:           "Hijacked",
		MaxFemaleGuests: 2,
		PartyTime:       time.Now().Add(48 * time.Hour),
	})
	require.ErrorIs(t, err, ErrPassNotValid)
}

func TestJoinPartyFlow(t *testing.T) {
	repos := setupRepos(t)
	partySvc, host, pass := partyFixture(t, repos)
	authSvc := NewAuthService(repos.users)
	ctx := context.Background()

	party, err := partySvc.CreateParty(ctx, CreatePartyInput{
		HostID:          host.ID,
		PassID:          pass.ID,
		Title:           "Friday drinks",
		MaxFemaleGuests: 1,
		PartyTime:       time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	guest := registerUser(t, authSvc, "guest@example.com")
	joined, err := partySvc.JoinParty(ctx, party.ID, guest.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PartyFull, joined.Status)
	require.Len(t, joined.CurrentGuests, 1)
	require.Equal(t, guest.ID, joined.CurrentGuests[0].UserID)

	late := registerUser(t, authSvc, "late@example.com")
	_, err = partySvc.JoinParty(ctx, party.ID, late.ID)
	require.ErrorIs(t, err, ErrPartyNotOpen)

	require.NoError(t, partySvc.LeaveParty(ctx, party.ID, guest.ID))
	reopened, err := partySvc.GetParty(ctx, party.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PartyOpen, reopened.Status)
	require.Empty(t, reopened.CurrentGuests)

	mine, err := partySvc.ListHostedParties(ctx, host.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.ErrorIs(t, partySvc.CancelParty(ctx, party.ID, guest.ID), ErrPartyNotFound)
	require.NoError(t, partySvc.CancelParty(ctx, party.ID, host.ID))
}

func barPortalFixture(t *testing.T, repos testRepos) (*BarPortalService, *AdminService, domain.Bar, domain.Pass, domain.BarUser) {
	t.Helper()

	authSvc := NewAuthService(repos.users)
	barSvc := NewBarService(repos.bars)
	passSvc := NewPassService(repos.passes, repos.users, repos.bars, repos.settings)
	adminSvc := NewAdminService(repos.users, repos.passes, repos.bars, repos.barUsers, repos.settings)
	portalSvc := NewBarPortalService(repos.barUsers, repos.passes, repos.bars)
	ctx := context.Background()

	user := registerUser(t, authSvc, "mei@example.com")
	bar := createBar(t, barSvc, "Moonshine")
	pass, err := passSvc.Purchase(ctx, PurchaseInput{UserID: user.ID, BarID: bar.ID, PersonCount: 2, TotalPrice: 600})
	require.NoError(t, err)

	staff, err := adminSvc.CreateBarUser(ctx, domain.BarUser{
		BarID:       bar.ID,
		Email:       "staff@moonshine.example.com",
		Password:    "staffpass",
		DisplayName: "Door Staff",
		Role:        "staff",
	})
	require.NoError(t, err)
	require.Equal(t, bar.Name, staff.BarName)

	return portalSvc, adminSvc, bar, pass, staff
}

func TestBarPortalLogin(t *testing.T) {
	repos := setupRepos(t)
	portalSvc, _, bar, _, staff := barPortalFixture(t, repos)
	ctx := context.Background()

	logged, loggedBar, err := portalSvc.Login(ctx, staff.Email, "staffpass")
	require.NoError(t, err)
	require.Equal(t, staff.ID, logged.ID)
	require.Equal(t, bar.ID, loggedBar.ID)

	_, _, err = portalSvc.Login(ctx, staff.Email, "wrong")
	require.ErrorIs(t, err, ErrWrongPassword)

	_, _, err = portalSvc.Login(ctx, "nobody@example.com", "staffpass")
	require.ErrorIs(t, err, ErrBarUserNotFound)
}

func TestVerifyAndCollectPass(t *testing.T) {
	repos := setupRepos(t)
	portalSvc, _, bar, pass, staff := barPortalFixture(t, repos)
	ctx := context.Background()

	result, err := portalSvc.VerifyPass(ctx, bar.ID, pass.QRCode)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.False(t, result.IsExpired)
	require.Equal(t, pass.ID, result.Pass.ID)
	require.Equal(t, "Mei", result.Pass.UserName)

	_, err = portalSvc.VerifyPass(ctx, "other-bar", pass.QRCode)
	require.ErrorIs(t, err, ErrPassNotFound)

	collected, err := portalSvc.CollectPass(ctx, bar.ID, pass.ID, staff.ID)
	require.NoError(t, err)
	require.NotNil(t, collected.CollectedAt)

	again, err := portalSvc.CollectPass(ctx, bar.ID, pass.ID, staff.ID)
	require.ErrorIs(t, err, ErrPassAlreadyCollected)
	require.Equal(t, pass.ID, again.ID)

	today, err := portalSvc.PassesToday(ctx, bar.ID)
	require.NoError(t, err)
	require.Len(t, today, 1)

	collectedOnly := true
	history, err := portalSvc.PaymentHistory(ctx, bar.ID, HistoryFilter{Collected: &collectedOnly}, 50)
	require.NoError(t, err)
	require.Len(t, history, 1)

	uncollected := false
	history, err = portalSvc.PaymentHistory(ctx, bar.ID, HistoryFilter{Collected: &uncollected}, 50)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestAdminMemberAndSettings(t *testing.T) {
	repos := setupRepos(t)
	authSvc := NewAuthService(repos.users)
	adminSvc := NewAdminService(repos.users, repos.passes, repos.bars, repos.barUsers, repos.settings)
	ctx := context.Background()

	user := registerUser(t, authSvc, "mei@example.com")

	tier := domain.TierVIP
	expiry := time.Now().AddDate(0, 1, 0)
	updated, err := adminSvc.UpdateMember(ctx, user.ID, &tier, &expiry)
	require.NoError(t, err)
	require.Equal(t, domain.TierVIP, updated.MembershipTier)
	require.NotNil(t, updated.MembershipExpiry)

	members, err := adminSvc.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)

	fee := 0.3
	days := 14
	settings, err := adminSvc.UpdatePaymentSettings(ctx, domain.PaymentSettingsUpdate{
		PlatformFeePercentage: &fee,
		PassValidDays:         &days,
	})
	require.NoError(t, err)
	require.Equal(t, 0.3, settings.PlatformFeePercentage)
	require.Equal(t, 14, settings.PassValidDays)
	// Untouched fields keep their defaults.
	require.Equal(t, 10, settings.MaxPersonCount)

	require.NoError(t, adminSvc.DeleteMember(ctx, user.ID))
	members, err = adminSvc.ListMembers(ctx)
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestAdminCreateBarUserValidation(t *testing.T) {
	repos := setupRepos(t)
	_, adminSvc, bar, _, staff := barPortalFixture(t, repos)
	ctx := context.Background()

	_, err := adminSvc.CreateBarUser(ctx, domain.BarUser{
		BarID:    "missing",
		Email:    "x@example.com",
		Password: "pw",
		Role:     "staff",
	})
	require.ErrorIs(t, err, ErrBarNotFound)

	_, err = adminSvc.CreateBarUser(ctx, domain.BarUser{
		BarID:    bar.ID,
		Email:    staff.Email,
		Password: "pw",
		Role:     "owner",
	})
	require.ErrorIs(t, err, ErrBarUserEmailExists)
}

func TestRedeemCode(t *testing.T) {
	code := redeemCode(9)
	require.Len(t, code, 9)
	for _, r := range code {
		require.Contains(t, codeAlphabet, string(r))
	}

	// Two draws colliding would mean the generator is broken.
	require.NotEqual(t, redeemCode(9), redeemCode(9))
}
