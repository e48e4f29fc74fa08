package client

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onenightdrink/api/internal/api"
	"github.com/onenightdrink/api/internal/config"
	"github.com/onenightdrink/api/internal/repository/dao"
)

func startTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:      "test",
			SiteURL:          "https://onenightdrink.example.com",
			JWTSigningKey:    "client-test-user-key",
			BarJWTSigningKey: "client-test-bar-key",
			AdminPassword:    "admin-secret",
		},
		Gin: &config.GinConfig{Mode: "test"},
	}
	server := api.NewServer(conf, db, time.Time{})

	ts := httptest.NewServer(server.Router)
	t.Cleanup(ts.Close)

	return ts
}

func TestClientAuthFlow(t *testing.T) {
	ts := startTestAPI(t)
	c := New(ts.URL)
	ctx := context.Background()

	result, err := c.Register(ctx, RegisterInput{
		Email:    "mei@example.com",
		Password: "secret123",
		Name:     "Mei",
		Phone:    "+85291234567",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	c.SetToken(result.Token)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "mei@example.com", me.Email)

	// Bad credentials surface as a typed APIError.
	_, err = c.Login(ctx, "mei@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.StatusCode)
	require.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestClientPurchaseThroughStore(t *testing.T) {
	ts := startTestAPI(t)
	c := New(ts.URL)
	ctx := context.Background()

	// Seed a bar via the admin session.
	admin, err := c.AdminLogin(ctx, "admin-secret")
	require.NoError(t, err)
	c.SetToken(admin)
	bar, err := c.CreateBar(ctx, CreateBarInput{
		Name:       "Moonshine",
		NameEn:     "Moonshine",
		DistrictID: "lkf",
		Address:    "1 D'Aguilar Street",
	})
	require.NoError(t, err)
	c.SetToken("")

	store := NewStore(c)
	_, err = c.Register(ctx, RegisterInput{
		Email:    "mei@example.com",
		Password: "secret123",
		Name:     "Mei",
		Phone:    "+85291234567",
	})
	require.NoError(t, err)
	_, err = store.Login(ctx, "mei@example.com", "secret123")
	require.NoError(t, err)
	require.True(t, store.Authenticated())

	pass, err := store.PurchasePass(ctx, PurchasePassInput{
		BarID:       bar.ID,
		PersonCount: 2,
		TotalPrice:  600,
	})
	require.NoError(t, err)
	require.Equal(t, bar.ID, pass.BarID)

	active := store.ActivePasses()
	require.Len(t, active, 1)

	user := store.CurrentUser()
	require.NotNil(t, user)
	require.Equal(t, 600.0, user.TotalSpent)
}
