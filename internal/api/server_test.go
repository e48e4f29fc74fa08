package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onenightdrink/api/internal/config"
	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository/dao"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:      "test",
			Port:             "8080",
			SiteURL:          "https://onenightdrink.example.com",
			JWTSigningKey:    "test-user-key",
			BarJWTSigningKey: "test-bar-key",
			AdminPassword:    "admin-secret",
		},
		Gin: &config.GinConfig{Mode: "test"},
	}

	return NewServer(conf, db, time.Time{})
}

func do(s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	return w
}

type loginPayload struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func registerAndLogin(t *testing.T, s *Server, email string) loginPayload {
	t.Helper()

	w := do(s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret123",
		"name":     "Mei",
		"phone":    "+85291234567",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var payload loginPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Token)

	return payload
}

func adminToken(t *testing.T, s *Server) string {
	t.Helper()

	w := do(s, http.MethodPost, "/api/auth/admin/login", "", map[string]string{"password": "admin-secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))

	return payload.Token
}

func createBarAsAdmin(t *testing.T, s *Server, token string) domain.Bar {
	t.Helper()

	w := do(s, http.MethodPost, "/api/bars", token, map[string]any{
		"name":       "Moonshine",
		"nameEn":     "Moonshine",
		"districtId": "lkf",
		"address":    "1 D'Aguilar Street",
		"drinks":     []string{"beer", "whisky"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var bar domain.Bar
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bar))

	return bar
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	session := registerAndLogin(t, s, "mei@example.com")
	require.Equal(t, "mei@example.com", session.User.Email)

	// Duplicate registration is a 400 with the canonical message.
	w := do(s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "mei@example.com", "password": "secret123", "name": "Dup", "phone": "+85291234567",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong password is a 401 invalid credentials.
	w = do(s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "mei@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var errBody map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	require.Equal(t, "Invalid credentials", errBody["error"])

	w = do(s, http.MethodGet, "/api/auth/me", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, session.User.ID, me.ID)

	// No token, no profile.
	w = do(s, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "secret123", "name": "Mei", "phone": "+85291234567",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "mei@example.com", "password": "short", "name": "Mei", "phone": "+85291234567",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodPost, "/api/auth/admin/login", "", map[string]string{"password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := adminToken(t, s)
	require.NotEmpty(t, token)

	// Admin token opens the members listing.
	w = do(s, http.MethodGet, "/api/admin/members", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPurchaseAndListPasses(t *testing.T) {
	s := newTestServer(t)

	admin := adminToken(t, s)
	bar := createBarAsAdmin(t, s, admin)
	session := registerAndLogin(t, s, "mei@example.com")

	w := do(s, http.MethodPost, "/api/passes", session.Token, map[string]any{
		"barId":         bar.ID,
		"personCount":   2,
		"totalPrice":    600,
		"paymentMethod": "payme",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var pass domain.Pass
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pass))
	require.Equal(t, 300.0, pass.PlatformFee)
	require.NotEmpty(t, pass.QRCodeImage)

	w = do(s, http.MethodGet, "/api/passes/active", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active []domain.Pass
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	require.Len(t, active, 1)

	// Unknown bar is a 400.
	w = do(s, http.MethodPost, "/api/passes", session.Token, map[string]any{
		"barId": "missing", "personCount": 1, "totalPrice": 300,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPartyLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	admin := adminToken(t, s)
	bar := createBarAsAdmin(t, s, admin)
	host := registerAndLogin(t, s, "host@example.com")
	guest := registerAndLogin(t, s, "guest@example.com")

	w := do(s, http.MethodPost, "/api/passes", host.Token, map[string]any{
		"barId": bar.ID, "personCount": 4, "totalPrice": 1200,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var pass domain.Pass
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pass))

	w = do(s, http.MethodPost, "/api/parties", host.Token, map[string]any{
		"passId":          pass.ID,
		"title":           "Friday drinks",
		"maxFemaleGuests": 1,
		"partyTime":       time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var party domain.Party
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &party))
	require.Equal(t, domain.PartyOpen, party.Status)

	// Open parties are public.
	w = do(s, http.MethodGet, "/api/parties", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var open []domain.Party
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &open))
	require.Len(t, open, 1)

	w = do(s, http.MethodPost, "/api/parties/"+party.ID+"/join", guest.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var joined domain.Party
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &joined))
	require.Equal(t, domain.PartyFull, joined.Status)

	// Full party no longer shows in the open listing.
	w = do(s, http.MethodGet, "/api/parties", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	open = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &open))
	require.Empty(t, open)

	w = do(s, http.MethodPost, "/api/parties/"+party.ID+"/join", guest.Token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var fullBody map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fullBody))
	require.Equal(t, "party is full", fullBody["error"])

	w = do(s, http.MethodDelete, "/api/parties/"+party.ID+"/leave", guest.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Only the host cancels.
	w = do(s, http.MethodDelete, "/api/parties/"+party.ID, guest.Token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	var errBody map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	require.Equal(t, "Party not found or unauthorized", errBody["error"])

	w = do(s, http.MethodDelete, "/api/parties/"+party.ID, host.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBarPortalFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	admin := adminToken(t, s)
	bar := createBarAsAdmin(t, s, admin)
	session := registerAndLogin(t, s, "mei@example.com")

	w := do(s, http.MethodPost, "/api/passes", session.Token, map[string]any{
		"barId": bar.ID, "personCount": 2, "totalPrice": 600,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var pass domain.Pass
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pass))

	w = do(s, http.MethodPost, "/api/admin/bar-users", admin, map[string]string{
		"barId":       bar.ID,
		"email":       "staff@moonshine.example.com",
		"password":    "staffpass",
		"displayName": "Door Staff",
		"role":        "staff",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(s, http.MethodPost, "/api/bar-portal/auth/login", "", map[string]string{
		"email": "staff@moonshine.example.com", "password": "staffpass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var portal struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &portal))
	require.NotEmpty(t, portal.Token)

	// A user token does not open the portal.
	w = do(s, http.MethodGet, "/api/bar-portal/passes/today", session.Token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(s, http.MethodPost, "/api/bar-portal/passes/verify", portal.Token, map[string]string{
		"passId": pass.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var verify struct {
		Valid     bool `json:"valid"`
		IsExpired bool `json:"isExpired"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verify))
	require.True(t, verify.Valid)
	require.False(t, verify.IsExpired)

	w = do(s, http.MethodPost, "/api/bar-portal/passes/collect", portal.Token, map[string]string{
		"passId": pass.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Double collection is a conflict and reports the existing pass.
	w = do(s, http.MethodPost, "/api/bar-portal/passes/collect", portal.Token, map[string]string{
		"passId": pass.ID,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(s, http.MethodPost, "/api/bar-portal/passes/verify", portal.Token, map[string]string{
		"passId": "missing",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	var notFound map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notFound))
	require.Equal(t, false, notFound["valid"])
	require.Equal(t, "Pass not found for this bar", notFound["error"])
}

func TestSEORoutes(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/robots.txt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Disallow: /admin")

	w = do(s, http.MethodGet, "/sitemap.xml", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "https://onenightdrink.example.com/bars")
}
