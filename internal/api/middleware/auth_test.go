package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/onenightdrink/api/internal/pkg/jwthelper"
)

const testSigningKey = "test-signing-key"

func authRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body["error"]
}

func setupAuthRouter(epoch time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := NewAuthenticator(testSigningKey, epoch)

	r := gin.New()
	r.GET("/user", auth.VerifyUser(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"userId": ctx.GetString(ContextKeyUserID)})
	})
	r.GET("/admin", auth.VerifyAdmin(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"isAdmin": ctx.GetBool(ContextKeyIsAdmin)})
	})
	r.GET("/bar", auth.VerifyBar(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"barId": ctx.GetString(ContextKeyBarID)})
	})

	return r
}

func TestVerifyUser(t *testing.T) {
	r := setupAuthRouter(time.Time{})

	token, err := jwthelper.GenerateUserToken([]byte(testSigningKey), "user-1", "mei@example.com")
	require.NoError(t, err)

	w := authRequest(r, "/user", token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "user-1", body["userId"])
}

func TestVerifyUserMissingHeader(t *testing.T) {
	r := setupAuthRouter(time.Time{})

	w := authRequest(r, "/user", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Authorization header required (Bearer <token>)", errorBody(t, w))
}

func TestVerifyUserBadToken(t *testing.T) {
	r := setupAuthRouter(time.Time{})

	w := authRequest(r, "/user", "garbage")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Invalid or expired token", errorBody(t, w))
}

func TestVerifyUserTokenFromBeforeEpoch(t *testing.T) {
	token, err := jwthelper.GenerateUserToken([]byte(testSigningKey), "user-1", "mei@example.com")
	require.NoError(t, err)

	// An epoch after issuance simulates a restart: the token must die.
	r := setupAuthRouter(time.Now().Add(time.Hour))

	w := authRequest(r, "/user", token)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Token invalidated after server restart", errorBody(t, w))
}

func TestVerifyAdminRejectsUserToken(t *testing.T) {
	r := setupAuthRouter(time.Time{})

	userToken, err := jwthelper.GenerateUserToken([]byte(testSigningKey), "user-1", "mei@example.com")
	require.NoError(t, err)

	w := authRequest(r, "/admin", userToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := jwthelper.GenerateAdminToken([]byte(testSigningKey))
	require.NoError(t, err)

	w = authRequest(r, "/admin", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyBarRejectsOtherSchemes(t *testing.T) {
	r := setupAuthRouter(time.Time{})

	userToken, err := jwthelper.GenerateUserToken([]byte(testSigningKey), "user-1", "mei@example.com")
	require.NoError(t, err)

	// Parses structurally but carries no bar identity.
	w := authRequest(r, "/bar", userToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	barToken, err := jwthelper.GenerateBarToken([]byte(testSigningKey), "baruser-1", "bar-1")
	require.NoError(t, err)

	w = authRequest(r, "/bar", barToken)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "bar-1", body["barId"])
}
