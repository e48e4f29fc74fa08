package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/onenightdrink/api/internal/api/middleware"
)

var errNotAuthenticated = errors.New("not authenticated")

// userIDFromContext reads the identity the authenticator stored.
func userIDFromContext(ctx *gin.Context) (string, error) {
	userID := ctx.GetString(middleware.ContextKeyUserID)
	if userID == "" {
		return "", errNotAuthenticated
	}

	return userID, nil
}

func barIdentityFromContext(ctx *gin.Context) (barUserID, barID string, err error) {
	barUserID = ctx.GetString(middleware.ContextKeyBarUserID)
	barID = ctx.GetString(middleware.ContextKeyBarID)
	if barUserID == "" || barID == "" {
		return "", "", errNotAuthenticated
	}

	return barUserID, barID, nil
}
