package jwthelper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	userTokenTTL  = 7 * 24 * time.Hour
	adminTokenTTL = 24 * time.Hour
	barTokenTTL   = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// UserClaims identify a registered app user.
type UserClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AdminClaims identify the back-office admin session.
type AdminClaims struct {
	IsAdmin bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// BarClaims identify a bar-portal staff account. Signed with a separate key
// so a user token can never pass bar authentication.
type BarClaims struct {
	BarUserID string `json:"barUserId"`
	BarID     string `json:"barId"`
	jwt.RegisteredClaims
}

func GenerateUserToken(signingKey []byte, userID, email string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(userTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}

func GenerateAdminToken(signingKey []byte) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}

func GenerateBarToken(signingKey []byte, barUserID, barID string) (string, error) {
	now := time.Now()
	claims := BarClaims{
		BarUserID: barUserID,
		BarID:     barID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(barTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}

func ParseUserToken(signingKey []byte, tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	if err := parse(signingKey, tokenString, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func ParseAdminToken(signingKey []byte, tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	if err := parse(signingKey, tokenString, claims); err != nil {
		return nil, err
	}
	if !claims.IsAdmin {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func ParseBarToken(signingKey []byte, tokenString string) (*BarClaims, error) {
	claims := &BarClaims{}
	if err := parse(signingKey, tokenString, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func parse(signingKey []byte, tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return signingKey, nil
	})
	if err != nil {
		return fmt.Errorf("jwt.ParseWithClaims -> %w", err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}

	return nil
}
