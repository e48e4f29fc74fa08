package domain

import "time"

type MembershipTier string

const (
	TierFree    MembershipTier = "free"
	TierPremium MembershipTier = "premium"
	TierVIP     MembershipTier = "vip"
)

type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Password         string         `json:"-"`
	Name             string         `json:"name"`
	Phone            string         `json:"phone"`
	Avatar           string         `json:"avatar,omitempty"`
	DisplayName      string         `json:"displayName,omitempty"`
	Gender           string         `json:"gender,omitempty"` // "male" or "female"
	Age              *int           `json:"age,omitempty"`
	HeightCm         *int           `json:"heightCm,omitempty"`
	DrinkCapacity    string         `json:"drinkCapacity,omitempty"`
	MembershipTier   MembershipTier `json:"membershipTier"`
	MembershipExpiry *time.Time     `json:"membershipExpiry,omitempty"`
	JoinedAt         time.Time      `json:"joinedAt"`
	TotalSpent       float64        `json:"totalSpent"`
	TotalVisits      int            `json:"totalVisits"`
}

// ProfileUpdate carries the fields a user may change about themselves.
// Nil means "leave as is".
type ProfileUpdate struct {
	Name        *string
	Phone       *string
	Avatar      *string
	DisplayName *string
	Gender      *string
}
