package domain

import "time"

type BarUser struct {
	ID          string    `json:"id"`
	BarID       string    `json:"barId"`
	BarName     string    `json:"barName,omitempty"` // joined, admin listing only
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"` // "owner" or "staff"
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}
