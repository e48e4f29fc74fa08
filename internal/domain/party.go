package domain

import "time"

type PartyStatus string

const (
	PartyOpen      PartyStatus = "open"
	PartyFull      PartyStatus = "full"
	PartyCancelled PartyStatus = "cancelled"
	PartyCompleted PartyStatus = "completed"
)

type Party struct {
	ID              string        `json:"id"`
	HostID          string        `json:"hostId"`
	HostName        string        `json:"hostName"`
	HostDisplayName string        `json:"hostDisplayName,omitempty"`
	HostAvatar      string        `json:"hostAvatar,omitempty"`
	PassID          string        `json:"passId"`
	BarID           string        `json:"barId"`
	BarName         string        `json:"barName"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	MaxFemaleGuests int           `json:"maxFemaleGuests"`
	PartyTime       time.Time     `json:"partyTime"`
	Status          PartyStatus   `json:"status"`
	CurrentGuests   []PartyMember `json:"currentGuests"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// PartyMember snapshots the joining user's public profile at join time.
type PartyMember struct {
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Gender      string    `json:"gender"`
	JoinedAt    time.Time `json:"joinedAt"`
}
