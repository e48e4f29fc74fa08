package response

import "github.com/onenightdrink/api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
}

type BarLoginResponse struct {
	Token   string         `json:"token"`
	BarUser domain.BarUser `json:"barUser"`
	Bar     domain.Bar     `json:"bar"`
}
