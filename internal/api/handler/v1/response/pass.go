package response

import "github.com/onenightdrink/api/internal/domain"

// VerifyPassResponse reports a scanned pass back to the bar portal. An
// expired or revoked pass still returns its row so staff can see why the
// scan failed.
type VerifyPassResponse struct {
	Valid     bool        `json:"valid"`
	IsExpired bool        `json:"isExpired"`
	Pass      domain.Pass `json:"pass"`
}

type CollectPassResponse struct {
	Message string      `json:"message"`
	Pass    domain.Pass `json:"pass"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
