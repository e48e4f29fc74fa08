package domain

import "time"

// QRPayloadType tags the JSON blob embedded in every pass QR code.
const QRPayloadType = "ONENIGHTDRINK_FREE_DRINKS"

type Pass struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	BarID         string     `json:"barId"`
	BarName       string     `json:"barName"`
	PersonCount   int        `json:"personCount"`
	TotalPrice    float64    `json:"totalPrice"`
	PlatformFee   float64    `json:"platformFee"`
	BarPayment    float64    `json:"barPayment"`
	PurchaseTime  time.Time  `json:"purchaseTime"`
	ExpiryTime    time.Time  `json:"expiryTime"`
	QRCode        string     `json:"qrCode"`
	QRCodeImage   string     `json:"qrCodeImage,omitempty"` // base64 PNG, populated on purchase
	IsActive      bool       `json:"isActive"`
	TransactionID string     `json:"transactionId,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	CollectedAt   *time.Time `json:"collectedAt,omitempty"`
	CollectedBy   string     `json:"collectedBy,omitempty"`

	// Joined user contact, present on admin and bar-portal reads.
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
	UserPhone string `json:"userPhone,omitempty"`
}

// Valid reports whether the pass can still be redeemed at the given instant.
func (p Pass) Valid(now time.Time) bool {
	return p.IsActive && now.Before(p.ExpiryTime)
}

// QRPayload is the JSON document serialized into the pass QR image.
// It carries no signature; the bar portal authenticates a scan by looking
// the pass up server-side, not by trusting the payload.
type QRPayload struct {
	Type          string  `json:"type"`
	PassID        string  `json:"passId"`
	BarID         string  `json:"barId"`
	BarName       string  `json:"barName"`
	PersonCount   int     `json:"personCount"`
	BarPayment    float64 `json:"barPayment"`
	UserName      string  `json:"userName"`
	UserPhone     string  `json:"userPhone"`
	Expiry        string  `json:"expiry"` // RFC 3339
	TransactionID string  `json:"transactionId,omitempty"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	Code          string  `json:"code"`
}
