package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/onenightdrink/api/internal/domain"
)

type UpdateMemberRequest struct {
	MembershipTier   *string    `json:"membershipTier"`
	MembershipExpiry *time.Time `json:"membershipExpiry"`
}

func (req *UpdateMemberRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.MembershipTier, validation.In("free", "premium", "vip")),
	)
}

type UpdatePaymentSettingsRequest struct {
	PlatformFeePercentage *float64 `json:"platformFeePercentage"`
	MinPersonCount        *int     `json:"minPersonCount"`
	MaxPersonCount        *int     `json:"maxPersonCount"`
	PassValidDays         *int     `json:"passValidDays"`
	StripeEnabled         *bool    `json:"stripeEnabled"`
	PaymeEnabled          *bool    `json:"paymeEnabled"`
	FpsEnabled            *bool    `json:"fpsEnabled"`
	AlipayEnabled         *bool    `json:"alipayEnabled"`
	WechatEnabled         *bool    `json:"wechatEnabled"`
	TestMode              *bool    `json:"testMode"`
	PaymeQRCode           *string  `json:"paymeQrCode"`
	FpsQRCode             *string  `json:"fpsQrCode"`
	AlipayQRCode          *string  `json:"alipayQrCode"`
	WechatQRCode          *string  `json:"wechatQrCode"`
}

func (req *UpdatePaymentSettingsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PlatformFeePercentage, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&req.MinPersonCount, validation.Min(1)),
		validation.Field(&req.MaxPersonCount, validation.Min(1), validation.Max(10)),
		validation.Field(&req.PassValidDays, validation.Min(1)),
	)
}

// ToUpdate maps onto the domain partial-update shape.
func (req *UpdatePaymentSettingsRequest) ToUpdate() domain.PaymentSettingsUpdate {
	return domain.PaymentSettingsUpdate{
		PlatformFeePercentage: req.PlatformFeePercentage,
		MinPersonCount:        req.MinPersonCount,
		MaxPersonCount:        req.MaxPersonCount,
		PassValidDays:         req.PassValidDays,
		StripeEnabled:         req.StripeEnabled,
		PaymeEnabled:          req.PaymeEnabled,
		FpsEnabled:            req.FpsEnabled,
		AlipayEnabled:         req.AlipayEnabled,
		WechatEnabled:         req.WechatEnabled,
		TestMode:              req.TestMode,
		PaymeQRCode:           req.PaymeQRCode,
		FpsQRCode:             req.FpsQRCode,
		AlipayQRCode:          req.AlipayQRCode,
		WechatQRCode:          req.WechatQRCode,
	}
}

type AdItemRequest struct {
	Image   string `json:"image"`
	Link    string `json:"link"`
	Enabled bool   `json:"enabled"`
}

type UpdateAdSettingsRequest struct {
	HomeAds    []AdItemRequest `json:"homeAds"`
	PartiesAds []AdItemRequest `json:"partiesAds"`
	ProfileAds []AdItemRequest `json:"profileAds"`
}

func (req *UpdateAdSettingsRequest) Validate() error {
	return nil
}

// ToSettings maps onto the domain ad settings shape.
func (req *UpdateAdSettingsRequest) ToSettings() domain.AdSettings {
	return domain.AdSettings{
		HomeAds:    adItemsToDomain(req.HomeAds),
		PartiesAds: adItemsToDomain(req.PartiesAds),
		ProfileAds: adItemsToDomain(req.ProfileAds),
	}
}

func adItemsToDomain(items []AdItemRequest) []domain.AdItem {
	out := make([]domain.AdItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.AdItem{Image: it.Image, Link: it.Link, Enabled: it.Enabled})
	}

	return out
}

type CreateBarUserRequest struct {
	BarID       string `json:"barId"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

func (req *CreateBarUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BarID, validation.Required),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(6, 0)),
		validation.Field(&req.DisplayName, validation.Required),
		validation.Field(&req.Role, validation.Required, validation.In("owner", "staff")),
	)
}
