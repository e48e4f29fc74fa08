package domain

type PaymentSettings struct {
	PlatformFeePercentage float64 `json:"platformFeePercentage"`
	MinPersonCount        int     `json:"minPersonCount"`
	MaxPersonCount        int     `json:"maxPersonCount"`
	PassValidDays         int     `json:"passValidDays"`
	StripeEnabled         bool    `json:"stripeEnabled"`
	PaymeEnabled          bool    `json:"paymeEnabled"`
	FpsEnabled            bool    `json:"fpsEnabled"`
	AlipayEnabled         bool    `json:"alipayEnabled"`
	WechatEnabled         bool    `json:"wechatEnabled"`
	TestMode              bool    `json:"testMode"`
	PaymeQRCode           string  `json:"paymeQrCode,omitempty"`
	FpsQRCode             string  `json:"fpsQrCode,omitempty"`
	AlipayQRCode          string  `json:"alipayQrCode,omitempty"`
	WechatQRCode          string  `json:"wechatQrCode,omitempty"`
}

type AdItem struct {
	Image   string `json:"image"`
	Link    string `json:"link"`
	Enabled bool   `json:"enabled"`
}

type AdSettings struct {
	HomeAds    []AdItem `json:"homeAds"`
	PartiesAds []AdItem `json:"partiesAds"`
	ProfileAds []AdItem `json:"profileAds"`
}

// PaymentSettingsUpdate carries a partial update; nil fields are untouched.
type PaymentSettingsUpdate struct {
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
