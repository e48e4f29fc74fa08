package domain

type Bar struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	NameEn     string   `json:"nameEn"`
	DistrictID string   `json:"districtId"`
	Address    string   `json:"address"`
	Image      string   `json:"image"`
	Rating     float64  `json:"rating"`
	Drinks     []string `json:"drinks"`
	IsFeatured bool     `json:"isFeatured"`
}

// BarUpdate is a partial edit of a bar row. Admin may touch every field;
// the bar portal applies the same shape to its own row only.
type BarUpdate struct {
	Name       *string
	NameEn     *string
	DistrictID *string
	Address    *string
	Image      *string
	Rating     *float64
	Drinks     []string
}
