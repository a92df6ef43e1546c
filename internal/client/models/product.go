package models

// Product is a saved catalogue item used to pre-fill invoice lines.
type Product struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	DescriptionEn string  `json:"descriptionEn,omitempty"`
	Price         float64 `json:"price"`
}
