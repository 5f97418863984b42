package catalog

import (
	"encoding/json"
	"math"
)

const (
	// Products priced above this threshold are taxed at the higher rate
	// and are subject to probabilistic stock-checks.
	expensiveThreshold = 100.0

	regularTaxRate   = 0.10
	expensiveTaxRate = 0.15
)

type Product struct {
	UID          string
	Title        string
	BasePrice    float64
	Description  string
	Category     string
	ImageRef     string
	IsExpensive  bool
	PriceWithTax float64
}

// productPayload is the wire-format of the remote product-api
type productPayload struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Image       string      `json:"image"`
}

func (p productPayload) toProduct() Product {
	isExpensive := p.Price > expensiveThreshold

	taxRate := regularTaxRate
	if isExpensive {
		taxRate = expensiveTaxRate
	}

	return Product{
		UID:          p.ID.String(),
		Title:        p.Title,
		BasePrice:    p.Price,
		Description:  p.Description,
		Category:     p.Category,
		ImageRef:     p.Image,
		IsExpensive:  isExpensive,
		PriceWithTax: round2(p.Price * (1 + taxRate)),
	}
}

func round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
