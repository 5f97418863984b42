package cart

import (
	"math"
	"time"

	"github.com/MarcGrol/shoppingcart/services/catalog"
)

const (
	// Orders above this subtotal get the discount over the full amount,
	// a hard cliff rather than a marginal rate.
	discountThreshold = 500.0
	discountRate      = 0.05
)

type Cart struct {
	UID          string
	CreatedAt    time.Time
	LastModified *time.Time
	Lines        []CartLine
}

// CartLine is the quantity/pricing entry of a single product within a
// cart. A cart holds at most one line per product uid.
type CartLine struct {
	ProductUID       string
	Title            string
	UnitPrice        float64
	UnitPriceWithTax float64
	Quantity         int
	Subtotal         float64
	IsExpensive      bool
}

// upsertLine increments the existing line for the product or appends a
// new one, recomputing the line subtotal on every mutation.
func (crt *Cart) upsertLine(product catalog.Product, quantity int) CartLine {
	for i := range crt.Lines {
		if crt.Lines[i].ProductUID == product.UID {
			crt.Lines[i].Quantity += quantity
			crt.Lines[i].Subtotal = float64(crt.Lines[i].Quantity) * crt.Lines[i].UnitPriceWithTax
			return crt.Lines[i]
		}
	}

	line := CartLine{
		ProductUID:       product.UID,
		Title:            product.Title,
		UnitPrice:        product.BasePrice,
		UnitPriceWithTax: product.PriceWithTax,
		Quantity:         quantity,
		Subtotal:         float64(quantity) * product.PriceWithTax,
		// snapshot taken at insertion-time, deliberately never refreshed
		IsExpensive: product.IsExpensive,
	}
	crt.Lines = append(crt.Lines, line)

	return line
}

func (crt Cart) copyOfLines() []CartLine {
	lines := make([]CartLine, len(crt.Lines))
	copy(lines, crt.Lines)

	return lines
}

type Summary struct {
	CartUID    string
	TotalItems int
	Subtotal   float64
	Discount   float64
	Total      float64
}

// Summarize rounds the subtotal first and then rounds discount and
// total independently of each other. This exact order is kept for
// compatibility with existing consumers even though it can introduce a
// one-cent artifact.
func (crt Cart) Summarize() Summary {
	totalItems := 0
	sum := 0.0
	for _, line := range crt.Lines {
		totalItems += line.Quantity
		sum += line.Subtotal
	}

	subtotal := round2(sum)

	discount := 0.0
	if subtotal > discountThreshold {
		discount = round2(subtotal * discountRate)
	}

	return Summary{
		CartUID:    crt.UID,
		TotalItems: totalItems,
		Subtotal:   subtotal,
		Discount:   discount,
		Total:      round2(subtotal - discount),
	}
}

type ValidationReport struct {
	CartUID     string
	Valid       bool
	LineCount   int
	Available   []CartLine
	Unavailable []CartLine
}

func round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
