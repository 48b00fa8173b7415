package integration

import "github.com/shopspring/decimal"

// LineAmounts holds the monetary figures written to one ERP order line
type LineAmounts struct {
	Untaxed decimal.Decimal
	Tax     decimal.Decimal
	Total   decimal.Decimal
}

// ComputeLineAmounts applies the configured tax rate to price x quantity.
// All arithmetic is exact decimal.
func ComputeLineAmounts(price, quantity, taxRate decimal.Decimal) LineAmounts {
	untaxed := price.Mul(quantity)
	tax := untaxed.Mul(taxRate)
	return LineAmounts{
		Untaxed: untaxed,
		Tax:     tax,
		Total:   untaxed.Add(tax),
	}
}

// TaxRatePercent converts a fractional rate (0.13) to the ERP's percent form (13).
func TaxRatePercent(rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(100))
}
