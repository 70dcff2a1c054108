package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pasarly/backend-pasar/internal/pricing"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineTotalExact(t *testing.T) {
	total, err := pricing.LineTotal(3, dec("19.99"))
	require.NoError(t, err)
	require.True(t, total.Equal(dec("59.97")), "got %s", total)
}

func TestLineTotalRejectsZeroQty(t *testing.T) {
	_, err := pricing.LineTotal(0, dec("10"))
	require.ErrorIs(t, err, pricing.ErrInvalidQuantity)
}

func TestLineTotalRejectsNegativeQty(t *testing.T) {
	_, err := pricing.LineTotal(-2, dec("10"))
	require.ErrorIs(t, err, pricing.ErrInvalidQuantity)
}

func TestLineTotalRejectsNegativePrice(t *testing.T) {
	_, err := pricing.LineTotal(1, dec("-0.01"))
	require.ErrorIs(t, err, pricing.ErrInvalidPrice)
}

func TestComputePostDiscountTax(t *testing.T) {
	items := []pricing.LineItem{{Name: "consulting", Qty: 2, UnitPrice: dec("100")}}
	totals, err := pricing.Compute(items, dec("10"), dec("8.5"), pricing.TaxPostDiscount)
	require.NoError(t, err)
	require.True(t, totals.Subtotal.Equal(dec("200")), "subtotal %s", totals.Subtotal)
	require.True(t, totals.DiscountAmount.Equal(dec("20")), "discount %s", totals.DiscountAmount)
	require.True(t, totals.TaxAmount.Equal(dec("15.3")), "tax %s", totals.TaxAmount)
	require.True(t, totals.Total.Equal(dec("195.3")), "total %s", totals.Total)
}

func TestComputePreDiscountTax(t *testing.T) {
	items := []pricing.LineItem{{Name: "consulting", Qty: 2, UnitPrice: dec("100")}}
	totals, err := pricing.Compute(items, dec("10"), dec("8.5"), pricing.TaxPreDiscount)
	require.NoError(t, err)
	// tax on the full subtotal: 200 * 8.5% = 17
	require.True(t, totals.TaxAmount.Equal(dec("17")), "tax %s", totals.TaxAmount)
	require.True(t, totals.Total.Equal(dec("197")), "total %s", totals.Total)
}

func TestComputeEmptyItems(t *testing.T) {
	totals, err := pricing.Compute(nil, dec("50"), dec("20"), pricing.TaxPreDiscount)
	require.NoError(t, err)
	require.True(t, totals.Subtotal.IsZero())
	require.True(t, totals.DiscountAmount.IsZero())
	require.True(t, totals.TaxAmount.IsZero())
	require.True(t, totals.Total.IsZero())
}

func TestComputeZeroRatesKeepSubtotal(t *testing.T) {
	items := []pricing.LineItem{
		{Name: "a", Qty: 1, UnitPrice: dec("12.34")},
		{Name: "b", Qty: 3, UnitPrice: dec("0.99")},
	}
	totals, err := pricing.Compute(items, decimal.Zero, decimal.Zero, pricing.TaxPostDiscount)
	require.NoError(t, err)
	require.True(t, totals.Total.Equal(totals.Subtotal))
}

func TestComputeDiscountNeverExceedsSubtotal(t *testing.T) {
	items := []pricing.LineItem{{Name: "a", Qty: 4, UnitPrice: dec("25")}}
	totals, err := pricing.Compute(items, dec("100"), dec("11"), pricing.TaxPostDiscount)
	require.NoError(t, err)
	require.True(t, totals.DiscountAmount.LessThanOrEqual(totals.Subtotal))
	require.False(t, totals.Total.IsNegative())
}

func TestComputeRejectsOutOfRangePercentages(t *testing.T) {
	items := []pricing.LineItem{{Name: "a", Qty: 1, UnitPrice: dec("10")}}
	_, err := pricing.Compute(items, dec("101"), decimal.Zero, pricing.TaxPostDiscount)
	require.ErrorIs(t, err, pricing.ErrInvalidPercentage)

	_, err = pricing.Compute(items, decimal.Zero, dec("-1"), pricing.TaxPostDiscount)
	require.ErrorIs(t, err, pricing.ErrInvalidPercentage)
}

func TestComputeRejectsInvalidLine(t *testing.T) {
	items := []pricing.LineItem{{Name: "a", Qty: 0, UnitPrice: dec("10")}}
	_, err := pricing.Compute(items, decimal.Zero, decimal.Zero, pricing.TaxPostDiscount)
	require.ErrorIs(t, err, pricing.ErrInvalidQuantity)
}

func TestComputeIdempotent(t *testing.T) {
	items := []pricing.LineItem{
		{Name: "a", Qty: 2, UnitPrice: dec("33.33")},
		{Name: "b", Qty: 5, UnitPrice: dec("7.77")},
	}
	first, err := pricing.Compute(items, dec("12.5"), dec("7.25"), pricing.TaxPostDiscount)
	require.NoError(t, err)
	second, err := pricing.Compute(items, dec("12.5"), dec("7.25"), pricing.TaxPostDiscount)
	require.NoError(t, err)
	require.True(t, first.Total.Equal(second.Total))
	require.True(t, first.TaxAmount.Equal(second.TaxAmount))
}

func TestParseTaxBase(t *testing.T) {
	base, err := pricing.ParseTaxBase("pre-discount")
	require.NoError(t, err)
	require.Equal(t, pricing.TaxPreDiscount, base)

	base, err = pricing.ParseTaxBase("")
	require.NoError(t, err)
	require.Equal(t, pricing.TaxPostDiscount, base)

	_, err = pricing.ParseTaxBase("flat")
	require.Error(t, err)
}
