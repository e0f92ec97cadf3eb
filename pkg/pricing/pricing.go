package pricing

import "github.com/shopspring/decimal"

// Plan identifiers exposed to callers. These are the only valid values for
// the planId field of a checkout request.
const (
	PlanOneMonth     = "1-month"
	PlanSixMonths    = "6-months"
	PlanTwelveMonths = "12-months"
)

// terms maps plan identifiers to term lengths in months.
var terms = map[string]int{
	PlanOneMonth:     1,
	PlanSixMonths:    6,
	PlanTwelveMonths: 12,
}

// discountPercents maps term lengths to their discount. Terms outside this
// table are invalid and must be rejected before pricing is computed.
var discountPercents = map[int]int64{
	1:  0,
	6:  20,
	12: 35,
}

// TermForPlanID resolves a plan identifier to its term length in months.
func TermForPlanID(planID string) (int, bool) {
	months, ok := terms[planID]
	return months, ok
}

// PlanOffer is one purchasable subscription term with its computed pricing.
type PlanOffer struct {
	ID                   string  `json:"id"`
	TermMonths           int     `json:"term_months"`
	BasePrice            float64 `json:"base_price"`
	DiscountPercent      int64   `json:"discount_percent"`
	FinalPrice           float64 `json:"final_price"`
	FinalPriceMinorUnits int64   `json:"final_price_minor_units"`
	IsRecommended        bool    `json:"is_recommended"`
}

// ComputePlanPrices computes the tiered price for a term. monthlyPrice is the
// profile's monthly subscription price in major units. The result is rounded
// half-up to cents; FinalPriceMinorUnits is the amount the processor charges.
//
// Pure and deterministic. Callers are responsible for only passing terms from
// the discount table (1, 6 or 12 months).
func ComputePlanPrices(monthlyPrice float64, termMonths int) PlanOffer {
	monthly := decimal.NewFromFloat(monthlyPrice)
	base := monthly.Mul(decimal.NewFromInt(int64(termMonths))).Round(2)

	discount := discountPercents[termMonths]
	final := base.
		Mul(decimal.NewFromInt(100 - discount)).
		Div(decimal.NewFromInt(100)).
		Round(2)

	basePrice, _ := base.Float64()
	finalPrice, _ := final.Float64()

	return PlanOffer{
		ID:                   planIDForTerm(termMonths),
		TermMonths:           termMonths,
		BasePrice:            basePrice,
		DiscountPercent:      discount,
		FinalPrice:           finalPrice,
		FinalPriceMinorUnits: final.Mul(decimal.NewFromInt(100)).IntPart(),
	}
}

// BuildPlanOffers returns the three offers for a profile's monthly price,
// ordered by term length. The 12-month term is the recommended one.
func BuildPlanOffers(monthlyPrice float64) []PlanOffer {
	offers := []PlanOffer{
		ComputePlanPrices(monthlyPrice, 1),
		ComputePlanPrices(monthlyPrice, 6),
		ComputePlanPrices(monthlyPrice, 12),
	}
	offers[2].IsRecommended = true
	return offers
}

func planIDForTerm(months int) string {
	for id, m := range terms {
		if m == months {
			return id
		}
	}
	return ""
}
