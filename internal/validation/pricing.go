package validation

import (
	"github.com/samber/lo"

	"github.com/Domenick1991/offercheck/internal/codec"
	"github.com/Domenick1991/offercheck/internal/domain"
)

// PriceArithmetic checks that totals add up.
//
// Traveler level: total = base + Σtaxes + Σfees.
// Offer level: total = base + Σfees + Σtaxes of all traveler pricings, and
// the traveler totals add up to the offer total. A grand total above the
// total is reported as a warning (additional charges), below it as an
// error.
type PriceArithmetic struct {
	Tolerance int
}

func (PriceArithmetic) ID() string { return domain.RulePriceMismatch }

func (r PriceArithmetic) Check(in *Input) []domain.Violation {
	out := make([]domain.Violation, 0)
	for _, offer := range in.Payload.Offers {
		path := domain.OfferPath(offer.Position) + ".price"
		price := offer.Price

		sameCurrency := lo.EveryBy(offer.TravelerPricings, func(tp domain.TravelerPricing) bool {
			return tp.Price.Currency == price.Currency
		})

		for i, tp := range offer.TravelerPricings {
			p := tp.Price
			want := codec.Sum(p.Currency, p.Base, sumTaxes(p), sumFees(p))
			if !codec.WithinMinorUnits(p.Total, want, r.Tolerance) {
				out = append(out, domain.Errorf(r.ID(), domain.TravelerPricingPath(offer.Position, i)+".price.total",
					"total %s %s does not equal base plus taxes and fees %s", p.Total, p.Currency, want))
			}
		}

		want := codec.Sum(price.Currency, price.Base, sumFees(price), sumTaxes(price))
		if sameCurrency {
			for _, tp := range offer.TravelerPricings {
				want = want.Add(sumTaxes(tp.Price))
			}
		}
		if !codec.WithinMinorUnits(price.Total, want, r.Tolerance) {
			out = append(out, domain.Errorf(r.ID(), path+".total",
				"total %s %s does not equal base plus fees and taxes %s", price.Total, price.Currency, want))
		}

		if sameCurrency && len(offer.TravelerPricings) > 0 {
			travelers := codec.Sum(price.Currency, lo.Map(offer.TravelerPricings, func(tp domain.TravelerPricing, _ int) codec.Amount {
				return tp.Price.Total
			})...)
			if !codec.WithinMinorUnits(price.Total, travelers, r.Tolerance) {
				out = append(out, domain.Errorf(r.ID(), path+".total",
					"total %s %s does not equal the sum of traveler totals %s", price.Total, price.Currency, travelers))
			}
		}

		if gt := price.GrandTotal; gt != nil && !codec.WithinMinorUnits(*gt, price.Total, r.Tolerance) {
			if gt.Cmp(price.Total) < 0 {
				out = append(out, domain.Errorf(r.ID(), path+".grandTotal",
					"grand total %s is below total %s", gt, price.Total))
			} else {
				out = append(out, domain.Warnf(r.ID(), path+".grandTotal",
					"grand total %s exceeds total %s by additional charges", gt, price.Total))
			}
		}
	}
	return out
}

func sumFees(p domain.Price) codec.Amount {
	return codec.Sum(p.Currency, lo.Map(p.Fees, func(f domain.Fee, _ int) codec.Amount { return f.Amount })...)
}

func sumTaxes(p domain.Price) codec.Amount {
	return codec.Sum(p.Currency, lo.Map(p.Taxes, func(t domain.Tax, _ int) codec.Amount { return t.Amount })...)
}

// CurrencyConsistency warns when a traveler price or the billing currency
// differs from the offer currency.
type CurrencyConsistency struct{}

func (CurrencyConsistency) ID() string { return domain.RuleCurrencyMismatch }

func (r CurrencyConsistency) Check(in *Input) []domain.Violation {
	out := make([]domain.Violation, 0)
	for _, offer := range in.Payload.Offers {
		currency := offer.Price.Currency
		if bc := offer.Price.BillingCurrency; bc != "" && bc != currency {
			out = append(out, domain.Warnf(r.ID(), domain.OfferPath(offer.Position)+".price.billingCurrency",
				"billing currency %s differs from offer currency %s", bc, currency))
		}
		for i, tp := range offer.TravelerPricings {
			path := domain.TravelerPricingPath(offer.Position, i) + ".price"
			if tp.Price.Currency != currency {
				out = append(out, domain.Warnf(r.ID(), path+".currency",
					"traveler currency %s differs from offer currency %s", tp.Price.Currency, currency))
			}
			if bc := tp.Price.BillingCurrency; bc != "" && bc != tp.Price.Currency {
				out = append(out, domain.Warnf(r.ID(), path+".billingCurrency",
					"billing currency %s differs from traveler currency %s", bc, tp.Price.Currency))
			}
		}
	}
	return out
}
