package rebalance

import "github.com/shopspring/decimal"

// Economics holds the flat price and freight assumptions used to score
// candidate moves. The source data carries no reliable per-item price signal,
// so scoring uses tenant-wide averages rather than a per-item lookup.
type Economics struct {
	// UnitPrice is the average selling price assumed per unit.
	UnitPrice decimal.Decimal
	// PushCostPerUnit is the flat warehouse-to-store freight rate.
	PushCostPerUnit decimal.Decimal
	// SameRegionRate and CrossRegionRate are the store-to-store freight
	// rates. CrossRegionRate is strictly higher, which biases lateral
	// pairing toward same-region transfers.
	SameRegionRate  decimal.Decimal
	CrossRegionRate decimal.Decimal
}

// DefaultEconomics returns the engine-wide cost assumptions.
func DefaultEconomics() Economics {
	return Economics{
		UnitPrice:       decimal.NewFromInt(1200),
		PushCostPerUnit: decimal.NewFromInt(80),
		SameRegionRate:  decimal.NewFromInt(150),
		CrossRegionRate: decimal.NewFromInt(900),
	}
}

// RevenueGain estimates the revenue from fulfilling one week of demand at the
// destination: qty * velocity * 7 * unit price.
func (e Economics) RevenueGain(qty int, dailyVelocity float64) decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromFloat(float64(qty) * dailyVelocity * 7))
}

// PushCost returns the flat logistics cost of pushing qty units.
func (e Economics) PushCost(qty int) decimal.Decimal {
	return e.PushCostPerUnit.Mul(decimal.NewFromInt(int64(qty)))
}

// LateralCost returns the store-to-store logistics cost for qty units.
func (e Economics) LateralCost(qty int, sameRegion bool) decimal.Decimal {
	rate := e.CrossRegionRate
	if sameRegion {
		rate = e.SameRegionRate
	}
	return rate.Mul(decimal.NewFromInt(int64(qty)))
}
