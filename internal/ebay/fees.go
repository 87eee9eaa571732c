package ebay

import "math"

// Marketplace economics. Final value fee plus payment processing.
const (
	marketplaceFeeRate = 0.13
	paymentFeeRate     = 0.029
	fixedPaymentFee    = 0.30
)

// FeeBreakdown is the cost picture for one candidate listing price.
type FeeBreakdown struct {
	TotalFees float64 `json:"totalFees"`
	BreakEven float64 `json:"breakEven"`
	SafeFloor int     `json:"safeFloor"`
}

// CalculateFees computes marketplace and payment fees for a candidate BIN
// price, the true break-even including shipping and packing, and the safe
// floor below which an incoming offer should be auto-declined. The floor
// carries a 5% buffer above break-even, rounded up to the next whole unit.
func CalculateFees(purchasePrice, bin, shippingCost, packingCost float64) FeeBreakdown {
	totalFees := bin*marketplaceFeeRate + bin*paymentFeeRate + fixedPaymentFee
	breakEven := purchasePrice + totalFees + shippingCost + packingCost

	return FeeBreakdown{
		TotalFees: totalFees,
		BreakEven: breakEven,
		SafeFloor: int(math.Ceil(breakEven * 1.05)),
	}
}
