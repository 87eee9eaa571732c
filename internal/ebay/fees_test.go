package ebay

import (
	"math"
	"testing"
)

func TestCalculateFees(t *testing.T) {
	fb := CalculateFees(20, 50, 4.50, 1.20)

	wantFees := 50*0.13 + 50*0.029 + 0.30 // 8.25
	if math.Abs(fb.TotalFees-wantFees) > 1e-9 {
		t.Errorf("totalFees = %v, want %v", fb.TotalFees, wantFees)
	}

	wantBreakEven := 20 + wantFees + 4.50 + 1.20 // 33.95
	if math.Abs(fb.BreakEven-wantBreakEven) > 1e-9 {
		t.Errorf("breakEven = %v, want %v", fb.BreakEven, wantBreakEven)
	}

	if fb.SafeFloor != 36 { // ceil(33.95 × 1.05) = ceil(35.6475)
		t.Errorf("safeFloor = %d, want 36", fb.SafeFloor)
	}
}

func TestSafeFloorNeverBelowBreakEven(t *testing.T) {
	for _, purchase := range []float64{0, 5, 20, 99.99} {
		for _, bin := range []float64{0, 10, 37, 250} {
			fb := CalculateFees(purchase, bin, 3, 0.5)
			if float64(fb.SafeFloor) < fb.BreakEven {
				t.Errorf("safeFloor %d below breakEven %v (purchase=%v bin=%v)",
					fb.SafeFloor, fb.BreakEven, purchase, bin)
			}
		}
	}
}

func TestZeroCostItem(t *testing.T) {
	fb := CalculateFees(0, 0, 0, 0)
	if fb.TotalFees != fixedPaymentFee {
		t.Errorf("totalFees = %v, want just the fixed payment fee", fb.TotalFees)
	}
	if fb.SafeFloor != 1 { // ceil(0.30 × 1.05)
		t.Errorf("safeFloor = %d, want 1", fb.SafeFloor)
	}
}
