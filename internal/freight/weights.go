package freight

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
)

// Method enumerates the supported shipping methods.
type Method string

const (
	MethodSea     Method = "sea"
	MethodAir     Method = "air"
	MethodLand    Method = "land"
	MethodCourier Method = "courier"
	MethodPickup  Method = "pickup"
)

// ParseMethod validates a shipping method.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodSea:
		return MethodSea, nil
	case MethodAir:
		return MethodAir, nil
	case MethodLand:
		return MethodLand, nil
	case MethodCourier:
		return MethodCourier, nil
	case MethodPickup:
		return MethodPickup, nil
	default:
		return "", fmt.Errorf("freight: invalid shipping method %q", s)
	}
}

// DimDivisor returns the dimensional-weight divisor in cm³ per kg for the
// method. Pickup has no dimensional weight and returns zero.
func DimDivisor(m Method) decimal.Decimal {
	switch m {
	case MethodSea:
		return decimal.NewFromInt(6000)
	case MethodAir, MethodLand, MethodCourier:
		return decimal.NewFromInt(5000)
	default:
		return decimal.Zero
	}
}

// Package describes one physical package: dimensions in cm, weight in kg.
type Package struct {
	Length   decimal.Decimal
	Width    decimal.Decimal
	Height   decimal.Decimal
	WeightKg decimal.Decimal
	Qty      int
}

// Volume returns the single-unit volume in cm³.
func (p Package) Volume() decimal.Decimal {
	return p.Length.Mul(p.Width).Mul(p.Height)
}

// Weights aggregates the computed weight figures, each rounded to 2 decimals.
type Weights struct {
	Actual      decimal.Decimal
	Dimensional decimal.Decimal
	Chargeable  decimal.Decimal
	TotalVolume decimal.Decimal
}

// ComputeWeights derives actual, dimensional and chargeable weight for a set
// of packages under the given method. Chargeable weight is the greater of
// actual and dimensional weight. Packages with a non-positive quantity are
// ignored.
func ComputeWeights(packages []Package, method Method) Weights {
	divisor := DimDivisor(method)
	var actual, dim, volume decimal.Decimal
	for _, pkg := range packages {
		if pkg.Qty < 1 {
			continue
		}
		qty := decimal.NewFromInt(int64(pkg.Qty))
		actual = actual.Add(pkg.WeightKg.Mul(qty))
		pkgVolume := pkg.Volume()
		volume = volume.Add(pkgVolume.Mul(qty))
		if divisor.IsPositive() {
			dim = dim.Add(pkgVolume.Div(divisor).Mul(qty))
		}
	}
	actual = common.Round2(actual)
	dim = common.Round2(dim)
	chargeable := actual
	if dim.GreaterThan(chargeable) {
		chargeable = dim
	}
	return Weights{
		Actual:      actual,
		Dimensional: dim,
		Chargeable:  chargeable,
		TotalVolume: common.Round2(volume),
	}
}
