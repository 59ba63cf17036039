package dex

import (
	"math/big"
	"strings"
)

const priceScale = 18

// PriceFromSqrtPriceX96 derives a pool's token0 price from the Uniswap
// V3 fixed-point encoding: price = (sqrtPriceX96 / 2^96)^2. Computed as
// sqrtPriceX96^2 / 2^192 in arbitrary precision; reserve-scale values
// are far outside the exact range of float64. Rendered as a decimal
// string with trailing zeros trimmed, so 2^96 yields "1".
func PriceFromSqrtPriceX96(sqrtPriceX96 *big.Int) string {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return "0"
	}

	numerator := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	denominator := new(big.Int).Lsh(big.NewInt(1), 192)
	rat := new(big.Rat).SetFrac(numerator, denominator)

	return trimDecimal(rat.FloatString(priceScale))
}

func trimDecimal(value string) string {
	if !strings.Contains(value, ".") {
		return value
	}
	value = strings.TrimRight(value, "0")
	return strings.TrimSuffix(value, ".")
}
