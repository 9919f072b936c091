package lib

import (
	"math/big"
	"math/bits"
)

/*
	This file implements the checked integer arithmetic the exchange accounting is built on.
	Constant-product finance code must never let silent wraparound substitute for a real value:
	every operation either returns the exact mathematical result or a coded error.
*/

// SafeAdd() returns a+b or an overflow error
func SafeAdd(a, b uint64) (uint64, ErrorI) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow()
	}
	return sum, nil
}

// SafeSub() returns a-b or an underflow error
func SafeSub(a, b uint64) (uint64, ErrorI) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrMathUnderflow()
	}
	return diff, nil
}

// SafeMul() returns a*b or an overflow error
func SafeMul(a, b uint64) (uint64, ErrorI) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrMathOverflow()
	}
	return lo, nil
}

// MulDiv() computes floor(a*b/den) with a 128 bit intermediate product
// fails with AmountOverflow when the quotient doesn't fit a 64 bit custody transfer
func MulDiv(a, b, den uint64) (uint64, ErrorI) {
	if den == 0 {
		return 0, ErrDivideByZero()
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= den {
		// quotient >= 2^64
		return 0, ErrAmountOverflow()
	}
	quo, _ := bits.Div64(hi, lo, den)
	return quo, nil
}

// Mul128() returns the full 128 bit product of two uint64s
func Mul128(a, b uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
}

// Sqrt() computes the floor of the square root of a non-negative 128 bit value
// using Newton's method: x <- (x + value/x) / 2 starting from value/2, until y >= x
func Sqrt(value *big.Int) *big.Int {
	// covers 0 and 1
	if value.Cmp(big.NewInt(2)) < 0 {
		return new(big.Int).Set(value)
	}
	two := big.NewInt(2)
	x := new(big.Int).Div(value, two)
	y := new(big.Int).Add(x, new(big.Int).Div(value, x))
	y.Div(y, two)
	for y.Cmp(x) < 0 {
		x.Set(y)
		y = new(big.Int).Add(x, new(big.Int).Div(value, x))
		y.Div(y, two)
	}
	return x
}

// SqrtProductUint64() returns floor(sqrt(a*b))
// the root of a 128 bit product always fits 64 bits
func SqrtProductUint64(a, b uint64) uint64 {
	return Sqrt(Mul128(a, b)).Uint64()
}
