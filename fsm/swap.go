package fsm

import (
	"bytes"
	"math/big"

	"github.com/basin-network/basin/lib"
)

// fee constants: a 0.3% proportional trading fee baked into the effective input
const (
	feeNumerator   = 997
	feeDenominator = 1000
)

// HandleMessageSwap() trades an exact input amount of one pair asset for the other under
// the constant-product rule. After both reserves are updated the product is recomputed
// and re-checked against the pre-swap product, this post-check is the core defense
// against rounding-direction bugs that could let a trade extract value.
func (s *StateMachine) HandleMessageSwap(msg *MessageSwap) (err lib.ErrorI) {
	pair, err := s.checkConfigured(msg.TokenIn, msg.TokenOut)
	if err != nil {
		return err
	}
	defer func() { s.metrics.CountSwap(msg.AmountIn, err == nil) }()
	// select the input side by matching the supplied asset identity
	var reserveIn, reserveOut uint64
	var tokenOut, custodyIn, custodyOut []byte
	switch {
	case bytes.Equal(msg.TokenIn, pair.TokenA):
		reserveIn, reserveOut = pair.ReserveA, pair.ReserveB
		tokenOut, custodyIn, custodyOut = pair.TokenB, pair.ReserveAccountA, pair.ReserveAccountB
	case bytes.Equal(msg.TokenIn, pair.TokenB):
		reserveIn, reserveOut = pair.ReserveB, pair.ReserveA
		tokenOut, custodyIn, custodyOut = pair.TokenA, pair.ReserveAccountB, pair.ReserveAccountA
	default:
		return ErrInvalidAsset()
	}
	kBefore := lib.Mul128(pair.ReserveA, pair.ReserveB)
	amountOut, err := computeSwapOutput(msg.AmountIn, reserveIn, reserveOut)
	if err != nil {
		return err
	}
	if amountOut == 0 || amountOut < msg.AmountOutMin {
		return ErrInsufficientOutputAmount()
	}
	// structurally impossible given the formula, retained as a guard
	if amountOut > reserveOut {
		return ErrInsufficientLiquidity()
	}
	if err = s.TokenTransfer(msg.TokenIn, msg.Signer, custodyIn, msg.AmountIn); err != nil {
		return err
	}
	authority := PairAuthorityAddress(pair.Address)
	if err = s.CustodyWithdraw(pair, tokenOut, custodyOut, msg.Signer, amountOut, authority); err != nil {
		return err
	}
	if reserveIn, err = lib.SafeAdd(reserveIn, msg.AmountIn); err != nil {
		return err
	}
	if reserveOut, err = lib.SafeSub(reserveOut, amountOut); err != nil {
		return err
	}
	if bytes.Equal(msg.TokenIn, pair.TokenA) {
		pair.ReserveA, pair.ReserveB = reserveIn, reserveOut
	} else {
		pair.ReserveA, pair.ReserveB = reserveOut, reserveIn
	}
	// the product must never decrease across a swap
	if lib.Mul128(pair.ReserveA, pair.ReserveB).Cmp(kBefore) < 0 {
		return ErrInvariantViolated()
	}
	if err = s.SetPair(pair); err != nil {
		return err
	}
	return s.EmitSwap(msg.Signer, pair, msg.TokenIn, msg.AmountIn, amountOut)
}

// computeSwapOutput() is the constant-product formula with the fee applied to the input:
// floor(amountIn*997*reserveOut / (reserveIn*1000 + amountIn*997))
func computeSwapOutput(amountIn, reserveIn, reserveOut uint64) (uint64, lib.ErrorI) {
	amountInWithFee, err := lib.SafeMul(amountIn, feeNumerator)
	if err != nil {
		return 0, err
	}
	scaledReserve, err := lib.SafeMul(reserveIn, feeDenominator)
	if err != nil {
		return 0, err
	}
	denominator, err := lib.SafeAdd(scaledReserve, amountInWithFee)
	if err != nil {
		return 0, err
	}
	if denominator == 0 {
		return 0, lib.ErrDivideByZero()
	}
	// 128 bit numerator, floored quotient
	out := new(big.Int).Div(lib.Mul128(amountInWithFee, reserveOut), new(big.Int).SetUint64(denominator))
	if !out.IsUint64() {
		return 0, lib.ErrAmountOverflow()
	}
	return out.Uint64(), nil
}
