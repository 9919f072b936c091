package fsm

import (
	"bytes"

	"github.com/basin-network/basin/lib"
)

// MinimumLiquidity is the fixed share quantity permanently locked on the first deposit.
// Keeping the floor outstanding makes a zero-supply/non-zero-reserve state unreachable,
// which would otherwise open divide-by-zero and price-manipulation conditions.
const MinimumLiquidity = 1000

// HandleMessageAddLiquidity() deposits both assets into a configured pair and mints
// proportional ownership shares to the depositor. All division floors, so minted shares
// never over-credit the depositor.
func (s *StateMachine) HandleMessageAddLiquidity(msg *MessageAddLiquidity) lib.ErrorI {
	pair, err := s.checkConfigured(msg.TokenX, msg.TokenY)
	if err != nil {
		return err
	}
	// map the caller-supplied amounts onto the canonical ordering
	desiredA, desiredB, minA, minB := msg.DesiredX, msg.DesiredY, msg.MinX, msg.MinY
	if !bytes.Equal(pair.TokenA, msg.TokenX) {
		desiredA, desiredB, minA, minB = msg.DesiredY, msg.DesiredX, msg.MinY, msg.MinX
	}
	var amountA, amountB, minted, floor uint64
	if pair.ReserveA == 0 && pair.ReserveB == 0 {
		// first deposit: shares from the geometric mean, minus the permanent floor
		shares := lib.SqrtProductUint64(desiredA, desiredB)
		if shares > MinimumLiquidity {
			minted = shares - MinimumLiquidity
		}
		if minted == 0 {
			return ErrInsufficientLiquidityMinted()
		}
		amountA, amountB, floor = desiredA, desiredB, MinimumLiquidity
	} else {
		amountA, amountB, minted, err = s.proportionalDeposit(pair, desiredA, desiredB, minA, minB)
		if err != nil {
			return err
		}
	}
	if amountA < minA || amountB < minB {
		return ErrInsufficientAmount()
	}
	// all arithmetic validated, mutate custody and reserves
	if err = s.TokenTransfer(pair.TokenA, msg.Signer, pair.ReserveAccountA, amountA); err != nil {
		return err
	}
	if err = s.TokenTransfer(pair.TokenB, msg.Signer, pair.ReserveAccountB, amountB); err != nil {
		return err
	}
	authority := PairAuthorityAddress(pair.Address)
	if err = s.MintShares(pair, msg.Signer, minted, authority); err != nil {
		return err
	}
	if floor != 0 {
		if err = s.MintShares(pair, deadAddr.Bytes(), floor, authority); err != nil {
			return err
		}
	}
	if pair.ReserveA, err = lib.SafeAdd(pair.ReserveA, amountA); err != nil {
		return err
	}
	if pair.ReserveB, err = lib.SafeAdd(pair.ReserveB, amountB); err != nil {
		return err
	}
	supply, err := lib.SafeAdd(minted, floor)
	if err != nil {
		return err
	}
	if pair.TotalShares, err = lib.SafeAdd(pair.TotalShares, supply); err != nil {
		return err
	}
	if err = s.SetPair(pair); err != nil {
		return err
	}
	s.metrics.CountLiquidityOp("add")
	return s.EmitLiquidityAdded(msg.Signer, pair, amountA, amountB, minted)
}

// proportionalDeposit() computes the actual deposit amounts and minted shares for a
// non-empty pool. The side whose optimal counter-amount fits under the desired amount
// is binding and fixes the ratio.
func (s *StateMachine) proportionalDeposit(pair *Pair, desiredA, desiredB, minA, minB uint64) (amountA, amountB, minted uint64, err lib.ErrorI) {
	optimalB, err := lib.MulDiv(desiredA, pair.ReserveB, pair.ReserveA)
	if err != nil {
		return
	}
	if optimalB <= desiredB {
		if optimalB < minB {
			return 0, 0, 0, ErrInsufficientAmount()
		}
		if minted, err = lib.MulDiv(desiredA, pair.TotalShares, pair.ReserveA); err != nil {
			return
		}
		amountA, amountB = desiredA, optimalB
	} else {
		var optimalA uint64
		if optimalA, err = lib.MulDiv(desiredB, pair.ReserveA, pair.ReserveB); err != nil {
			return
		}
		if optimalA < minA {
			return 0, 0, 0, ErrInsufficientAmount()
		}
		if minted, err = lib.MulDiv(desiredB, pair.TotalShares, pair.ReserveB); err != nil {
			return
		}
		amountA, amountB = optimalA, desiredB
	}
	if minted == 0 {
		return 0, 0, 0, ErrInsufficientLiquidityMinted()
	}
	return
}

// HandleMessageRemoveLiquidity() redeems shares for a proportional amount of both
// reserves. Floor division rounds in the protocol's favor, never the withdrawer's.
// Shares are burned before custody leaves the reserve accounts so the same shares can
// never be redeemed twice.
func (s *StateMachine) HandleMessageRemoveLiquidity(msg *MessageRemoveLiquidity) lib.ErrorI {
	pair, err := s.checkConfigured(msg.TokenX, msg.TokenY)
	if err != nil {
		return err
	}
	if pair.TotalShares == 0 {
		return ErrInsufficientLiquidity()
	}
	minA, minB := msg.MinX, msg.MinY
	if !bytes.Equal(pair.TokenA, msg.TokenX) {
		minA, minB = msg.MinY, msg.MinX
	}
	amountA, err := lib.MulDiv(msg.Liquidity, pair.ReserveA, pair.TotalShares)
	if err != nil {
		return err
	}
	amountB, err := lib.MulDiv(msg.Liquidity, pair.ReserveB, pair.TotalShares)
	if err != nil {
		return err
	}
	if amountA < minA || amountB < minB {
		return ErrInsufficientAmount()
	}
	// burn then transfer
	authority := PairAuthorityAddress(pair.Address)
	if err = s.BurnShares(pair, msg.Signer, msg.Liquidity, authority); err != nil {
		return err
	}
	if err = s.CustodyWithdraw(pair, pair.TokenA, pair.ReserveAccountA, msg.Signer, amountA, authority); err != nil {
		return err
	}
	if err = s.CustodyWithdraw(pair, pair.TokenB, pair.ReserveAccountB, msg.Signer, amountB, authority); err != nil {
		return err
	}
	if pair.ReserveA, err = lib.SafeSub(pair.ReserveA, amountA); err != nil {
		return err
	}
	if pair.ReserveB, err = lib.SafeSub(pair.ReserveB, amountB); err != nil {
		return err
	}
	if pair.TotalShares, err = lib.SafeSub(pair.TotalShares, msg.Liquidity); err != nil {
		return err
	}
	if err = s.SetPair(pair); err != nil {
		return err
	}
	s.metrics.CountLiquidityOp("remove")
	return s.EmitLiquidityRemoved(msg.Signer, pair, amountA, amountB, msg.Liquidity)
}
