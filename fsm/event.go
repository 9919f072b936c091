package fsm

import (
	"github.com/basin-network/basin/lib"
)

/* This file implements the typed event payloads the handlers emit through the tracker */

// EventPairCreated is emitted when a pair completes configuration
type EventPairCreated struct {
	TokenA    lib.HexBytes `json:"tokenA"`
	TokenB    lib.HexBytes `json:"tokenB"`
	Pair      lib.HexBytes `json:"pair"`
	PairCount uint64       `json:"pairCount"`
}

// EventLiquidityAdded is emitted after a successful deposit
type EventLiquidityAdded struct {
	Pair    lib.HexBytes `json:"pair"`
	AmountA uint64       `json:"amountA"`
	AmountB uint64       `json:"amountB"`
	Shares  uint64       `json:"shares"`
}

// EventLiquidityRemoved is emitted after a successful withdrawal
type EventLiquidityRemoved struct {
	Pair    lib.HexBytes `json:"pair"`
	AmountA uint64       `json:"amountA"`
	AmountB uint64       `json:"amountB"`
	Shares  uint64       `json:"shares"`
}

// EventSwap is emitted after a successful trade
type EventSwap struct {
	Pair      lib.HexBytes `json:"pair"`
	TokenIn   lib.HexBytes `json:"tokenIn"`
	AmountIn  uint64       `json:"amountIn"`
	AmountOut uint64       `json:"amountOut"`
}

// EventProtocolFee is emitted when the reserved protocol fee fields change
type EventProtocolFee struct {
	FeeCollector lib.HexBytes `json:"feeCollector,omitempty"`
	FeeEnabled   bool         `json:"feeEnabled"`
}

func (s *StateMachine) EmitPairCreated(signer []byte, pair *Pair, count uint64) lib.ErrorI {
	return s.emit(lib.EventTypePairCreated, signer, &EventPairCreated{
		TokenA:    pair.TokenA,
		TokenB:    pair.TokenB,
		Pair:      pair.Address,
		PairCount: count,
	})
}

func (s *StateMachine) EmitLiquidityAdded(signer []byte, pair *Pair, amountA, amountB, shares uint64) lib.ErrorI {
	return s.emit(lib.EventTypeLiquidityAdded, signer, &EventLiquidityAdded{
		Pair:    pair.Address,
		AmountA: amountA,
		AmountB: amountB,
		Shares:  shares,
	})
}

func (s *StateMachine) EmitLiquidityRemoved(signer []byte, pair *Pair, amountA, amountB, shares uint64) lib.ErrorI {
	return s.emit(lib.EventTypeLiquidityRemoved, signer, &EventLiquidityRemoved{
		Pair:    pair.Address,
		AmountA: amountA,
		AmountB: amountB,
		Shares:  shares,
	})
}

func (s *StateMachine) EmitSwap(signer []byte, pair *Pair, tokenIn []byte, amountIn, amountOut uint64) lib.ErrorI {
	return s.emit(lib.EventTypeSwap, signer, &EventSwap{
		Pair:      pair.Address,
		TokenIn:   tokenIn,
		AmountIn:  amountIn,
		AmountOut: amountOut,
	})
}

func (s *StateMachine) EmitProtocolFeeUpdated(signer, feeCollector []byte, feeEnabled bool) lib.ErrorI {
	return s.emit(lib.EventTypeProtocolFee, signer, &EventProtocolFee{
		FeeCollector: feeCollector,
		FeeEnabled:   feeEnabled,
	})
}

// emit() marshals a typed payload and adds it to the operation's tracker
func (s *StateMachine) emit(eventType lib.EventType, address []byte, payload any) lib.ErrorI {
	bz, err := lib.Marshal(payload)
	if err != nil {
		return err
	}
	return s.events.Add(&lib.Event{
		EventType: eventType,
		Address:   address,
		Msg:       bz,
	})
}
