package fsm

import (
	"bytes"

	"github.com/basin-network/basin/lib"
	"github.com/basin-network/basin/lib/crypto"
)

/*
	This file implements the operation requests of the exchange and their routing.

	Check() on each message is the stateless validation gate: address shapes, distinct
	assets, non-zero amounts. Stateful validation (authorization, lifecycle, economics)
	lives in the handlers.
*/

const (
	MessageInitializeRegistryName = "initialize_registry"
	MessageSetProtocolFeeName     = "set_protocol_fee"
	MessageCreatePairName         = "create_pair"
	MessageConfigurePairName      = "configure_pair"
	MessageAddLiquidityName       = "add_liquidity"
	MessageRemoveLiquidityName    = "remove_liquidity"
	MessageSwapName               = "swap"
)

// HandleMessage() routes a message to its handler
func (s *StateMachine) HandleMessage(msg lib.MessageI) lib.ErrorI {
	switch x := msg.(type) {
	case *MessageInitializeRegistry:
		return s.HandleMessageInitializeRegistry(x)
	case *MessageSetProtocolFee:
		return s.HandleMessageSetProtocolFee(x)
	case *MessageCreatePair:
		return s.HandleMessageCreatePair(x)
	case *MessageConfigurePair:
		return s.HandleMessageConfigurePair(x)
	case *MessageAddLiquidity:
		return s.HandleMessageAddLiquidity(x)
	case *MessageRemoveLiquidity:
		return s.HandleMessageRemoveLiquidity(x)
	case *MessageSwap:
		return s.HandleMessageSwap(x)
	default:
		return ErrUnknownMessage(x)
	}
}

// MessageInitializeRegistry creates the registry singleton for the exchange
type MessageInitializeRegistry struct {
	Owner lib.HexBytes `json:"owner"`
}

func (x *MessageInitializeRegistry) Check() lib.ErrorI { return checkAddress(x.Owner) }
func (x *MessageInitializeRegistry) Name() string      { return MessageInitializeRegistryName }

// MessageSetProtocolFee updates the reserved protocol fee fields, owner gated
type MessageSetProtocolFee struct {
	Signer       lib.HexBytes `json:"signer"`
	FeeCollector lib.HexBytes `json:"feeCollector,omitempty"`
	FeeEnabled   bool         `json:"feeEnabled"`
}

func (x *MessageSetProtocolFee) Check() lib.ErrorI {
	if err := checkAddress(x.Signer); err != nil {
		return err
	}
	if x.FeeEnabled {
		return checkAddress(x.FeeCollector)
	}
	return nil
}
func (x *MessageSetProtocolFee) Name() string { return MessageSetProtocolFeeName }

// MessageCreatePair allocates an Uninitialized pair for an unordered asset pair
type MessageCreatePair struct {
	Signer lib.HexBytes `json:"signer"`
	TokenX lib.HexBytes `json:"tokenX"`
	TokenY lib.HexBytes `json:"tokenY"`
}

func (x *MessageCreatePair) Check() lib.ErrorI {
	if err := checkAddress(x.Signer); err != nil {
		return err
	}
	return checkAssets(x.TokenX, x.TokenY)
}
func (x *MessageCreatePair) Name() string { return MessageCreatePairName }

// MessageConfigurePair completes the pair lifecycle transition and opens trading
type MessageConfigurePair struct {
	Signer    lib.HexBytes `json:"signer"`
	TokenX    lib.HexBytes `json:"tokenX"`
	TokenY    lib.HexBytes `json:"tokenY"`
	CustodyX  lib.HexBytes `json:"custodyX"`
	CustodyY  lib.HexBytes `json:"custodyY"`
	ShareMint lib.HexBytes `json:"shareMint"`
}

func (x *MessageConfigurePair) Check() lib.ErrorI {
	if err := checkAddress(x.Signer); err != nil {
		return err
	}
	if err := checkAssets(x.TokenX, x.TokenY); err != nil {
		return err
	}
	for _, address := range [][]byte{x.CustodyX, x.CustodyY, x.ShareMint} {
		if err := checkAddress(address); err != nil {
			return err
		}
	}
	return nil
}
func (x *MessageConfigurePair) Name() string { return MessageConfigurePairName }

// MessageAddLiquidity deposits both assets and mints proportional ownership shares.
// The desired and minimum amounts are positional with TokenX and TokenY.
type MessageAddLiquidity struct {
	Signer   lib.HexBytes `json:"signer"`
	TokenX   lib.HexBytes `json:"tokenX"`
	TokenY   lib.HexBytes `json:"tokenY"`
	DesiredX uint64       `json:"desiredX"`
	DesiredY uint64       `json:"desiredY"`
	MinX     uint64       `json:"minX"`
	MinY     uint64       `json:"minY"`
}

func (x *MessageAddLiquidity) Check() lib.ErrorI {
	if err := checkAddress(x.Signer); err != nil {
		return err
	}
	if err := checkAssets(x.TokenX, x.TokenY); err != nil {
		return err
	}
	if x.DesiredX == 0 || x.DesiredY == 0 {
		return ErrInvalidAmount()
	}
	return nil
}
func (x *MessageAddLiquidity) Name() string { return MessageAddLiquidityName }

// MessageRemoveLiquidity redeems shares for a proportional amount of both reserves
type MessageRemoveLiquidity struct {
	Signer    lib.HexBytes `json:"signer"`
	TokenX    lib.HexBytes `json:"tokenX"`
	TokenY    lib.HexBytes `json:"tokenY"`
	Liquidity uint64       `json:"liquidity"`
	MinX      uint64       `json:"minX"`
	MinY      uint64       `json:"minY"`
}

func (x *MessageRemoveLiquidity) Check() lib.ErrorI {
	if err := checkAddress(x.Signer); err != nil {
		return err
	}
	if err := checkAssets(x.TokenX, x.TokenY); err != nil {
		return err
	}
	if x.Liquidity == 0 {
		return ErrInvalidAmount()
	}
	return nil
}
func (x *MessageRemoveLiquidity) Name() string { return MessageRemoveLiquidityName }

// MessageSwap trades an exact input amount of TokenIn for TokenOut
type MessageSwap struct {
	Signer       lib.HexBytes `json:"signer"`
	TokenIn      lib.HexBytes `json:"tokenIn"`
	TokenOut     lib.HexBytes `json:"tokenOut"`
	AmountIn     uint64       `json:"amountIn"`
	AmountOutMin uint64       `json:"amountOutMin"`
}

func (x *MessageSwap) Check() lib.ErrorI {
	if err := checkAddress(x.Signer); err != nil {
		return err
	}
	if err := checkAssets(x.TokenIn, x.TokenOut); err != nil {
		return err
	}
	if x.AmountIn == 0 {
		return ErrInvalidAmount()
	}
	return nil
}
func (x *MessageSwap) Name() string { return MessageSwapName }

// checkAddress() validates the shape of a 20 byte identity
func checkAddress(address []byte) lib.ErrorI {
	if len(address) == 0 {
		return ErrAddressEmpty()
	}
	if len(address) != crypto.AddressSize {
		return ErrAddressSize()
	}
	return nil
}

// checkAssets() validates two distinct asset identifiers
func checkAssets(tokenX, tokenY []byte) lib.ErrorI {
	if err := checkAddress(tokenX); err != nil {
		return err
	}
	if err := checkAddress(tokenY); err != nil {
		return err
	}
	if bytes.Equal(tokenX, tokenY) {
		return ErrIdenticalAssets()
	}
	return nil
}
