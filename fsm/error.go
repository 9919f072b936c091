package fsm

import (
	"fmt"

	"github.com/basin-network/basin/lib"
)

// This file defines error objects for the State Machine module

func ErrUnauthorized() lib.ErrorI {
	return lib.NewError(lib.CodeUnauthorized, lib.StateMachineModule, "unauthorized")
}

func ErrRegistryExists() lib.ErrorI {
	return lib.NewError(lib.CodeRegistryExists, lib.StateMachineModule, "registry already initialized")
}

func ErrRegistryNotExists() lib.ErrorI {
	return lib.NewError(lib.CodeRegistryNotExists, lib.StateMachineModule, "registry does not exist")
}

func ErrIdenticalAssets() lib.ErrorI {
	return lib.NewError(lib.CodeIdenticalAssets, lib.StateMachineModule, "assets are identical")
}

func ErrPairExists() lib.ErrorI {
	return lib.NewError(lib.CodePairExists, lib.StateMachineModule, "pair already exists for these assets")
}

func ErrPairNotExists() lib.ErrorI {
	return lib.NewError(lib.CodePairNotExists, lib.StateMachineModule, "pair does not exist")
}

func ErrAlreadyConfigured() lib.ErrorI {
	return lib.NewError(lib.CodeAlreadyConfigured, lib.StateMachineModule, "pair is already configured")
}

func ErrNotConfigured() lib.ErrorI {
	return lib.NewError(lib.CodeNotConfigured, lib.StateMachineModule, "pair is not configured")
}

func ErrInvalidAsset() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidAsset, lib.StateMachineModule, "asset does not belong to the pair")
}

func ErrInvalidCustodyReference() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidCustodyReference, lib.StateMachineModule, "custody reference is invalid")
}

func ErrInvalidShareMint() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidShareMint, lib.StateMachineModule, "share mint is invalid")
}

func ErrInsufficientAmount() lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientAmount, lib.StateMachineModule, "amount is below the minimum")
}

func ErrInsufficientLiquidityMinted() lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientLiquidityMinted, lib.StateMachineModule, "insufficient liquidity minted")
}

func ErrInsufficientOutputAmount() lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientOutputAmount, lib.StateMachineModule, "insufficient output amount")
}

func ErrInsufficientLiquidity() lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientLiquidity, lib.StateMachineModule, "insufficient liquidity")
}

func ErrInvariantViolated() lib.ErrorI {
	return lib.NewError(lib.CodeInvariantViolated, lib.StateMachineModule, "constant product invariant decreased")
}

func ErrInsufficientFunds() lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientFunds, lib.StateMachineModule, "insufficient funds")
}

func ErrInvalidKey(key []byte) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidKey, lib.StateMachineModule, fmt.Sprintf("invalid key: %s", lib.BytesToString(key)))
}

func ErrWrongStoreType() lib.ErrorI {
	return lib.NewError(lib.CodeWrongStoreType, lib.StateMachineModule, "wrong store type")
}

func ErrUnknownMessage(x lib.MessageI) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownMessage, lib.StateMachineModule, fmt.Sprintf("message %T is unknown", x))
}

func ErrAddressEmpty() lib.ErrorI {
	return lib.NewError(lib.CodeAddressEmpty, lib.StateMachineModule, "address is empty")
}

func ErrAddressSize() lib.ErrorI {
	return lib.NewError(lib.CodeAddressSize, lib.StateMachineModule, "address size is invalid")
}

func ErrInvalidAmount() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidAmount, lib.StateMachineModule, "amount is invalid")
}
