package fsm

import (
	"bytes"

	"github.com/basin-network/basin/lib"
	"github.com/basin-network/basin/lib/crypto"
)

/* Key.go contains prefix keys logic for the underlying store */

var (
	registryPrefix = []byte{1} // store key prefix for the exchange registry singleton
	pairPrefix     = []byte{2} // store key prefix for trading pairs
	balancePrefix  = []byte{3} // store key prefix for custody balances
)

/*
- Prefixes are used to allow 'grouping' and organization in a schemaless key-value database environment

- Iterating over a prefix enables operations over groups of similar datastructures (pairs, balances etc.)

- The pair key is derived from the unordered asset pair, so a pair for a given
  pair of assets has exactly one address regardless of request order. This is
  what prevents duplicate-pair creation races at the persistence layer.
*/

func RegistryPrefix() []byte { return lib.JoinLenPrefix(registryPrefix) }
func PairPrefix() []byte     { return lib.JoinLenPrefix(pairPrefix) }
func BalancePrefix() []byte  { return lib.JoinLenPrefix(balancePrefix) }

// KeyForRegistry() is the singleton registry record key
func KeyForRegistry() []byte { return lib.JoinLenPrefix(registryPrefix, RegistryAddress().Bytes()) }

// KeyForPair() addresses a pair record by its deterministic pair address
func KeyForPair(pairAddress []byte) []byte { return lib.JoinLenPrefix(pairPrefix, pairAddress) }

// KeyForBalance() addresses the custody balance of 'holder' for 'asset'
func KeyForBalance(asset, holder []byte) []byte {
	return lib.JoinLenPrefix(balancePrefix, asset, holder)
}

// BalancePrefixForAsset() groups all holders of one asset
func BalancePrefixForAsset(asset []byte) []byte {
	return lib.JoinLenPrefix(balancePrefix, asset)
}

// RegistryAddress() is the deterministic address of the registry singleton
func RegistryAddress() *crypto.Address { return crypto.Derive("registry") }

// SortAssets() returns the canonical ordering of two asset identifiers:
// the lexicographically smaller identifier is always first
func SortAssets(tokenX, tokenY []byte) (tokenA, tokenB []byte) {
	if bytes.Compare(tokenX, tokenY) < 0 {
		return tokenX, tokenY
	}
	return tokenY, tokenX
}

// PairAddress() derives the deterministic address for the unordered asset pair
func PairAddress(tokenX, tokenY []byte) *crypto.Address {
	tokenA, tokenB := SortAssets(tokenX, tokenY)
	return crypto.Derive("pair", tokenA, tokenB)
}

// PairAuthorityAddress() derives the non-custodial control capability scoped to one pair.
// The custody and share-mint surfaces accept this capability in place of a direct owner.
func PairAuthorityAddress(pairAddress []byte) *crypto.Address {
	return crypto.Derive("authority", pairAddress)
}

// ReserveAccountAddress() derives the custody location holding one of a pair's reserves
func ReserveAccountAddress(pairAddress, asset []byte) *crypto.Address {
	return crypto.Derive("reserve", pairAddress, asset)
}

// ShareMintAddress() derives the fungible share-token class for a pair
func ShareMintAddress(pairAddress []byte) *crypto.Address {
	return crypto.Derive("mint", pairAddress)
}
