package fsm

import (
	"bytes"

	"github.com/basin-network/basin/lib"
)

/*
	This file implements the trading pair lifecycle.

	A pair moves through exactly one transition: Uninitialized -> Configured. Creation
	allocates the record keyed by the unordered asset pair; configuration orders the
	assets canonically, binds the custody and share mint references, and opens the pair
	for liquidity and swap operations. The transition is irreversible.
*/

type PairState uint8

const (
	PairStateUninitialized PairState = iota
	PairStateConfigured
)

// Pair is a registered two-asset market with its own reserves and share token supply
type Pair struct {
	Address         lib.HexBytes `json:"address"`                   // deterministic address of the unordered asset pair
	Registry        lib.HexBytes `json:"registry"`                  // back-reference to the owning registry
	TokenA          lib.HexBytes `json:"tokenA"`                    // the smaller asset identifier once configured
	TokenB          lib.HexBytes `json:"tokenB"`                    // the larger asset identifier once configured
	ReserveA        uint64       `json:"reserveA"`                  // custodied balance of token A
	ReserveB        uint64       `json:"reserveB"`                  // custodied balance of token B
	ReserveAccountA lib.HexBytes `json:"reserveAccountA,omitempty"` // custody location of reserve A
	ReserveAccountB lib.HexBytes `json:"reserveAccountB,omitempty"` // custody location of reserve B
	ShareMint       lib.HexBytes `json:"shareMint,omitempty"`       // the fungible share token class
	TotalShares     uint64       `json:"totalShares"`               // outstanding share tokens, including the permanent floor
	State           PairState    `json:"state"`                     // lifecycle flag
}

// GetPair() retrieves a pair record by its deterministic address
func (s *StateMachine) GetPair(pairAddress []byte) (*Pair, lib.ErrorI) {
	bz, err := s.Get(KeyForPair(pairAddress))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, ErrPairNotExists()
	}
	pair := new(Pair)
	if err = lib.Unmarshal(bz, pair); err != nil {
		return nil, err
	}
	return pair, nil
}

// GetPairForAssets() retrieves a pair record by its unordered asset pair
func (s *StateMachine) GetPairForAssets(tokenX, tokenY []byte) (*Pair, lib.ErrorI) {
	return s.GetPair(PairAddress(tokenX, tokenY).Bytes())
}

// GetPairs() retrieves every pair record in state
func (s *StateMachine) GetPairs() (result []*Pair, err lib.ErrorI) {
	err = s.IterateAndExecute(PairPrefix(), func(_, value []byte) lib.ErrorI {
		pair := new(Pair)
		if e := lib.Unmarshal(value, pair); e != nil {
			return e
		}
		result = append(result, pair)
		return nil
	})
	return
}

// SetPair() upserts a pair record in state
func (s *StateMachine) SetPair(pair *Pair) lib.ErrorI {
	bz, err := lib.Marshal(pair)
	if err != nil {
		return err
	}
	return s.Set(KeyForPair(pair.Address), bz)
}

// HandleMessageCreatePair() allocates a pair record for an unordered asset pair.
// The result is Uninitialized: no reserves, no custody bindings, and no ordering
// decision yet, ordering is deferred to configuration.
func (s *StateMachine) HandleMessageCreatePair(msg *MessageCreatePair) lib.ErrorI {
	if _, err := s.checkRegistryOwner(msg.Signer); err != nil {
		return err
	}
	pairAddress := PairAddress(msg.TokenX, msg.TokenY)
	bz, err := s.Get(KeyForPair(pairAddress.Bytes()))
	if err != nil {
		return err
	}
	if bz != nil {
		return ErrPairExists()
	}
	return s.SetPair(&Pair{
		Address:  pairAddress.Bytes(),
		Registry: RegistryAddress().Bytes(),
		TokenA:   msg.TokenX,
		TokenB:   msg.TokenY,
		State:    PairStateUninitialized,
	})
}

// HandleMessageConfigurePair() completes the one-way lifecycle transition: orders the
// assets canonically, validates the custody and share mint references against their
// derived addresses, zeroes the reserves, and registers the pair as Configured
func (s *StateMachine) HandleMessageConfigurePair(msg *MessageConfigurePair) lib.ErrorI {
	registry, err := s.checkRegistryOwner(msg.Signer)
	if err != nil {
		return err
	}
	pair, err := s.GetPairForAssets(msg.TokenX, msg.TokenY)
	if err != nil {
		return err
	}
	if pair.State != PairStateUninitialized {
		return ErrAlreadyConfigured()
	}
	tokenA, tokenB := SortAssets(msg.TokenX, msg.TokenY)
	// map the caller-supplied custody references onto the canonical ordering
	custodyA, custodyB := msg.CustodyX, msg.CustodyY
	if !bytes.Equal(tokenA, msg.TokenX) {
		custodyA, custodyB = msg.CustodyY, msg.CustodyX
	}
	if !bytes.Equal(custodyA, ReserveAccountAddress(pair.Address, tokenA).Bytes()) ||
		!bytes.Equal(custodyB, ReserveAccountAddress(pair.Address, tokenB).Bytes()) {
		return ErrInvalidCustodyReference()
	}
	if !bytes.Equal(msg.ShareMint, ShareMintAddress(pair.Address).Bytes()) {
		return ErrInvalidShareMint()
	}
	pair.TokenA, pair.TokenB = tokenA, tokenB
	pair.ReserveAccountA, pair.ReserveAccountB = custodyA, custodyB
	pair.ShareMint = msg.ShareMint
	pair.ReserveA, pair.ReserveB, pair.TotalShares = 0, 0, 0
	pair.State = PairStateConfigured
	if err = s.SetPair(pair); err != nil {
		return err
	}
	count, err := lib.SafeAdd(registry.PairCount, 1)
	if err != nil {
		return err
	}
	registry.PairCount, registry.LastPair = count, pair.Address
	if err = s.SetRegistry(registry); err != nil {
		return err
	}
	s.metrics.UpdatePairCount(registry.PairCount)
	return s.EmitPairCreated(msg.Signer, pair, registry.PairCount)
}

// PriceScale is the fixed-point scale spot prices are reported in
const PriceScale = 1_000_000

// SpotPrices() reports both fixed-point spot prices of the pool: token B per token A
// and token A per token B, each scaled by PriceScale
func (p *Pair) SpotPrices() (priceA, priceB uint64, err lib.ErrorI) {
	if priceA, err = lib.MulDiv(p.ReserveB, PriceScale, p.ReserveA); err != nil {
		return
	}
	priceB, err = lib.MulDiv(p.ReserveA, PriceScale, p.ReserveB)
	return
}

// checkConfigured() loads a pair and fails unless it has completed configuration
func (s *StateMachine) checkConfigured(tokenX, tokenY []byte) (*Pair, lib.ErrorI) {
	pair, err := s.GetPairForAssets(tokenX, tokenY)
	if err != nil {
		return nil, err
	}
	if pair.State != PairStateConfigured {
		return nil, ErrNotConfigured()
	}
	return pair, nil
}
