package fsm

import (
	"bytes"

	"github.com/basin-network/basin/lib"
	"github.com/basin-network/basin/lib/crypto"
)

/* This file implements the exchange registry: the singleton factory record gating pair creation */

// Registry is the factory record of the exchange. It is the only cross-pair shared state,
// written exclusively during initialization and pair configuration.
type Registry struct {
	Address      lib.HexBytes `json:"address"`                // deterministic singleton address
	Owner        lib.HexBytes `json:"owner"`                  // identity authorized to create and configure pairs
	PairCount    uint64       `json:"pairCount"`              // number of pairs that completed configuration
	FeeCollector lib.HexBytes `json:"feeCollector,omitempty"` // protocol fee destination, reserved
	FeeEnabled   bool         `json:"feeEnabled"`             // protocol fee toggle, reserved
	LastPair     lib.HexBytes `json:"lastPair,omitempty"`     // the most recently configured pair
}

// GetRegistry() retrieves the registry singleton from state
func (s *StateMachine) GetRegistry() (*Registry, lib.ErrorI) {
	bz, err := s.Get(KeyForRegistry())
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, ErrRegistryNotExists()
	}
	registry := new(Registry)
	if err = lib.Unmarshal(bz, registry); err != nil {
		return nil, err
	}
	return registry, nil
}

// SetRegistry() upserts the registry singleton in state
func (s *StateMachine) SetRegistry(registry *Registry) lib.ErrorI {
	bz, err := lib.Marshal(registry)
	if err != nil {
		return err
	}
	return s.Set(KeyForRegistry(), bz)
}

// HandleMessageInitializeRegistry() creates the registry singleton exactly once per exchange
// instance with a zero pair count and the protocol fee switched off
func (s *StateMachine) HandleMessageInitializeRegistry(msg *MessageInitializeRegistry) lib.ErrorI {
	bz, err := s.Get(KeyForRegistry())
	if err != nil {
		return err
	}
	if bz != nil {
		return ErrRegistryExists()
	}
	return s.SetRegistry(&Registry{
		Address: RegistryAddress().Bytes(),
		Owner:   msg.Owner,
	})
}

// HandleMessageSetProtocolFee() updates the reserved protocol fee fields, gated on the
// registry owner. No arithmetic path consults these fields yet.
func (s *StateMachine) HandleMessageSetProtocolFee(msg *MessageSetProtocolFee) lib.ErrorI {
	registry, err := s.checkRegistryOwner(msg.Signer)
	if err != nil {
		return err
	}
	registry.FeeCollector, registry.FeeEnabled = msg.FeeCollector, msg.FeeEnabled
	if err = s.SetRegistry(registry); err != nil {
		return err
	}
	return s.EmitProtocolFeeUpdated(msg.Signer, msg.FeeCollector, msg.FeeEnabled)
}

// checkRegistryOwner() loads the registry and fails with Unauthorized unless the
// claimed identity matches the registry owner
func (s *StateMachine) checkRegistryOwner(signer []byte) (*Registry, lib.ErrorI) {
	registry, err := s.GetRegistry()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(signer, registry.Owner) {
		return nil, ErrUnauthorized()
	}
	return registry, nil
}

// RegistryOwner() is a convenience accessor for the registry owner identity
func (s *StateMachine) RegistryOwner() (crypto.AddressI, lib.ErrorI) {
	registry, err := s.GetRegistry()
	if err != nil {
		return nil, err
	}
	return crypto.NewAddress(registry.Owner), nil
}
