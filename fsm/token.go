package fsm

import (
	"bytes"

	"github.com/basin-network/basin/lib"
	"github.com/basin-network/basin/lib/crypto"
)

/*
	This file implements the custody ledger: per-asset balances addressed by holder.

	Reserve custody and the share mint are gated on the pair authority capability, the
	deterministic non-custodial address derived from the pair. User-facing deposits move
	through plain transfers; anything leaving a reserve account or touching share supply
	requires the capability.
*/

// deadAddr is the unretrievable destination holding the permanent minimum liquidity floor
var deadAddr = crypto.NewAddress(bytes.Repeat([]byte{0xff}, crypto.AddressSize))

// Balance is the custody record of one holder for one asset
type Balance struct {
	Asset   lib.HexBytes `json:"asset"`
	Address lib.HexBytes `json:"address"`
	Amount  uint64       `json:"amount"`
}

// GetBalance() retrieves the custodied amount of 'asset' held by 'holder'
// NOTE: an absent record reads as a zero balance
func (s *StateMachine) GetBalance(asset, holder []byte) (uint64, lib.ErrorI) {
	bz, err := s.Get(KeyForBalance(asset, holder))
	if err != nil {
		return 0, err
	}
	balance := new(Balance)
	if err = lib.Unmarshal(bz, balance); err != nil {
		return 0, err
	}
	return balance.Amount, nil
}

// GetBalances() retrieves every holder balance for one asset
func (s *StateMachine) GetBalances(asset []byte) (result []*Balance, err lib.ErrorI) {
	err = s.IterateAndExecute(BalancePrefixForAsset(asset), func(_, value []byte) lib.ErrorI {
		balance := new(Balance)
		if e := lib.Unmarshal(value, balance); e != nil {
			return e
		}
		result = append(result, balance)
		return nil
	})
	return
}

// setBalance() writes a holder balance, removing the record entirely at zero
func (s *StateMachine) setBalance(asset, holder []byte, amount uint64) lib.ErrorI {
	if amount == 0 {
		return s.Delete(KeyForBalance(asset, holder))
	}
	bz, err := lib.Marshal(&Balance{Asset: asset, Address: holder, Amount: amount})
	if err != nil {
		return err
	}
	return s.Set(KeyForBalance(asset, holder), bz)
}

// TokenAdd() credits 'holder' with an exact amount of 'asset'
func (s *StateMachine) TokenAdd(asset, holder []byte, amount uint64) lib.ErrorI {
	balance, err := s.GetBalance(asset, holder)
	if err != nil {
		return err
	}
	newBalance, err := lib.SafeAdd(balance, amount)
	if err != nil {
		return err
	}
	return s.setBalance(asset, holder, newBalance)
}

// TokenSub() debits 'holder' an exact amount of 'asset', failing atomically on a shortfall
func (s *StateMachine) TokenSub(asset, holder []byte, amount uint64) lib.ErrorI {
	balance, err := s.GetBalance(asset, holder)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientFunds()
	}
	return s.setBalance(asset, holder, balance-amount)
}

// TokenTransfer() moves an exact amount of 'asset' between two custody locations
func (s *StateMachine) TokenTransfer(asset, from, to []byte, amount uint64) lib.ErrorI {
	if err := s.TokenSub(asset, from, amount); err != nil {
		return err
	}
	return s.TokenAdd(asset, to, amount)
}

// checkPairAuthority() validates the capability presented for a reserve or share mint
// operation against the pair's derived authority
func checkPairAuthority(pair *Pair, authority crypto.AddressI) lib.ErrorI {
	if authority == nil || !authority.Equals(PairAuthorityAddress(pair.Address)) {
		return ErrUnauthorized()
	}
	return nil
}

// CustodyWithdraw() moves an exact amount of 'asset' out of the pair's reserve custody,
// authorized only by the pair authority capability
func (s *StateMachine) CustodyWithdraw(pair *Pair, asset, reserveAccount, to []byte, amount uint64, authority crypto.AddressI) lib.ErrorI {
	if err := checkPairAuthority(pair, authority); err != nil {
		return err
	}
	return s.TokenTransfer(asset, reserveAccount, to, amount)
}

// MintShares() creates an exact amount of the pair's share tokens in a holder's balance,
// authorized only by the pair authority capability
func (s *StateMachine) MintShares(pair *Pair, holder []byte, amount uint64, authority crypto.AddressI) lib.ErrorI {
	if err := checkPairAuthority(pair, authority); err != nil {
		return err
	}
	return s.TokenAdd(pair.ShareMint, holder, amount)
}

// BurnShares() destroys an exact amount of the pair's share tokens in a holder's balance,
// authorized only by the pair authority capability
func (s *StateMachine) BurnShares(pair *Pair, holder []byte, amount uint64, authority crypto.AddressI) lib.ErrorI {
	if err := checkPairAuthority(pair, authority); err != nil {
		return err
	}
	return s.TokenSub(pair.ShareMint, holder, amount)
}
