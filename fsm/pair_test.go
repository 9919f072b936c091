package fsm

import (
	"bytes"
	"testing"

	"github.com/basin-network/basin/lib"
	"github.com/stretchr/testify/require"
)

func TestCreatePair(t *testing.T) {
	owner, stranger := newTestAddress(0xaa), newTestAddress(0xbb)
	tokenX, tokenY := newTestAddress(2), newTestAddress(1)
	tests := []struct {
		name       string
		detail     string
		signer     lib.HexBytes
		tokenX     lib.HexBytes
		tokenY     lib.HexBytes
		setupState func(sm *StateMachine)
		code       lib.ErrorCode
	}{
		{
			name:   "allocation",
			detail: "a new pair is allocated uninitialized with no reserves",
			signer: owner,
			tokenX: tokenX,
			tokenY: tokenY,
		},
		{
			name:   "identical assets",
			detail: "a pair over one asset is rejected before any state access",
			signer: owner,
			tokenX: tokenX,
			tokenY: tokenX,
			code:   lib.CodeIdenticalAssets,
		},
		{
			name:   "non-owner",
			detail: "only the registry owner may create pairs",
			signer: stranger,
			tokenX: tokenX,
			tokenY: tokenY,
			code:   lib.CodeUnauthorized,
		},
		{
			name:   "duplicate pair",
			detail: "the unordered asset pair has exactly one address, a second allocation fails even with swapped arguments",
			signer: owner,
			tokenX: tokenY,
			tokenY: tokenX,
			setupState: func(sm *StateMachine) {
				require.NoError(t, sm.ApplyMessage(&MessageCreatePair{Signer: owner, TokenX: tokenX, TokenY: tokenY}))
			},
			code: lib.CodePairExists,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm := newTestStateMachine(t)
			require.NoError(t, sm.ApplyMessage(&MessageInitializeRegistry{Owner: owner}))
			if test.setupState != nil {
				test.setupState(sm)
			}
			err := sm.ApplyMessage(&MessageCreatePair{Signer: test.signer, TokenX: test.tokenX, TokenY: test.tokenY})
			if test.code != 0 {
				require.Error(t, err)
				require.Equal(t, test.code, err.Code())
				return
			}
			require.NoError(t, err)
			pair, e := sm.GetPairForAssets(test.tokenX, test.tokenY)
			require.NoError(t, e)
			require.Equal(t, PairStateUninitialized, pair.State)
			require.EqualValues(t, 0, pair.ReserveA)
			require.EqualValues(t, 0, pair.ReserveB)
			require.EqualValues(t, 0, pair.TotalShares)
			require.Empty(t, pair.ShareMint)
		})
	}
}

func TestConfigurePairOrdering(t *testing.T) {
	// the smaller identifier is always stored as token A, regardless of argument order
	owner := newTestAddress(0xaa)
	smaller, larger := newTestAddress(1), newTestAddress(2)
	for _, swapped := range []bool{false, true} {
		tokenX, tokenY := smaller, larger
		if swapped {
			tokenX, tokenY = larger, smaller
		}
		sm := newTestStateMachine(t)
		pair := newConfiguredPair(t, sm, owner, tokenX, tokenY)
		require.Equal(t, []byte(smaller), []byte(pair.TokenA))
		require.Equal(t, []byte(larger), []byte(pair.TokenB))
		require.True(t, bytes.Compare(pair.TokenA, pair.TokenB) < 0)
		// both argument orders resolve to the same address
		require.Equal(t, PairAddress(tokenX, tokenY).Bytes(), []byte(pair.Address))
		require.Equal(t, PairAddress(tokenY, tokenX).Bytes(), []byte(pair.Address))
	}
}

func TestConfigurePair(t *testing.T) {
	owner, stranger := newTestAddress(0xaa), newTestAddress(0xbb)
	tokenX, tokenY := newTestAddress(2), newTestAddress(1)
	pairAddress := PairAddress(tokenX, tokenY).Bytes()
	validMsg := func() *MessageConfigurePair {
		return &MessageConfigurePair{
			Signer:    owner,
			TokenX:    tokenX,
			TokenY:    tokenY,
			CustodyX:  ReserveAccountAddress(pairAddress, tokenX).Bytes(),
			CustodyY:  ReserveAccountAddress(pairAddress, tokenY).Bytes(),
			ShareMint: ShareMintAddress(pairAddress).Bytes(),
		}
	}
	tests := []struct {
		name       string
		detail     string
		msg        func() *MessageConfigurePair
		setupState func(sm *StateMachine)
		code       lib.ErrorCode
	}{
		{
			name:   "configuration",
			detail: "a valid configuration transitions the pair and bumps the registry counter",
			msg:    validMsg,
		},
		{
			name:   "already configured",
			detail: "the lifecycle transition is irreversible, a second call always fails",
			msg:    validMsg,
			setupState: func(sm *StateMachine) {
				require.NoError(t, sm.ApplyMessage(validMsg()))
			},
			code: lib.CodeAlreadyConfigured,
		},
		{
			name:   "missing pair",
			detail: "configuration requires a prior allocation",
			msg: func() *MessageConfigurePair {
				msg := validMsg()
				msg.TokenY = newTestAddress(3)
				return msg
			},
			code: lib.CodePairNotExists,
		},
		{
			name:   "non-owner",
			detail: "only the registry owner may configure pairs",
			msg: func() *MessageConfigurePair {
				msg := validMsg()
				msg.Signer = stranger
				return msg
			},
			code: lib.CodeUnauthorized,
		},
		{
			name:   "wrong custody reference",
			detail: "custody references must match their derived addresses",
			msg: func() *MessageConfigurePair {
				msg := validMsg()
				msg.CustodyX = newTestAddress(0xee)
				return msg
			},
			code: lib.CodeInvalidCustodyReference,
		},
		{
			name:   "wrong share mint",
			detail: "the share mint must match its derived address",
			msg: func() *MessageConfigurePair {
				msg := validMsg()
				msg.ShareMint = newTestAddress(0xee)
				return msg
			},
			code: lib.CodeInvalidShareMint,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm := newTestStateMachine(t)
			require.NoError(t, sm.ApplyMessage(&MessageInitializeRegistry{Owner: owner}))
			require.NoError(t, sm.ApplyMessage(&MessageCreatePair{Signer: owner, TokenX: tokenX, TokenY: tokenY}))
			if test.setupState != nil {
				test.setupState(sm)
			}
			err := sm.ApplyMessage(test.msg())
			if test.code != 0 {
				require.Error(t, err)
				require.Equal(t, test.code, err.Code())
				return
			}
			require.NoError(t, err)
			pair, e := sm.GetPair(pairAddress)
			require.NoError(t, e)
			require.Equal(t, PairStateConfigured, pair.State)
			registry, e := sm.GetRegistry()
			require.NoError(t, e)
			require.EqualValues(t, 1, registry.PairCount)
			require.Equal(t, pair.Address, registry.LastPair)
		})
	}
}

func TestGetPairs(t *testing.T) {
	owner := newTestAddress(0xaa)
	sm := newTestStateMachine(t)
	newConfiguredPair(t, sm, owner, newTestAddress(1), newTestAddress(2))
	newConfiguredPair(t, sm, owner, newTestAddress(3), newTestAddress(4))
	pairs, err := sm.GetPairs()
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	registry, err := sm.GetRegistry()
	require.NoError(t, err)
	require.EqualValues(t, 2, registry.PairCount)
}
