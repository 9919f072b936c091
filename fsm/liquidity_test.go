package fsm

import (
	"testing"

	"github.com/basin-network/basin/lib"
	"github.com/stretchr/testify/require"
)

// fundAccount() seeds a custody balance for test setup
func fundAccount(t *testing.T, sm *StateMachine, asset, holder lib.HexBytes, amount uint64) {
	require.NoError(t, sm.TokenAdd(asset, holder, amount))
}

func TestAddLiquidityFirstDeposit(t *testing.T) {
	tests := []struct {
		name           string
		detail         string
		desiredX       uint64
		desiredY       uint64
		expectedShares uint64
		expectedSupply uint64
		code           lib.ErrorCode
	}{
		{
			name:           "geometric mean",
			detail:         "shares are the floored root of the product minus the permanent floor",
			desiredX:       10_000,
			desiredY:       40_000,
			expectedShares: 19_000, // floor(sqrt(400_000_000)) - 1000
			expectedSupply: 20_000, // user shares plus the locked floor
		},
		{
			name:     "deposit at the floor",
			detail:   "a deposit whose root equals the floor mints nothing",
			desiredX: 1_000,
			desiredY: 1_000,
			code:     lib.CodeInsufficientLiquidityMinted,
		},
		{
			name:     "deposit below the floor",
			detail:   "the subtraction clamps to zero instead of underflowing",
			desiredX: 10,
			desiredY: 10,
			code:     lib.CodeInsufficientLiquidityMinted,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm := newTestStateMachine(t)
			owner, depositor := newTestAddress(0xaa), newTestAddress(0xbb)
			tokenX, tokenY := newTestAddress(2), newTestAddress(1)
			pair := newConfiguredPair(t, sm, owner, tokenX, tokenY)
			fundAccount(t, sm, tokenX, depositor, test.desiredX)
			fundAccount(t, sm, tokenY, depositor, test.desiredY)
			err := sm.ApplyMessage(&MessageAddLiquidity{
				Signer: depositor, TokenX: tokenX, TokenY: tokenY,
				DesiredX: test.desiredX, DesiredY: test.desiredY,
			})
			if test.code != 0 {
				require.Error(t, err)
				require.Equal(t, test.code, err.Code())
				return
			}
			require.NoError(t, err)
			pair, e := sm.GetPair(pair.Address)
			require.NoError(t, e)
			require.Equal(t, test.expectedSupply, pair.TotalShares)
			// tokenY is the smaller identifier so it is reserve A
			require.Equal(t, test.desiredY, pair.ReserveA)
			require.Equal(t, test.desiredX, pair.ReserveB)
			// depositor holds the minted shares, the floor is locked at the dead address
			shares, e := sm.GetBalance(pair.ShareMint, depositor)
			require.NoError(t, e)
			require.Equal(t, test.expectedShares, shares)
			locked, e := sm.GetBalance(pair.ShareMint, deadAddr.Bytes())
			require.NoError(t, e)
			require.EqualValues(t, MinimumLiquidity, locked)
			// both full desired amounts were taken
			remainingX, e := sm.GetBalance(tokenX, depositor)
			require.NoError(t, e)
			require.EqualValues(t, 0, remainingX)
		})
	}
}

func TestAddLiquidityProportional(t *testing.T) {
	tests := []struct {
		name           string
		detail         string
		desiredA       uint64
		desiredB       uint64
		minA           uint64
		minB           uint64
		expectedA      uint64
		expectedB      uint64
		expectedShares uint64
		code           lib.ErrorCode
	}{
		{
			name:           "side A binding",
			detail:         "the optimal counter-amount fits under desired B so A fixes the ratio",
			desiredA:       1_000,
			desiredB:       10_000,
			expectedA:      1_000,
			expectedB:      4_000, // 1_000 * 80_000 / 20_000
			expectedShares: 1_000, // 1_000 * 20_000 / 20_000
		},
		{
			name:           "side B binding",
			detail:         "desired B cannot cover the optimal counter-amount so B fixes the ratio",
			desiredA:       1_000,
			desiredB:       2_000,
			expectedA:      500, // 2_000 * 20_000 / 80_000
			expectedB:      2_000,
			expectedShares: 500, // 2_000 * 20_000 / 80_000
		},
		{
			name:     "optimal below minimum",
			detail:   "the computed counter-amount under min B is a slippage failure",
			desiredA: 1_000,
			desiredB: 10_000,
			minB:     4_001,
			code:     lib.CodeInsufficientAmount,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm := newTestStateMachine(t)
			owner, lp, depositor := newTestAddress(0xaa), newTestAddress(0xbb), newTestAddress(0xcc)
			// tokenA is the smaller identifier
			tokenA, tokenB := newTestAddress(1), newTestAddress(2)
			pair := newConfiguredPair(t, sm, owner, tokenA, tokenB)
			// seed the pool at reserves (20_000, 80_000) with 20_000 total shares
			fundAccount(t, sm, tokenA, lp, 20_000)
			fundAccount(t, sm, tokenB, lp, 80_000)
			require.NoError(t, sm.ApplyMessage(&MessageAddLiquidity{
				Signer: lp, TokenX: tokenA, TokenY: tokenB,
				DesiredX: 20_000, DesiredY: 80_000,
			}))
			fundAccount(t, sm, tokenA, depositor, test.desiredA)
			fundAccount(t, sm, tokenB, depositor, test.desiredB)
			err := sm.ApplyMessage(&MessageAddLiquidity{
				Signer: depositor, TokenX: tokenA, TokenY: tokenB,
				DesiredX: test.desiredA, DesiredY: test.desiredB,
				MinX: test.minA, MinY: test.minB,
			})
			if test.code != 0 {
				require.Error(t, err)
				require.Equal(t, test.code, err.Code())
				return
			}
			require.NoError(t, err)
			pair, e := sm.GetPair(pair.Address)
			require.NoError(t, e)
			require.Equal(t, 20_000+test.expectedA, pair.ReserveA)
			require.Equal(t, 80_000+test.expectedB, pair.ReserveB)
			require.Equal(t, 20_000+test.expectedShares, pair.TotalShares)
			shares, e := sm.GetBalance(pair.ShareMint, depositor)
			require.NoError(t, e)
			require.Equal(t, test.expectedShares, shares)
			// only the actual deposit left the depositor's custody
			remainingA, e := sm.GetBalance(tokenA, depositor)
			require.NoError(t, e)
			require.Equal(t, test.desiredA-test.expectedA, remainingA)
			remainingB, e := sm.GetBalance(tokenB, depositor)
			require.NoError(t, e)
			require.Equal(t, test.desiredB-test.expectedB, remainingB)
		})
	}
}

func TestRemoveLiquidity(t *testing.T) {
	tests := []struct {
		name      string
		detail    string
		liquidity uint64
		minA      uint64
		minB      uint64
		expectedA uint64
		expectedB uint64
		code      lib.ErrorCode
	}{
		{
			name:      "proportional withdrawal",
			detail:    "redeemed amounts are the floored proportional claim on both reserves",
			liquidity: 1_000,
			expectedA: 500,   // 1_000 * 10_000 / 20_000
			expectedB: 2_000, // 1_000 * 40_000 / 20_000
		},
		{
			name:      "full user withdrawal",
			detail:    "the locked floor keeps the pool away from a zero-supply state",
			liquidity: 19_000,
			expectedA: 9_500,  // 19_000 * 10_000 / 20_000
			expectedB: 38_000, // 19_000 * 40_000 / 20_000
		},
		{
			name:      "amount below minimum",
			detail:    "a slippage bound above the proportional claim fails",
			liquidity: 1_000,
			minA:      501,
			code:      lib.CodeInsufficientAmount,
		},
		{
			name:      "more shares than held",
			detail:    "redeeming shares the withdrawer doesn't hold fails at the burn",
			liquidity: 19_001,
			code:      lib.CodeInsufficientFunds,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm := newTestStateMachine(t)
			owner, lp := newTestAddress(0xaa), newTestAddress(0xbb)
			tokenA, tokenB := newTestAddress(1), newTestAddress(2)
			pair := newConfiguredPair(t, sm, owner, tokenA, tokenB)
			// seed the pool at reserves (10_000, 40_000): lp holds 19_000 shares
			fundAccount(t, sm, tokenA, lp, 10_000)
			fundAccount(t, sm, tokenB, lp, 40_000)
			require.NoError(t, sm.ApplyMessage(&MessageAddLiquidity{
				Signer: lp, TokenX: tokenA, TokenY: tokenB,
				DesiredX: 10_000, DesiredY: 40_000,
			}))
			err := sm.ApplyMessage(&MessageRemoveLiquidity{
				Signer: lp, TokenX: tokenA, TokenY: tokenB,
				Liquidity: test.liquidity, MinX: test.minA, MinY: test.minB,
			})
			if test.code != 0 {
				require.Error(t, err)
				require.Equal(t, test.code, err.Code())
				return
			}
			require.NoError(t, err)
			pair, e := sm.GetPair(pair.Address)
			require.NoError(t, e)
			require.Equal(t, 10_000-test.expectedA, pair.ReserveA)
			require.Equal(t, 40_000-test.expectedB, pair.ReserveB)
			require.Equal(t, 20_000-test.liquidity, pair.TotalShares)
			// the zero-supply/non-zero-reserve state is unreachable
			if pair.TotalShares == 0 {
				require.Zero(t, pair.ReserveA)
				require.Zero(t, pair.ReserveB)
			} else {
				require.NotZero(t, pair.ReserveA)
				require.NotZero(t, pair.ReserveB)
			}
			received, e := sm.GetBalance(tokenA, lp)
			require.NoError(t, e)
			require.Equal(t, test.expectedA, received)
		})
	}
}

func TestLiquidityRoundTripBound(t *testing.T) {
	// adding then immediately removing the same shares never returns more than deposited
	sm := newTestStateMachine(t)
	owner, lp, depositor := newTestAddress(0xaa), newTestAddress(0xbb), newTestAddress(0xcc)
	tokenA, tokenB := newTestAddress(1), newTestAddress(2)
	newConfiguredPair(t, sm, owner, tokenA, tokenB)
	fundAccount(t, sm, tokenA, lp, 33_333)
	fundAccount(t, sm, tokenB, lp, 77_777)
	require.NoError(t, sm.ApplyMessage(&MessageAddLiquidity{
		Signer: lp, TokenX: tokenA, TokenY: tokenB,
		DesiredX: 33_333, DesiredY: 77_777,
	}))
	const depositA, depositB = 1_003, 7_777
	fundAccount(t, sm, tokenA, depositor, depositA)
	fundAccount(t, sm, tokenB, depositor, depositB)
	pair, err := sm.GetPairForAssets(tokenA, tokenB)
	require.NoError(t, err)
	require.NoError(t, sm.ApplyMessage(&MessageAddLiquidity{
		Signer: depositor, TokenX: tokenA, TokenY: tokenB,
		DesiredX: depositA, DesiredY: depositB,
	}))
	shares, err := sm.GetBalance(pair.ShareMint, depositor)
	require.NoError(t, err)
	require.NotZero(t, shares)
	require.NoError(t, sm.ApplyMessage(&MessageRemoveLiquidity{
		Signer: depositor, TokenX: tokenA, TokenY: tokenB,
		Liquidity: shares,
	}))
	// the returned balances never exceed the funded amounts
	balanceA, err := sm.GetBalance(tokenA, depositor)
	require.NoError(t, err)
	require.LessOrEqual(t, balanceA, uint64(depositA))
	balanceB, err := sm.GetBalance(tokenB, depositor)
	require.NoError(t, err)
	require.LessOrEqual(t, balanceB, uint64(depositB))
}

func TestAddLiquidityNotConfigured(t *testing.T) {
	sm := newTestStateMachine(t)
	owner := newTestAddress(0xaa)
	tokenA, tokenB := newTestAddress(1), newTestAddress(2)
	require.NoError(t, sm.ApplyMessage(&MessageInitializeRegistry{Owner: owner}))
	require.NoError(t, sm.ApplyMessage(&MessageCreatePair{Signer: owner, TokenX: tokenA, TokenY: tokenB}))
	err := sm.ApplyMessage(&MessageAddLiquidity{
		Signer: owner, TokenX: tokenA, TokenY: tokenB,
		DesiredX: 10_000, DesiredY: 10_000,
	})
	require.Error(t, err)
	require.Equal(t, lib.CodeNotConfigured, err.Code())
}
