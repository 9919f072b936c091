package main

import (
	"github.com/basin-network/basin/fsm"
	"github.com/basin-network/basin/lib"
	"github.com/spf13/cobra"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "apply an operation against the local exchange state",
}

var (
	minX         uint64
	minY         uint64
	amountOutMin uint64
	feeCollector string
	feeEnabled   bool
)

func init() {
	txAddLiquidityCmd.PersistentFlags().Uint64Var(&minX, "min-x", 0, "minimum acceptable amount of the first asset")
	txAddLiquidityCmd.PersistentFlags().Uint64Var(&minY, "min-y", 0, "minimum acceptable amount of the second asset")
	txRemoveLiquidityCmd.PersistentFlags().Uint64Var(&minX, "min-x", 0, "minimum acceptable amount of the first asset")
	txRemoveLiquidityCmd.PersistentFlags().Uint64Var(&minY, "min-y", 0, "minimum acceptable amount of the second asset")
	txSwapCmd.PersistentFlags().Uint64Var(&amountOutMin, "min-out", 0, "minimum acceptable output amount")
	txSetProtocolFeeCmd.PersistentFlags().StringVar(&feeCollector, "collector", "", "hex address of the protocol fee destination")
	txSetProtocolFeeCmd.PersistentFlags().BoolVar(&feeEnabled, "enabled", false, "toggle the reserved protocol fee")
	txCmd.AddCommand(txInitializeRegistryCmd)
	txCmd.AddCommand(txSetProtocolFeeCmd)
	txCmd.AddCommand(txCreatePairCmd)
	txCmd.AddCommand(txConfigurePairCmd)
	txCmd.AddCommand(txAddLiquidityCmd)
	txCmd.AddCommand(txRemoveLiquidityCmd)
	txCmd.AddCommand(txSwapCmd)
	txCmd.AddCommand(txFundCmd)
}

var txInitializeRegistryCmd = &cobra.Command{
	Use:   "initialize-registry <owner>",
	Short: "create the registry singleton for the exchange",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		applyLocal(sm, l, &fsm.MessageInitializeRegistry{Owner: argAddress(l, args[0])})
	},
}

var txSetProtocolFeeCmd = &cobra.Command{
	Use:   "set-protocol-fee <signer>",
	Short: "update the reserved protocol fee fields",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		msg := &fsm.MessageSetProtocolFee{Signer: argAddress(l, args[0]), FeeEnabled: feeEnabled}
		if feeCollector != "" {
			msg.FeeCollector = argAddress(l, feeCollector)
		}
		applyLocal(sm, l, msg)
	},
}

var txCreatePairCmd = &cobra.Command{
	Use:   "create-pair <signer> <tokenX> <tokenY>",
	Short: "allocate a pair for an unordered asset pair",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		applyLocal(sm, l, &fsm.MessageCreatePair{
			Signer: argAddress(l, args[0]),
			TokenX: argAddress(l, args[1]),
			TokenY: argAddress(l, args[2]),
		})
	},
}

var txConfigurePairCmd = &cobra.Command{
	Use:   "configure-pair <signer> <tokenX> <tokenY>",
	Short: "complete the pair lifecycle transition, deriving the custody and share mint references",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		tokenX, tokenY := argAddress(l, args[1]), argAddress(l, args[2])
		pairAddress := fsm.PairAddress(tokenX, tokenY).Bytes()
		applyLocal(sm, l, &fsm.MessageConfigurePair{
			Signer:    argAddress(l, args[0]),
			TokenX:    tokenX,
			TokenY:    tokenY,
			CustodyX:  fsm.ReserveAccountAddress(pairAddress, tokenX).Bytes(),
			CustodyY:  fsm.ReserveAccountAddress(pairAddress, tokenY).Bytes(),
			ShareMint: fsm.ShareMintAddress(pairAddress).Bytes(),
		})
	},
}

var txAddLiquidityCmd = &cobra.Command{
	Use:   "add-liquidity <signer> <tokenX> <tokenY> <desiredX> <desiredY>",
	Short: "deposit both assets and mint proportional ownership shares",
	Args:  cobra.ExactArgs(5),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		applyLocal(sm, l, &fsm.MessageAddLiquidity{
			Signer:   argAddress(l, args[0]),
			TokenX:   argAddress(l, args[1]),
			TokenY:   argAddress(l, args[2]),
			DesiredX: argUint64(l, args[3]),
			DesiredY: argUint64(l, args[4]),
			MinX:     minX,
			MinY:     minY,
		})
	},
}

var txRemoveLiquidityCmd = &cobra.Command{
	Use:   "remove-liquidity <signer> <tokenX> <tokenY> <liquidity>",
	Short: "redeem shares for a proportional amount of both reserves",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		applyLocal(sm, l, &fsm.MessageRemoveLiquidity{
			Signer:    argAddress(l, args[0]),
			TokenX:    argAddress(l, args[1]),
			TokenY:    argAddress(l, args[2]),
			Liquidity: argUint64(l, args[3]),
			MinX:      minX,
			MinY:      minY,
		})
	},
}

var txSwapCmd = &cobra.Command{
	Use:   "swap <signer> <tokenIn> <tokenOut> <amountIn>",
	Short: "trade an exact input amount of one pair asset for the other",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		applyLocal(sm, l, &fsm.MessageSwap{
			Signer:       argAddress(l, args[0]),
			TokenIn:      argAddress(l, args[1]),
			TokenOut:     argAddress(l, args[2]),
			AmountIn:     argUint64(l, args[3]),
			AmountOutMin: amountOutMin,
		})
	},
}

// txFundCmd is a development faucet: in production custody deposits arrive from the
// surrounding settlement environment, not from the node operator
var txFundCmd = &cobra.Command{
	Use:   "fund <asset> <holder> <amount>",
	Short: "credit a custody balance (development only)",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		if err := sm.TokenAdd(argAddress(l, args[0]), argAddress(l, args[1]), argUint64(l, args[2])); err != nil {
			l.Fatal(err.Error())
		}
		if err := sm.Commit(); err != nil {
			l.Fatal(err.Error())
		}
		l.Info("Balance credited")
	},
}

// applyLocal() runs one operation against the local state and makes it durable
func applyLocal(sm *fsm.StateMachine, l lib.LoggerI, msg lib.MessageI) {
	if err := sm.ApplyMessage(msg); err != nil {
		l.Fatal(err.Error())
	}
	if err := sm.Commit(); err != nil {
		l.Fatal(err.Error())
	}
	l.Infof("Applied %s", msg.Name())
}
