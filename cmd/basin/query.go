package main

import (
	"github.com/basin-network/basin/fsm"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "query the local exchange state",
}

func init() {
	queryCmd.AddCommand(queryRegistryCmd)
	queryCmd.AddCommand(queryPairCmd)
	queryCmd.AddCommand(queryPairsCmd)
	queryCmd.AddCommand(queryBalanceCmd)
	queryCmd.AddCommand(queryPriceCmd)
}

var queryRegistryCmd = &cobra.Command{
	Use:   "registry",
	Short: "print the exchange registry singleton",
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		registry, err := sm.GetRegistry()
		if err != nil {
			l.Fatal(err.Error())
		}
		printJSON(l, registry)
	},
}

var queryPairCmd = &cobra.Command{
	Use:   "pair <tokenX> <tokenY>",
	Short: "print the pair record for an unordered asset pair",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		pair, err := sm.GetPairForAssets(argAddress(l, args[0]), argAddress(l, args[1]))
		if err != nil {
			l.Fatal(err.Error())
		}
		printJSON(l, pair)
	},
}

var queryPairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "print every pair record",
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		pairs, err := sm.GetPairs()
		if err != nil {
			l.Fatal(err.Error())
		}
		printJSON(l, pairs)
	},
}

var queryBalanceCmd = &cobra.Command{
	Use:   "balance <asset> <holder>",
	Short: "print the custody balance of a holder for an asset",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		amount, err := sm.GetBalance(argAddress(l, args[0]), argAddress(l, args[1]))
		if err != nil {
			l.Fatal(err.Error())
		}
		printJSON(l, map[string]uint64{"amount": amount})
	},
}

var queryPriceCmd = &cobra.Command{
	Use:   "price <tokenX> <tokenY>",
	Short: "print the fixed-point spot prices of a configured pair",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sm, db, l := openState()
		defer db.Close()
		pair, err := sm.GetPairForAssets(argAddress(l, args[0]), argAddress(l, args[1]))
		if err != nil {
			l.Fatal(err.Error())
		}
		priceA, priceB, err := pair.SpotPrices()
		if err != nil {
			l.Fatal(err.Error())
		}
		printJSON(l, map[string]uint64{"priceA": priceA, "priceB": priceB, "scale": fsm.PriceScale})
	},
}
