package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/basin-network/basin/fsm"
	"github.com/basin-network/basin/lib"
	"github.com/basin-network/basin/rpc"
	"github.com/basin-network/basin/store"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{Use: "basin", Short: "basin is an automated market maker exchange node"}
	dataDir string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(rpc.SoftwareVersion)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "write the default configuration to the data directory",
	Run: func(cmd *cobra.Command, args []string) {
		l := lib.NewDefaultLogger()
		config := lib.DefaultConfig()
		config.DataDirPath = dataDir
		configPath := filepath.Join(dataDir, lib.ConfigFilePath)
		if err := config.WriteToFile(configPath); err != nil {
			l.Fatal(err.Error())
		}
		l.Infof("Wrote default configuration to %s", configPath)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start the exchange daemon",
	Run: func(cmd *cobra.Command, args []string) {
		Start()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(queryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// Start() is the entrypoint of the daemon: store, state machine, telemetry, RPC
func Start() {
	config, l := loadConfig()
	metrics := lib.NewMetrics(config.MetricsConfig, l)
	db, err := store.New(config, l)
	if err != nil {
		l.Fatal(err.Error())
	}
	sm := fsm.New(config, db, metrics, l)
	rpc.NewServer(sm, config, l).Start()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	s := <-stop
	metrics.Stop()
	if err = db.Close(); err != nil {
		l.Error(err.Error())
	}
	l.Infof("Exit command %s received", s)
	os.Exit(0)
}

// loadConfig() reads the configuration from the data directory, falling back to defaults
func loadConfig() (lib.Config, lib.LoggerI) {
	bootLog := lib.NewDefaultLogger()
	configPath := filepath.Join(dataDir, lib.ConfigFilePath)
	config, err := lib.NewConfigFromFile(configPath)
	if err != nil {
		bootLog.Warnf("No configuration at %s, using defaults", configPath)
		config = lib.DefaultConfig()
	}
	config.DataDirPath = dataDir
	level, e := lib.StringToLogLevel(config.LogLevel)
	if e != nil {
		bootLog.Warn(e.Error())
		level = lib.InfoLevel
	}
	l := lib.NewLogger(lib.LoggerConfig{Level: level}, dataDir)
	return config, l
}

// openState() opens the durable store and wraps it in a state machine for one-shot commands
func openState() (*fsm.StateMachine, lib.StoreI, lib.LoggerI) {
	config, l := loadConfig()
	db, err := store.New(config, l)
	if err != nil {
		l.Fatal(err.Error())
	}
	return fsm.New(config, db, nil, l), db, l
}

// argAddress() parses a hex encoded 20 byte identity argument
func argAddress(l lib.LoggerI, arg string) lib.HexBytes {
	bz, err := lib.StringToBytes(arg)
	if err != nil {
		l.Fatal(err.Error())
	}
	return bz
}

// argUint64() parses an unsigned integer argument
func argUint64(l lib.LoggerI, arg string) uint64 {
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		l.Fatal(err.Error())
	}
	return n
}

// printJSON() writes a record to stdout as indented JSON
func printJSON(l lib.LoggerI, payload any) {
	bz, err := lib.MarshalJSONIndent(payload)
	if err != nil {
		l.Fatal(err.Error())
	}
	fmt.Println(string(bz))
}
