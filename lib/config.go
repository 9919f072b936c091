package lib

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/alecthomas/units"
)

/* This file implements logic for 'user controlled' configuration of each module of the exchange */

const (
	ConfigFilePath = "config.json" // the file path for the node configuration
)

// Config is the structure of the user configuration options for a basin node
type Config struct {
	MainConfig    // main options spanning over all modules
	StoreConfig   // persistence options
	RPCConfig     // query API options
	MetricsConfig // telemetry options
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:    DefaultMainConfig(),
		StoreConfig:   DefaultStoreConfig(),
		RPCConfig:     DefaultRPCConfig(),
		MetricsConfig: DefaultMetricsConfig(),
	}
}

// MAIN CONFIG BELOW

type MainConfig struct {
	LogLevel    string `json:"logLevel"` // any level includes the levels above it: debug < info < warning < error
	DataDirPath string `json:"dataDirPath"`
}

// DefaultMainConfig() sets log level to 'info'
func DefaultMainConfig() MainConfig {
	return MainConfig{
		LogLevel:    "info",
		DataDirPath: DefaultDataDirPath(),
	}
}

// STORE CONFIG BELOW

type StoreConfig struct {
	DBName       string `json:"dbName"`       // the name of the database directory
	InMemory     bool   `json:"inMemory"`     // non-durable, for tests only
	ValueLogSize string `json:"valueLogSize"` // human-readable max value log file size, e.g. "256MB"
}

// DefaultStoreConfig() returns the developer recommended store configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DBName:       "basin",
		InMemory:     false,
		ValueLogSize: "256MB",
	}
}

// ParseValueLogSize() converts the human-readable size to bytes, falling back to the default on a blank value
func (c StoreConfig) ParseValueLogSize() (int64, ErrorI) {
	if c.ValueLogSize == "" {
		c.ValueLogSize = DefaultStoreConfig().ValueLogSize
	}
	n, err := units.ParseBase2Bytes(c.ValueLogSize)
	if err != nil {
		return 0, ErrInvalidValueLogSize(err)
	}
	return int64(n), nil
}

// RPC CONFIG BELOW

type RPCConfig struct {
	RPCPort    string `json:"rpcPort"`    // the port for the read-only query API
	TimeoutS   int    `json:"timeoutS"`   // the http server read/write timeout in seconds
	CORSOrigin string `json:"corsOrigin"` // allowed cross-origin, '*' for any
}

// DefaultRPCConfig() serves the query API on :50100
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		RPCPort:    "50100",
		TimeoutS:   3,
		CORSOrigin: "*",
	}
}

// METRICS CONFIG BELOW

type MetricsConfig struct {
	Enabled     bool   `json:"enabled"`     // turn prometheus telemetry on or off
	MetricsPort string `json:"metricsPort"` // the port the /metrics handler is served on
}

// DefaultMetricsConfig() disables telemetry
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:     false,
		MetricsPort: "9090",
	}
}

// NewConfigFromFile() populates a Config object from a JSON file
func NewConfigFromFile(filePath string) (Config, ErrorI) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, ErrReadFile(err)
	}
	c := DefaultConfig()
	if err = json.Unmarshal(file, &c); err != nil {
		return Config{}, ErrJSONUnmarshal(err)
	}
	return c, nil
}

// WriteToFile() saves the Config object to a JSON file
func (c Config) WriteToFile(filePath string) ErrorI {
	bz, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return ErrJSONMarshal(err)
	}
	if e := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); e != nil {
		return ErrWriteFile(e)
	}
	if e := os.WriteFile(filePath, bz, os.ModePerm); e != nil {
		return ErrWriteFile(e)
	}
	return nil
}

// DefaultDataDirPath() is $HOME/.basin
func DefaultDataDirPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".basin")
}
