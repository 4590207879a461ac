package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/mosaicnetworks/n2n/src/common"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultBadgerFile is the default name of the folder containing the Badger
	// database of peer records
	DefaultBadgerFile = "badger_db"

	// DefaultConfigName is the name, without extension, of the optional config
	// file in the data directory.
	DefaultConfigName = "n2n"
)

// Default configuration values.
const (
	DefaultLogLevel         = "debug"
	DefaultNetwork          = Mainnet
	DefaultNetworkMagic     = MainnetMagic
	DefaultBindAddr         = "127.0.0.1:3001"
	DefaultServiceAddr      = "127.0.0.1:8000"
	DefaultNoService        = false
	DefaultTCPTimeout       = 1000 * time.Millisecond
	DefaultHandshakeTimeout = 10000 * time.Millisecond
	DefaultStore            = false
)

// Config contains all the configuration properties of an n2n node.
type Config struct {
	// DataDir is the top-level directory containing the configuration file
	// and the database
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, when set, receives a JSON copy of every log line.
	LogFile string `mapstructure:"log-file"`

	// Network is the name of a well-known network. When set it takes
	// precedence over NetworkMagic.
	Network string `mapstructure:"network"`

	// NetworkMagic identifies the network when Network is empty.
	NetworkMagic uint32 `mapstructure:"network-magic"`

	// BindAddr is the local address:port where the node accepts handshakes.
	BindAddr string `mapstructure:"listen"`

	// AdvertiseAddr is used to change the address that we advertise to other
	// nodes.
	AdvertiseAddr string `mapstructure:"advertise"`

	// NoService disables the HTTP API service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the optional HTTP service.
	ServiceAddr string `mapstructure:"service-listen"`

	// TCPTimeout is the dial timeout of outgoing connections.
	TCPTimeout time.Duration `mapstructure:"timeout"`

	// HandshakeTimeout bounds a whole handshake, dial excluded.
	HandshakeTimeout time.Duration `mapstructure:"handshake-timeout"`

	// Store activates persistant storage of peer records.
	Store bool `mapstructure:"store"`

	// DatabaseDir is the directory containing database files.
	DatabaseDir string `mapstructure:"db"`

	// Moniker defines the friendly name of this node
	Moniker string `mapstructure:"moniker"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:          DefaultDataDir(),
		LogLevel:         DefaultLogLevel,
		Network:          DefaultNetwork,
		NetworkMagic:     DefaultNetworkMagic,
		BindAddr:         DefaultBindAddr,
		ServiceAddr:      DefaultServiceAddr,
		NoService:        DefaultNoService,
		TCPTimeout:       DefaultTCPTimeout,
		HandshakeTimeout: DefaultHandshakeTimeout,
		Store:            DefaultStore,
		DatabaseDir:      DefaultDatabaseDir(),
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level directory, and updates the database
// directory if it is currently set to the default value. If the database
// directory is not currently the default, it means the user has explicitely set
// it to something else, so avoid changing it again here.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// Magic returns the network magic to use: the magic of Network when it is
// set, NetworkMagic otherwise.
func (c *Config) Magic() (uint32, error) {
	if c.Network == "" {
		return c.NetworkMagic, nil
	}
	return NetworkMagic(c.Network)
}

// Logger returns a formatted logrus Entry, with prefix set to "n2n".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
		if c.LogFile != "" {
			c.logger.AddHook(lfshook.NewHook(c.LogFile, &logrus.JSONFormatter{}))
		}
	}
	return c.logger.WithField("prefix", "n2n")
}

// DefaultDatabaseDir returns the default path for the badger database files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for top-level n2n config
// based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".N2N")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "N2N")
		} else {
			return filepath.Join(home, ".n2n")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
