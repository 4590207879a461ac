package commands

import (
	"github.com/mosaicnetworks/n2n/src/config"
	"github.com/mosaicnetworks/n2n/src/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//CLIConfig contains configuration for the commands
type CLIConfig struct {
	N2N  config.Config `mapstructure:",squash"`
	JSON bool          `mapstructure:"json"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		N2N:  *config.NewDefaultConfig(),
		JSON: false,
	}
}

//AddCommonFlags adds the flags shared by every command that runs handshakes
func AddCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", _config.N2N.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.N2N.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", _config.N2N.LogFile, "Also write JSON logs to this file")
	cmd.Flags().String("moniker", _config.N2N.Moniker, "Optional name")

	// Network
	cmd.Flags().StringP("network", "n", _config.N2N.Network, "mainnet, testnet, preprod, preview, sanchonet; empty to use --network-magic")
	cmd.Flags().Uint32("network-magic", _config.N2N.NetworkMagic, "Network magic, when --network is empty")
	cmd.Flags().DurationP("timeout", "t", _config.N2N.TCPTimeout, "TCP dial timeout")
	cmd.Flags().Duration("handshake-timeout", _config.N2N.HandshakeTimeout, "Handshake timeout")

	// Store
	cmd.Flags().Bool("store", _config.N2N.Store, "Record handshakes in badgerDB instead of in-mem DB")
	cmd.Flags().String("db", _config.N2N.DatabaseDir, "Dabatabase directory")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.N2N.SetDataDir(_config.N2N.DataDir)

	// An explicit --network-magic wins over the default network name
	if f := cmd.Flags().Lookup("network-magic"); f != nil && f.Changed {
		if n := cmd.Flags().Lookup("network"); n != nil && !n.Changed {
			_config.N2N.Network = ""
		}
	}

	if _, err := _config.N2N.Magic(); err != nil {
		return err
	}

	logFields := logrus.Fields{
		"n2n.DataDir":          _config.N2N.DataDir,
		"n2n.Network":          _config.N2N.Network,
		"n2n.NetworkMagic":     _config.N2N.NetworkMagic,
		"n2n.BindAddr":         _config.N2N.BindAddr,
		"n2n.AdvertiseAddr":    _config.N2N.AdvertiseAddr,
		"n2n.ServiceAddr":      _config.N2N.ServiceAddr,
		"n2n.NoService":        _config.N2N.NoService,
		"n2n.Store":            _config.N2N.Store,
		"n2n.LogLevel":         _config.N2N.LogLevel,
		"n2n.Moniker":          _config.N2N.Moniker,
		"n2n.TCPTimeout":       _config.N2N.TCPTimeout,
		"n2n.HandshakeTimeout": _config.N2N.HandshakeTimeout,
	}

	if _config.N2N.Store {
		logFields["n2n.DatabaseDir"] = _config.N2N.DatabaseDir
	}

	_config.N2N.Logger().WithFields(logFields).Debug(cmd.Name())

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/n2n.toml (.json, .yaml also work)
	viper.SetConfigName(config.DefaultConfigName) // name of config file (without extension)
	viper.AddConfigPath(_config.N2N.DataDir)      // search root directory

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.N2N.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.N2N.Logger().Debugf("No config file found in: %s", _config.N2N.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}

// openStore returns the peer record store selected by the configuration.
func openStore() (store.Store, error) {
	if !_config.N2N.Store {
		return store.NewInmemStore(), nil
	}
	return store.NewBadgerStore(_config.N2N.DatabaseDir, _config.N2N.Logger())
}
