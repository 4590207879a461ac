// Package config defines the configuration of an n2n node.
//
// Whether the node is driven from Go code or from the n2n command line, it
// reads its options from the Config object defined in this package. The
// command line looks for an optional configuration file in Config.DataDir:
//
//  n2n.toml // (or .json, .yaml) any option of Config, keyed by its flag name.
//  badger_db/ // the peer records database, when --store is set.
//
// The network is chosen by name (mainnet, testnet, preprod, preview,
// sanchonet) or, with an empty name, by its raw magic.
package config
