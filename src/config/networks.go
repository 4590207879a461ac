package config

import (
	"sort"

	"github.com/pkg/errors"
)

// Well-known networks.
const (
	Mainnet   = "mainnet"
	Testnet   = "testnet"
	Preprod   = "preprod"
	Preview   = "preview"
	Sanchonet = "sanchonet"
)

// Magics of the well-known networks.
const (
	MainnetMagic   uint32 = 764824073
	TestnetMagic   uint32 = 1097911063
	PreprodMagic   uint32 = 1
	PreviewMagic   uint32 = 2
	SanchonetMagic uint32 = 4
)

// ErrUnknownNetwork is returned for a network name with no known magic.
var ErrUnknownNetwork = errors.New("unknown network")

var networkMagics = map[string]uint32{
	Mainnet:   MainnetMagic,
	Testnet:   TestnetMagic,
	Preprod:   PreprodMagic,
	Preview:   PreviewMagic,
	Sanchonet: SanchonetMagic,
}

// NetworkMagic returns the magic of the named network.
func NetworkMagic(name string) (uint32, error) {
	magic, ok := networkMagics[name]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownNetwork, "%q", name)
	}
	return magic, nil
}

// Networks lists the names of the well-known networks.
func Networks() []string {
	names := make([]string, 0, len(networkMagics))
	for n := range networkMagics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
