package peers

// Peer is an entry of the address book.
type Peer struct {
	NetAddr string
	Moniker string
}

// NewPeer ...
func NewPeer(netAddr, moniker string) *Peer {
	return &Peer{
		NetAddr: netAddr,
		Moniker: moniker,
	}
}

// Addresses returns the NetAddr of every peer, skipping duplicates and empty
// addresses.
func Addresses(peers []*Peer) []string {
	seen := make(map[string]bool, len(peers))
	res := make([]string, 0, len(peers))
	for _, p := range peers {
		if p.NetAddr == "" || seen[p.NetAddr] {
			continue
		}
		seen[p.NetAddr] = true
		res = append(res, p.NetAddr)
	}
	return res
}
