// Package net provides the stream layer nodes use to open and accept
// connections.
//
// TCP
//
// The TCP stream layer is suitable when nodes are in the same local network,
// or when users are able to configure their connections appropriately to
// avoid NAT issues. It binds Config.BindAddr; Config.AdvertiseAddr (optional)
// is the address advertised to other nodes when the bound address is not
// reachable by them.
package net
