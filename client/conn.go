package client

import (
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// NewLocalConnection talks to a node running in the same process.
func NewLocalConnection(n *nm.Node) rpcclient.Client {
	return rpcclient.NewLocal(n)
}

// NewHTTPConnection talks to a remote node over rpc, with subscriptions on
// its websocket endpoint.
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}
