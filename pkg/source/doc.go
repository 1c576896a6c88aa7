// Package source provides ContentSource implementations and the snapshot
// fetcher. The core treats the template origin purely as a capability to
// list and fetch content at a reference; transport concerns (network,
// processes, timeouts) belong to the implementations behind the interface.
package source
