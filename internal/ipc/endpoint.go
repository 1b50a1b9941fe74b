package ipc

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// DefaultAddress is used when no service address is configured.
const DefaultAddress = "127.0.0.1:47864"

const dialTimeout = 5 * time.Second

// Endpoint describes where the icon service listens for local clients.
type Endpoint struct {
	Network string
	Address string
}

// NewEndpoint returns a TCP endpoint for addr, falling back to DefaultAddress.
func NewEndpoint(addr string) Endpoint {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = DefaultAddress
	}
	return Endpoint{Network: "tcp", Address: addr}
}

// Listen binds to the configured endpoint.
func (e Endpoint) Listen() (net.Listener, error) {
	return net.Listen(e.Network, e.Address)
}

// DialContext establishes a client connection with sensible timeouts.
func (e Endpoint) DialContext(ctx context.Context) (net.Conn, error) {
	d := &net.Dialer{Timeout: dialTimeout}
	return d.DialContext(ctx, e.Network, e.Address)
}

// String provides a readable representation for logs.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s", e.Network, e.Address)
}
