package transport

import (
	"fmt"
	"strings"
)

// Endpoint identifies a TCP address a Requester dials or a Replier,
// Publisher binds. The scheme prefix is cosmetic, kept only because
// every address that travels through configuration in this framework
// was historically written with one ("tcp://host:port").
type Endpoint struct {
	Addr string
}

// ParseEndpoint strips an optional "tcp://" scheme prefix and
// validates that what remains looks like a host:port pair.
func ParseEndpoint(s string) (Endpoint, error) {
	addr := strings.TrimPrefix(s, "tcp://")
	if addr == "" {
		return Endpoint{}, fmt.Errorf("transport: empty endpoint address")
	}
	if !strings.Contains(addr, ":") {
		return Endpoint{}, fmt.Errorf("transport: endpoint %q missing port", s)
	}
	return Endpoint{Addr: addr}, nil
}

func (e Endpoint) String() string {
	return "tcp://" + e.Addr
}
