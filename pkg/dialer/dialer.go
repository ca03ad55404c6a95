// Package dialer opens the connections used to query the lookup service:
// a plain TCP dialer, optionally hopping through a SOCKS5 proxy, and a uTLS
// client on top of it.
package dialer

import (
	"context"
	"crypto/x509"
	"net"
)

// PlainTCPDial is a type representing a function for plain TCP dialing.
type PlainTCPDial func(ctx context.Context, network, addr string) (net.Conn, error)

// Dialer holds the options shared by every lookup connection.
type Dialer struct {
	ProxyAddress string         // socks5://host:port, empty dials directly
	Fingerprint  string         // client hello fingerprint, see Fingerprints
	RootCAs      *x509.CertPool // nil uses the system roots
}

// Dial opens a verified TLS connection to addr using the dialer's own TCP dialer.
func (d *Dialer) Dial(ctx context.Context, network, addr string) (net.Conn, error) {
	return d.TLSDial(ctx, d.TCPDial, network, addr)
}
