package dialer

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"githubdns/logger"

	"golang.org/x/net/proxy"
)

// TCPDial connects to the destination address, through ProxyAddress when set.
func (d *Dialer) TCPDial(ctx context.Context, network, addr string) (net.Conn, error) {
	if d.ProxyAddress == "" {
		var nd net.Dialer
		conn, err := nd.DialContext(ctx, network, addr)
		if err != nil {
			logger.Debugf("failed to connect to %v: %v", addr, err)
			return nil, err
		}
		return conn, nil
	}

	pd, err := d.proxyDialer()
	if err != nil {
		return nil, err
	}
	var conn net.Conn
	if cd, ok := pd.(proxy.ContextDialer); ok {
		conn, err = cd.DialContext(ctx, network, addr)
	} else {
		conn, err = pd.Dial(network, addr)
	}
	if err != nil {
		logger.Debugf("failed to connect to %v via %v: %v", addr, d.ProxyAddress, err)
		return nil, err
	}
	return conn, nil
}

func (d *Dialer) proxyDialer() (proxy.Dialer, error) {
	u, err := url.Parse(d.ProxyAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy address %q: %w", d.ProxyAddress, err)
	}
	pd, err := proxy.FromURL(u, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy address %q: %w", d.ProxyAddress, err)
	}
	return pd, nil
}
