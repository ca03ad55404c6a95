package dialer

import (
	"context"
	"fmt"
	"net"
	"slices"
	"sort"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"

	"githubdns/logger"
)

// DefaultFingerprint is used when Dialer.Fingerprint is empty.
const DefaultFingerprint = "chrome"

var fingerprints = map[string]tls.ClientHelloID{
	"golang":     tls.HelloGolang,
	"chrome":     tls.HelloChrome_Auto,
	"firefox":    tls.HelloFirefox_Auto,
	"edge":       tls.HelloEdge_Auto,
	"safari":     tls.HelloSafari_Auto,
	"ios":        tls.HelloIOS_Auto,
	"android":    tls.HelloAndroid_11_OkHttp,
	"randomized": tls.HelloRandomizedNoALPN,
}

// Fingerprints lists the accepted client hello fingerprint names.
func Fingerprints() []string {
	names := make([]string, 0, len(fingerprints))
	for name := range fingerprints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hostnameInSNI returns name as it may appear in the server_name extension,
// or "" for IP literals.
func hostnameInSNI(name string) string {
	host := name
	if len(host) > 0 && host[0] == '[' && host[len(host)-1] == ']' {
		host = host[1 : len(host)-1]
	}
	if i := strings.LastIndex(host, "%"); i > 0 {
		host = host[:i]
	}
	if net.ParseIP(host) != nil {
		return ""
	}
	return strings.TrimRight(name, ".")
}

func removeProtocolFromALPN(spec *tls.ClientHelloSpec, protocol string) *tls.ClientHelloSpec {
	alpnExtIndex := slices.IndexFunc(spec.Extensions, func(ext tls.TLSExtension) bool {
		_, ok := ext.(*tls.ALPNExtension)
		return ok
	})
	if alpnExtIndex == -1 {
		return spec
	}

	alpnExt := spec.Extensions[alpnExtIndex].(*tls.ALPNExtension)
	alpnExt.AlpnProtocols = slices.DeleteFunc(alpnExt.AlpnProtocols, func(p string) bool { return p == protocol })

	return spec
}

func (d *Dialer) clientHelloID() (tls.ClientHelloID, error) {
	name := d.Fingerprint
	if name == "" {
		name = DefaultFingerprint
	}
	id, ok := fingerprints[name]
	if !ok {
		return tls.ClientHelloID{}, fmt.Errorf("unknown tls fingerprint %q", name)
	}
	return id, nil
}

// TLSDial dials addr with plainDialer and negotiates TLS over it. The peer
// certificate is verified against the host part of addr.
func (d *Dialer) TLSDial(ctx context.Context, plainDialer PlainTCPDial, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	sni := hostnameInSNI(host)
	if sni == "" {
		return nil, fmt.Errorf("tls dial %s: a host name is required for verification", addr)
	}
	helloID, err := d.clientHelloID()
	if err != nil {
		return nil, err
	}

	plainConn, err := plainDialer(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = plainConn.SetDeadline(deadline)
	}

	cfg := tls.Config{
		ServerName: sni,
		RootCAs:    d.RootCAs,
		NextProtos: []string{"http/1.1"},
		MinVersion: tls.VersionTLS12,
	}

	var tlsClient *tls.UConn
	switch helloID {
	case tls.HelloGolang, tls.HelloRandomizedNoALPN:
		tlsClient = tls.UClient(plainConn, &cfg, helloID)
	default:
		tlsClient = tls.UClient(plainConn, &cfg, tls.HelloCustom)
		spec, err := tls.UTLSIdToSpec(helloID)
		if err != nil {
			_ = plainConn.Close()
			return nil, err
		}
		// The request is HTTP/1.0, never advertise h2.
		if err := tlsClient.ApplyPreset(removeProtocolFromALPN(&spec, "h2")); err != nil {
			_ = plainConn.Close()
			return nil, err
		}
	}

	// Abort the handshake as soon as ctx is cancelled.
	stop := context.AfterFunc(ctx, func() {
		_ = plainConn.SetDeadline(time.Now())
	})
	err = tlsClient.Handshake()
	if !stop() {
		_ = plainConn.Close()
		return nil, ctx.Err()
	}
	if err != nil {
		_ = plainConn.Close()
		logger.Debugf("tls handshake with %s error %v", sni, err)
		return nil, err
	}
	return tlsClient, nil
}
