package dialer

import (
	"bufio"
	"context"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTLSServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// dialServer ignores the requested address and connects to the test server.
func dialServer(srv *httptest.Server) PlainTCPDial {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		var nd net.Dialer
		return nd.DialContext(ctx, "tcp", srv.Listener.Addr().String())
	}
}

func TestTLSDialVerifiesCertificate(t *testing.T) {
	srv := newTLSServer(t)
	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())

	d := Dialer{Fingerprint: "golang", RootCAs: pool}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// httptest certificates are issued for example.com.
	conn, err := d.TLSDial(ctx, dialServer(srv), "tcp", "example.com:443")
	if err != nil {
		t.Fatalf("TLSDial failed: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("GET / HTTP/1.0\r\nHost: example.com\r\n\r\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	status, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(status, "200") {
		t.Errorf("Expected 200 status line, got %q", status)
	}
}

func TestTLSDialRejectsUnknownAuthority(t *testing.T) {
	srv := newTLSServer(t)

	d := Dialer{Fingerprint: "golang"}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := d.TLSDial(ctx, dialServer(srv), "tcp", "example.com:443")
	if err == nil {
		conn.Close()
		t.Fatal("Expected handshake to fail against an untrusted certificate")
	}
}

func TestTLSDialRequiresHostName(t *testing.T) {
	d := Dialer{}
	_, err := d.TLSDial(context.Background(), func(ctx context.Context, network, addr string) (net.Conn, error) {
		t.Fatal("plain dialer must not be called")
		return nil, nil
	}, "tcp", "127.0.0.1:443")
	if err == nil {
		t.Fatal("Expected an error for an IP literal")
	}
}

func TestUnknownFingerprint(t *testing.T) {
	d := Dialer{Fingerprint: "netscape"}
	if _, err := d.clientHelloID(); err == nil {
		t.Fatal("Expected an error for an unknown fingerprint")
	}
	for _, name := range Fingerprints() {
		d.Fingerprint = name
		if _, err := d.clientHelloID(); err != nil {
			t.Errorf("fingerprint %q: %v", name, err)
		}
	}
}

func TestHostnameInSNI(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"github.com", "github.com"},
		{"github.com.", "github.com"},
		{"192.30.253.112", ""},
		{"[::1]", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := hostnameInSNI(tc.name); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestTCPDialInvalidProxy(t *testing.T) {
	d := Dialer{ProxyAddress: "gopher://127.0.0.1:1080"}
	if _, err := d.TCPDial(context.Background(), "tcp", "github.com:443"); err == nil {
		t.Fatal("Expected an error for an unsupported proxy scheme")
	}
}

func TestTCPDialDirect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		c, err := ln.Accept()
		if err == nil {
			c.Close()
		}
	}()

	d := Dialer{}
	conn, err := d.TCPDial(context.Background(), "tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("TCPDial failed: %v", err)
	}
	conn.Close()
}

func TestTLSDialReturnsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	// Accept the connection but never answer the client hello.
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		_, _ = io.Copy(io.Discard, c)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	d := Dialer{Fingerprint: "golang"}
	done := make(chan error, 1)
	go func() {
		conn, err := d.TLSDial(ctx, func(ctx context.Context, network, addr string) (net.Conn, error) {
			var nd net.Dialer
			return nd.DialContext(ctx, "tcp", ln.Addr().String())
		}, "tcp", "example.com:443")
		if conn != nil {
			conn.Close()
		}
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("TLSDial still blocked after the context was cancelled")
	}
}
