package lookup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
	"unicode/utf8"

	"githubdns/logger"
	"githubdns/pkg/bufferpool"
)

// ErrNonText is returned when the lookup service answers with bytes that are
// not valid UTF-8.
var ErrNonText = errors.New("lookup response is not valid text")

// ServicePort is the port the lookup service is reached on.
const ServicePort = "443"

// ContextDialer opens a secure connection to a lookup service host.
type ContextDialer interface {
	Dial(ctx context.Context, network, addr string) (net.Conn, error)
}

type resolverOptions struct {
	Timeout     time.Duration
	Concurrency int
	Extractor   Extractor
	BufferPool  bufferpool.BufPool
}

type ResolverOption func(*resolverOptions)

// WithTimeout bounds every single lookup. Zero disables the bound.
func WithTimeout(t time.Duration) ResolverOption {
	return func(o *resolverOptions) {
		o.Timeout = t
	}
}

// WithConcurrency caps the number of lookups in flight. Zero means no cap.
func WithConcurrency(n int) ResolverOption {
	return func(o *resolverOptions) {
		o.Concurrency = n
	}
}

func WithExtractor(e Extractor) ResolverOption {
	return func(o *resolverOptions) {
		o.Extractor = e
	}
}

func WithBufferPool(p bufferpool.BufPool) ResolverOption {
	return func(o *resolverOptions) {
		o.BufferPool = p
	}
}

// Resolver queries the lookup service for domains.
type Resolver struct {
	dialer ContextDialer
	opt    *resolverOptions
}

func NewResolver(d ContextDialer, opts ...ResolverOption) *Resolver {
	o := &resolverOptions{
		Extractor:  HTMLExtractor{},
		BufferPool: bufferpool.NewPool(32 * 1024),
	}
	for _, f := range opts {
		f(o)
	}
	return &Resolver{
		dialer: d,
		opt:    o,
	}
}

// Resolve fetches the lookup page of domain and returns the first IPv4
// address listed on it. An empty address with a nil error means the page was
// fetched but carried no address.
func (r *Resolver) Resolve(ctx context.Context, domain string) (string, error) {
	target := BuildTarget(domain)
	logger.Info("looking up", "domain", domain, "target", target.String())

	if r.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opt.Timeout)
		defer cancel()
	}

	body, err := r.fetch(ctx, target)
	if err != nil {
		return "", err
	}
	return r.opt.Extractor.Extract(body, domain), nil
}

func (r *Resolver) fetch(ctx context.Context, target Target) (string, error) {
	addr := net.JoinHostPort(target.ServiceHost, ServicePort)
	conn, err := r.dialer.Dial(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("connect %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// Unblock the write and read as soon as ctx is cancelled.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := io.WriteString(conn, target.Request()); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", fmt.Errorf("write request to %s: %w", addr, err)
	}
	resp, err := bufferpool.ReadAll(conn, r.opt.BufferPool)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", fmt.Errorf("read response from %s: %w", addr, err)
	}
	if !utf8.Valid(resp) {
		return "", fmt.Errorf("%s: %w", addr, ErrNonText)
	}
	return string(responseBody(resp)), nil
}

// responseBody strips the header block. A response without a blank line is
// treated as all body.
func responseBody(resp []byte) []byte {
	i := bytes.Index(resp, []byte("\r\n\r\n"))
	if i < 0 {
		return resp
	}
	return resp[i+4:]
}
