package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"githubdns/pkg/dialer"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

var (
	availableLineDelimiters = []string{
		// lf|crlf|cr
		"lf",
		"crlf",
		"cr",
	}
	availableProxySchemes = []string{
		"socks5",
		"socks5h",
	}
)

// validate checks that the settings make sense and normalises the domain list.
func (c *Config) validate() error {
	domains, err := normalizeDomains(c.Domains)
	if err != nil {
		return err
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains configured")
	}
	c.Domains = domains

	c.LineDelimiter = strings.ToLower(c.LineDelimiter)
	if c.LineDelimiter != "" && !slices.Contains(availableLineDelimiters, c.LineDelimiter) {
		return fmt.Errorf("invalid line delimiter %q, expected one of %s", c.LineDelimiter, strings.Join(availableLineDelimiters, "|"))
	}

	if c.Fingerprint == "" {
		c.Fingerprint = dialer.DefaultFingerprint
	}
	if !slices.Contains(dialer.Fingerprints(), c.Fingerprint) {
		return fmt.Errorf("invalid tls fingerprint %q, expected one of %s", c.Fingerprint, strings.Join(dialer.Fingerprints(), "|"))
	}

	if c.Proxy != "" {
		u, err := url.Parse(c.Proxy)
		if err != nil {
			return fmt.Errorf("invalid proxy %q: %w", c.Proxy, err)
		}
		if !slices.Contains(availableProxySchemes, u.Scheme) || u.Host == "" {
			return fmt.Errorf("invalid proxy %q, expected socks5://host:port", c.Proxy)
		}
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	return nil
}

// normalizeDomains splits comma separated items, converts every name to its
// lower-case ASCII form and drops duplicates, keeping the first occurrence.
func normalizeDomains(raw []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	for _, item := range raw {
		for _, d := range strings.Split(item, ",") {
			d = strings.TrimSuffix(strings.TrimSpace(d), ".")
			if d == "" {
				continue
			}
			ascii, err := idna.Lookup.ToASCII(d)
			if err != nil {
				return nil, fmt.Errorf("invalid domain %q: %w", d, err)
			}
			if _, ok := dns.IsDomainName(ascii); !ok {
				return nil, fmt.Errorf("invalid domain %q", d)
			}
			if _, dup := seen[ascii]; dup {
				continue
			}
			seen[ascii] = struct{}{}
			out = append(out, ascii)
		}
	}
	return out, nil
}
