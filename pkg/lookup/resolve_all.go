package lookup

import (
	"context"

	"githubdns/logger"

	"golang.org/x/sync/errgroup"
)

// Record is the outcome of one domain's lookup. Address is empty when the
// lookup failed or the page listed no IPv4 address.
type Record struct {
	Domain  string
	Address string
}

// Records keeps lookups in the order the domains were configured.
type Records []Record

// Resolved returns the records that carry both a domain and an address.
func (rs Records) Resolved() Records {
	out := make(Records, 0, len(rs))
	for _, r := range rs {
		if r.Domain != "" && r.Address != "" {
			out = append(out, r)
		}
	}
	return out
}

// Map returns the domain to address view of the resolved records.
func (rs Records) Map() map[string]string {
	m := make(map[string]string, len(rs))
	for _, r := range rs.Resolved() {
		m[r.Domain] = r.Address
	}
	return m
}

// ResolveAll looks up every domain concurrently and waits for all of them.
// A failing domain is logged and left without an address; it never stops
// the others. Each lookup writes only its own slot of the result.
func (r *Resolver) ResolveAll(ctx context.Context, domains []string) Records {
	records := make(Records, len(domains))

	var g errgroup.Group
	if r.opt.Concurrency > 0 {
		g.SetLimit(r.opt.Concurrency)
	}
	for i, domain := range domains {
		i, domain := i, domain
		records[i].Domain = domain
		g.Go(func() error {
			addr, err := r.Resolve(ctx, domain)
			if err != nil {
				logger.ErrorContext(ctx, "lookup failed", "domain", domain, "err", err)
				return nil
			}
			if addr == "" {
				logger.Warn("no IPv4 address found", "domain", domain)
				return nil
			}
			logger.Info("resolved", "domain", domain, "address", addr)
			records[i].Address = addr
			return nil
		})
	}
	_ = g.Wait()

	return records
}
