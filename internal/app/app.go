// Package app runs one githubdns pass: resolve every configured domain, then
// reconcile the hosts file with the results.
package app

import (
	"context"
	"fmt"
	"io"

	"githubdns/config"
	"githubdns/logger"
	"githubdns/pkg/hosts"
	"githubdns/pkg/lookup"
)

type App struct {
	Config *config.Config
	Dialer lookup.ContextDialer
	Stdout io.Writer // receives the new content on dry runs
}

// Run resolves the domains and rewrites the hosts file. Lookup failures are
// logged and skipped; errors locating, reading or writing the hosts file are
// returned.
func (a *App) Run(ctx context.Context) error {
	platform, err := a.Config.Platform()
	if err != nil {
		return err
	}

	resolver := lookup.NewResolver(a.Dialer,
		lookup.WithTimeout(a.Config.Timeout),
		lookup.WithConcurrency(a.Config.Concurrency),
	)
	records := resolver.ResolveAll(ctx, a.Config.Domains)
	logger.Info("lookups finished", "resolved", len(records.Resolved()), "total", len(records))

	file := &hosts.File{Path: platform.Path}
	content, err := file.Read()
	if err != nil {
		return err
	}
	updated := hosts.Reconcile(content, platform.LineDelimiter, records)

	if a.Config.DryRun {
		_, err := fmt.Fprint(a.Stdout, updated)
		return err
	}
	if updated == content {
		logger.Info("hosts file already up to date", "path", platform.Path)
		return nil
	}

	if err := file.MakeWritable(); err != nil {
		return err
	}
	if err := file.Write(updated); err != nil {
		return err
	}
	logger.Info("hosts file updated", "path", platform.Path)
	return nil
}
