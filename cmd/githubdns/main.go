// Command githubdns points a fixed set of domains at addresses scraped from
// ipaddress.com by rewriting a managed block of the hosts file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"githubdns/config"
	"githubdns/internal/app"
	"githubdns/logger"
	"githubdns/pkg/dialer"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd(v *viper.Viper) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "githubdns",
		Short:         "githubdns writes working addresses for GitHub domains into the hosts file",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			if cfg.Verbose {
				logger.SetLevel(slog.LevelDebug)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := &app.App{
				Config: cfg,
				Dialer: &dialer.Dialer{
					ProxyAddress: cfg.Proxy,
					Fingerprint:  cfg.Fingerprint,
				},
				Stdout: cmd.OutOrStdout(),
			}
			return a.Run(ctx)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	flags.StringP("domains", "d", config.DefaultDomains, "Comma separated domains to write to the hosts file")
	flags.String("hosts-file", "", "Hosts file path (default: the OS hosts file)")
	flags.String("line-delimiter", "", "Hosts file line delimiter: lf|crlf|cr (default: the OS convention)")
	flags.Duration("timeout", 30*time.Second, "Timeout of a single lookup, 0 disables it")
	flags.Int("concurrency", 0, "Maximum lookups in flight, 0 for no limit")
	flags.String("proxy", "", "SOCKS5 proxy for lookups, e.g. socks5://127.0.0.1:1080")
	flags.String("fingerprint", dialer.DefaultFingerprint, "TLS client hello fingerprint")
	flags.Bool("dry-run", false, "Print the new hosts file instead of writing it")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	for key, flag := range map[string]string{
		"domains":        "domains",
		"hosts_file":     "hosts-file",
		"line_delimiter": "line-delimiter",
		"timeout":        "timeout",
		"concurrency":    "concurrency",
		"proxy":          "proxy",
		"fingerprint":    "fingerprint",
		"dry_run":        "dry-run",
		"verbose":        "verbose",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}
	config.SetDefaults(v)
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()

	return rootCmd
}

func main() {
	if err := newRootCmd(viper.New()).ExecuteContext(context.Background()); err != nil {
		logger.Error("githubdns failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
