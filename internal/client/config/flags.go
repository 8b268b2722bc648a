package config

import (
	"flag"

	"github.com/carTloyal123/shoppi/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Flags it does not know about are ignored, so other loaders can share
// the same command line.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "path of the local session store")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.DigestScheme, "digest", cfg.DigestScheme, "password digest scheme (argon2id|sha256)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.CheckInterval, "i", cfg.CheckInterval, "server reachability check interval")

	if err := flagx.ParseKnown(fs, args); err != nil {
		panic(err)
	}
}
