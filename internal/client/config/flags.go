package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/aliaskeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the local database file
//	-g string   base URL of the alias gateway
//	-l string   log level (debug, info, warn, error)
//
// Other arguments are filtered out with flagx.FilterArgs so that flags owned
// by other components do not make parsing fail.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-g", "-l"})

	fs := flag.NewFlagSet("aliaskeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database file")
	fs.StringVar(&cfg.GatewayURL, "g", cfg.GatewayURL, "base URL of the alias gateway")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
