package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/lingobook/internal/flagx"
)

// parseFlags overrides selected fields from command-line flags:
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC health bind address
//	-d string     PostgreSQL DSN
//	-s string     session signing key
//	-w duration   review window (e.g., "24h")
//	-l string     log level
//
// Other flags in args are ignored.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-w", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "http address")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "grpc health address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.ReviewWindow, "w", config.ReviewWindow, "review window")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
