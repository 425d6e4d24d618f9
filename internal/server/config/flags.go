package config

import (
	"flag"
	"os"

	"github.com/rlocatelli9/daily-diet-api/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-k", "-t", "-i", "-l", "-m", "-b", "-e"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC health bind address (e.g., ":50051")
//	-d string     PostgreSQL DSN
//	-k string     secret key for identity tokens
//	-t duration   session validity (e.g., "168h")
//	-i duration   expired session cleanup interval
//	-l string     log level (debug, info, warn, error)
//	-m bool       expose Prometheus metrics
//	-b string     S3 bucket for meal exports
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and unknown
// flags do not break parsing.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run the gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "k", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionValidityDuration, "t", config.SessionValidityDuration, "session validity duration")
	fs.DurationVar(&config.SessionCleanupInterval, "i", config.SessionCleanupInterval, "expired session cleanup interval")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.MetricsEnabled, "m", config.MetricsEnabled, "expose prometheus metrics")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	return fs.Parse(args)
}
