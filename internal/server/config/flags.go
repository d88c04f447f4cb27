package config

import (
	"flag"
	"os"

	"github.com/dkrasnovs/tenauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-d string     PostgreSQL DSN
//	-k string     path to the RSA private key (PEM)
//	-s string     refresh token HMAC secret
//	-t duration   access token validity (e.g. "1h")
//	-r duration   refresh token validity (e.g. "8760h")
//	-m string     cookie domain
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config file flag.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-s", "-t", "-r", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.PrivateKeyPath, "k", config.PrivateKeyPath, "RSA private key path")
	fs.StringVar(&config.RefreshTokenSecret, "s", config.RefreshTokenSecret, "refresh token secret")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.DurationVar(&config.RefreshTokenValidityDuration, "r", config.RefreshTokenValidityDuration, "refresh token validity")
	fs.StringVar(&config.CookieDomain, "m", config.CookieDomain, "cookie domain")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
