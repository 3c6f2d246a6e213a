// Package config loads server settings from flags, environment variables and
// an optional config file, in that order of precedence.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the server reads, e.g.
// LOSTFOUND_DB or LOSTFOUND_ADMIN_EMAIL.
const EnvPrefix = "LOSTFOUND"

// Config holds the server settings.
type Config struct {
	DBPath       string `mapstructure:"db"`
	Addr         string `mapstructure:"addr"`
	LogPath      string `mapstructure:"log"`
	AdminEmail   string `mapstructure:"admin-email"`
	CookieSecure bool   `mapstructure:"cookie-secure"`
	JWTSecret    string `mapstructure:"jwt-secret"`
}

const usage = `Usage: lostfound [flags]

Flags:
  -d, --db <path>             SQLite database path (default: lostfound.sqlite3)
  -a, --addr <host:port>      listen address (default: :8080)
  -u, --admin-email <email>   admin email on first run (default: admin@lostfound.local)
  -l, --log <path>            log file path (default: no file, stdout/stderr only)
      --cookie-secure         mark the session cookie Secure (for HTTPS deployments)
      --jwt-secret <secret>   token signing secret (default: generated and stored in the database)
      --config <path>         read settings from a YAML, TOML or JSON file
  -h, --help                  show this help and exit

Every setting can also be given as an environment variable, e.g. LOSTFOUND_DB.
`

// Load parses args (without the program name). It returns pflag.ErrHelp
// after printing usage to out when -h or --help is given.
func Load(args []string, out io.Writer) (*Config, error) {
	fs := pflag.NewFlagSet("lostfound", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }

	fs.StringP("db", "d", "lostfound.sqlite3", "")
	fs.StringP("addr", "a", ":8080", "")
	fs.StringP("admin-email", "u", "admin@lostfound.local", "")
	fs.StringP("log", "l", "", "")
	fs.Bool("cookie-secure", false, "")
	fs.String("jwt-secret", "", "")
	configFile := fs.String("config", "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("database path must not be empty")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("listen address must not be empty")
	}
	return &cfg, nil
}
