package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/wordchain/games/wordchain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	corsOrigins    []string
	dictionary     string
	maxPlayers     int
	maxTurnTime    time.Duration
	maxWordLength  int
	port           int
	prefix         string
	profile        bool
	rateBurst      int
	rateLimit      float64
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.dictionary == "" {
		return errors.New("a word list must be provided with --dictionary")
	}
	if c.maxPlayers < 2 {
		return fmt.Errorf("invalid max players limit (must be at least 2): %d", c.maxPlayers)
	}
	if c.maxTurnTime < time.Second {
		return fmt.Errorf("invalid max turn time (must be at least 1s): %s", c.maxTurnTime)
	}
	if c.maxWordLength < 1 {
		return fmt.Errorf("invalid max word length (must be positive): %d", c.maxWordLength)
	}
	if c.rateLimit <= 0 || c.rateBurst < 1 {
		return errors.New("--rate-limit and --rate-burst must both be positive")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) limits() wordchain.Limits {
	return wordchain.Limits{
		MaxPlayers:     c.maxPlayers,
		MaxTurnSeconds: int(c.maxTurnTime / time.Second),
		MaxWordLength:  c.maxWordLength,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WORDCHAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wordchain",
		Short:         "A real-time multiplayer word-chain game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			setupLogging(cfg)
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	limits := wordchain.DefaultLimits()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: WORDCHAIN_BIND)")
	fs.StringSliceVar(&cfg.corsOrigins, "cors-origins", []string{"*"}, "origins allowed to call the api (env: WORDCHAIN_CORS_ORIGINS)")
	fs.StringVarP(&cfg.dictionary, "dictionary", "d", "words.json", "word list to validate submissions against (.json, .yaml, or one word per line) (env: WORDCHAIN_DICTIONARY)")
	fs.IntVar(&cfg.maxPlayers, "max-players-limit", limits.MaxPlayers, "largest room a player may create (env: WORDCHAIN_MAX_PLAYERS_LIMIT)")
	fs.DurationVar(&cfg.maxTurnTime, "max-turn-time", time.Duration(limits.MaxTurnSeconds)*time.Second, "longest turn a player may configure (env: WORDCHAIN_MAX_TURN_TIME)")
	fs.IntVar(&cfg.maxWordLength, "max-word-length", limits.MaxWordLength, "longest word length a player may configure (env: WORDCHAIN_MAX_WORD_LENGTH)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: WORDCHAIN_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: WORDCHAIN_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: WORDCHAIN_PROFILE)")
	fs.IntVar(&cfg.rateBurst, "rate-burst", 10, "messages a connection may send in a burst (env: WORDCHAIN_RATE_BURST)")
	fs.Float64Var(&cfg.rateLimit, "rate-limit", 5, "sustained messages per second allowed per connection (env: WORDCHAIN_RATE_LIMIT)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle rooms are ended, 0 to disable (env: WORDCHAIN_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: WORDCHAIN_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: WORDCHAIN_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: WORDCHAIN_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: WORDCHAIN_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wordchain v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
