// Package config loads the CLI configuration from a file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/arpeggio-fi/arpeggio/internal/router"
)

type Config struct {
	// SwapVenues and LendVenues restrict which protocols the router
	// detects. Empty means all.
	SwapVenues []string `mapstructure:"swap_venues"`
	LendVenues []string `mapstructure:"lend_venues"`

	// RPCList holds endpoints for the optional live simulation path.
	RPCList []string `mapstructure:"rpc_list"`

	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
	Retries      int    `mapstructure:"retries"`
}

const DefaultRetries = 3

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("ARPEGGIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("retries", DefaultRetries)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	for _, name := range cfg.SwapVenues {
		if !isSwapVenue(name) {
			return fmt.Errorf("unknown swap venue %q", name)
		}
	}
	for _, name := range cfg.LendVenues {
		if !isLendVenue(name) {
			return fmt.Errorf("unknown lend venue %q", name)
		}
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateRPCURL(rpcURL); err != nil {
			return err
		}
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	return nil
}

func isSwapVenue(name string) bool {
	p := router.ParseProtocol(name)
	for _, s := range router.SwapProtocols {
		if p == s {
			return true
		}
	}
	return false
}

func isLendVenue(name string) bool {
	p := router.ParseProtocol(name)
	for _, d := range router.DepositProtocols {
		if p == d {
			return true
		}
	}
	return false
}

func validateRPCURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.HasPrefix(u.Scheme, "http") {
		return fmt.Errorf("invalid RPC URL %q", rawURL)
	}
	return nil
}

// EnabledSwaps resolves the configured swap venue names to protocols. Nil
// means every venue.
func (c *Config) EnabledSwaps() []router.Protocol {
	return resolveVenues(c.SwapVenues)
}

// EnabledDeposits resolves the configured lend venue names to protocols. Nil
// means every venue.
func (c *Config) EnabledDeposits() []router.Protocol {
	return resolveVenues(c.LendVenues)
}

func resolveVenues(names []string) []router.Protocol {
	if len(names) == 0 {
		return nil
	}
	out := make([]router.Protocol, 0, len(names))
	for _, name := range names {
		out = append(out, router.ParseProtocol(name))
	}
	return out
}
