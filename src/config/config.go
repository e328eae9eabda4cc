package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ProviderSchwab  = "schwab"
	ProviderPolygon = "polygon"

	TokenStoreFile = "file"
	TokenStoreGCS  = "gcs"
	TokenStoreS3   = "s3"

	OutputTable = "table"
	OutputJSON  = "json"
)

var InvalidConfigErr = fmt.Errorf("invalid config")

type SchwabConfig struct {
	BaseURL     string `yaml:"base_url"`
	StrikeCount int    `yaml:"strike_count"`
	RedirectURL string `yaml:"redirect_url"`
}

type TokenStoreConfig struct {
	Type   string `yaml:"type"`
	Path   string `yaml:"path"`
	Bucket string `yaml:"bucket"`
	Object string `yaml:"object"`
	Region string `yaml:"region"`
}

type ServerConfig struct {
	Port            int    `yaml:"port"`
	RefreshSchedule string `yaml:"refresh_schedule"`
}

type OutputConfig struct {
	Format        string `yaml:"format"`
	OutDir        string `yaml:"out_dir"`
	SpreadsheetID string `yaml:"spreadsheet_id"`
	SheetName     string `yaml:"sheet_name"`
}

type Config struct {
	Symbols             []string         `yaml:"symbols"`
	MinDaysToExpiration int              `yaml:"min_days_to_expiration"`
	StrikesAroundATM    int              `yaml:"strikes_around_atm"`
	Concurrency         int              `yaml:"concurrency"`
	Provider            string           `yaml:"provider"`
	Schwab              SchwabConfig     `yaml:"schwab"`
	TokenStore          TokenStoreConfig `yaml:"token_store"`
	Server              ServerConfig     `yaml:"server"`
	Output              OutputConfig     `yaml:"output"`
}

func Default() *Config {
	return &Config{
		Symbols:             []string{"SPY", "QQQ"},
		MinDaysToExpiration: 2,
		StrikesAroundATM:    3,
		Concurrency:         1,
		Provider:            ProviderSchwab,
		Schwab: SchwabConfig{
			BaseURL:     "https://api.schwabapi.com",
			StrikeCount: 8,
			RedirectURL: "https://127.0.0.1",
		},
		TokenStore: TokenStoreConfig{
			Type:   TokenStoreFile,
			Path:   "schwab_token.json",
			Object: "schwab_token.json",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Output: OutputConfig{
			Format: OutputTable,
		},
	}
}

// Load reads the yaml file at path over the defaults, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("Load: failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("Load: failed to unmarshal config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("OSF_SYMBOLS"); v != "" {
		c.Symbols = strings.Split(v, ",")
	}

	if v := os.Getenv("OSF_PROVIDER"); v != "" {
		c.Provider = v
	}

	if v := os.Getenv("OSF_TOKEN_STORE"); v != "" {
		c.TokenStore.Type = v
	}

	if v := os.Getenv("OSF_TOKEN_PATH"); v != "" {
		c.TokenStore.Path = v
	}

	if v := os.Getenv("OSF_TOKEN_BUCKET"); v != "" {
		c.TokenStore.Bucket = v
	}

	if v := os.Getenv("SCHWAB_BASE_URL"); v != "" {
		c.Schwab.BaseURL = v
	}

	if v := os.Getenv("SCHWAB_REDIRECT_URL"); v != "" {
		c.Schwab.RedirectURL = v
	}

	if v := os.Getenv("OSF_SPREADSHEET_ID"); v != "" {
		c.Output.SpreadsheetID = v
	}

	if v := os.Getenv("AWS_REGION"); v != "" && c.TokenStore.Region == "" {
		c.TokenStore.Region = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"OSF_MIN_DTE", &c.MinDaysToExpiration},
		{"OSF_CONCURRENCY", &c.Concurrency},
		{"PORT", &c.Server.Port},
	}

	for _, i := range ints {
		v := os.Getenv(i.key)
		if v == "" {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %v: %w", i.key, err, InvalidConfigErr)
		}

		*i.dst = n
	}

	return nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.MinDaysToExpiration < 0 {
		errs = append(errs, fmt.Errorf("min_days_to_expiration must be non negative: %w", InvalidConfigErr))
	}

	if c.StrikesAroundATM < 0 {
		errs = append(errs, fmt.Errorf("strikes_around_atm must be non negative: %w", InvalidConfigErr))
	}

	switch c.Provider {
	case ProviderSchwab, ProviderPolygon:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q: %w", c.Provider, InvalidConfigErr))
	}

	switch c.TokenStore.Type {
	case TokenStoreFile:
		if c.TokenStore.Path == "" {
			errs = append(errs, fmt.Errorf("token_store.path is required: %w", InvalidConfigErr))
		}
	case TokenStoreGCS, TokenStoreS3:
		if c.TokenStore.Bucket == "" || c.TokenStore.Object == "" {
			errs = append(errs, fmt.Errorf("token_store.bucket and token_store.object are required: %w", InvalidConfigErr))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown token store %q: %w", c.TokenStore.Type, InvalidConfigErr))
	}

	switch c.Output.Format {
	case OutputTable, OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q: %w", c.Output.Format, InvalidConfigErr))
	}

	return errors.Join(errs...)
}
