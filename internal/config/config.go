package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user settings directory under $HOME.
const DirName = ".tabscan"

// Global configuration structure.
type Global struct {
	// Delimiter for CSV input. Empty means ',' (tab for .tsv).
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	// Encoding of CSV input (IANA/WHATWG label).
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
	// Scope is the default tag scope for uniqueness, e.g. "T" or "PN,T" or "all".
	Scope string `mapstructure:"scope" yaml:"scope"`
	// ReportFormat is one of text, markdown, json.
	ReportFormat string `mapstructure:"report_format" yaml:"report_format"`
	// HashLookup enables the hashed uniqueness scan.
	HashLookup bool `mapstructure:"hash_lookup" yaml:"hash_lookup"`
	// Parallel bounds how many files inspect loads at once.
	Parallel int `mapstructure:"parallel" yaml:"parallel"`
	// CatalogDir holds catalog.json.
	CatalogDir string `mapstructure:"catalog_dir" yaml:"catalog_dir"`
}

// Keys lists the settable configuration keys.
var Keys = []string{"delimiter", "encoding", "scope", "report_format", "hash_lookup", "parallel", "catalog_dir"}

// DefaultPath returns ~/.tabscan/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabscan/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("delimiter", "")
	v.SetDefault("encoding", "utf-8")
	v.SetDefault("scope", "T")
	v.SetDefault("report_format", "text")
	v.SetDefault("hash_lookup", false)
	v.SetDefault("parallel", 4)
	v.SetDefault("catalog_dir", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, DirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.CatalogDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.CatalogDir = filepath.Join(home, DirName, "catalog")
	}
	if c.Parallel < 1 {
		c.Parallel = 1
	}
	return &c, nil
}

// Set assigns key from its string form. Unknown keys and malformed values are
// rejected.
func (c *Global) Set(key, value string) error {
	switch key {
	case "delimiter":
		if len([]rune(value)) > 1 && value != `\t` {
			return fmt.Errorf("delimiter must be a single character")
		}
		c.Delimiter = value
	case "encoding":
		c.Encoding = value
	case "scope":
		c.Scope = value
	case "report_format":
		switch value {
		case "text", "markdown", "json":
		default:
			return fmt.Errorf("report_format must be text, markdown or json")
		}
		c.ReportFormat = value
	case "hash_lookup":
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			c.HashLookup = true
		case "false", "0", "no", "off":
			c.HashLookup = false
		default:
			return fmt.Errorf("hash_lookup must be true or false")
		}
	case "parallel":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n < 1 {
			return fmt.Errorf("parallel must be a positive integer")
		}
		c.Parallel = n
	case "catalog_dir":
		c.CatalogDir = value
	default:
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// DelimiterRune converts Delimiter to the rune the CSV loader expects.
// 0 means the loader's own default.
func (c *Global) DelimiterRune() rune {
	switch c.Delimiter {
	case "":
		return 0
	case `\t`, "tab":
		return '\t'
	}
	return []rune(c.Delimiter)[0]
}
