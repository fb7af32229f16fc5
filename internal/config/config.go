package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. DUPEHOUND_DAYS
const EnvPrefix = "DUPEHOUND"

// Config represents the persisted dupehound settings
type Config struct {
	// Scan settings
	Folder            string `mapstructure:"folder" yaml:"folder"`                         // folder to scan
	Days              int    `mapstructure:"days" yaml:"days"`                             // only files modified in the last N days, 0 = all
	NamePrefix        string `mapstructure:"name_prefix" yaml:"name_prefix"`               // case-insensitive file name prefix
	IncludeSubfolders bool   `mapstructure:"include_subfolders" yaml:"include_subfolders"` // descend into subfolders

	// Duplicate criteria
	UseHash              bool `mapstructure:"use_hash" yaml:"use_hash"`
	UseSize              bool `mapstructure:"use_size" yaml:"use_size"`
	UseName              bool `mapstructure:"use_name" yaml:"use_name"`
	UseMtime             bool `mapstructure:"use_mtime" yaml:"use_mtime"`
	UseMime              bool `mapstructure:"use_mime" yaml:"use_mime"`
	HashLimitEnabled     bool `mapstructure:"hash_limit_enabled" yaml:"hash_limit_enabled"`         // skip hashing of large files
	HashMaxMB            int  `mapstructure:"hash_max_mb" yaml:"hash_max_mb"`                       // hashing ceiling in MiB
	CaseInsensitiveNames bool `mapstructure:"case_insensitive_names" yaml:"case_insensitive_names"` // fold names when comparing

	// Cleanup settings
	KeepPolicy    string `mapstructure:"keep_policy" yaml:"keep_policy"`       // first, oldest, newest, shortest-path
	QuarantineDir string `mapstructure:"quarantine_dir" yaml:"quarantine_dir"` // where removed duplicates are moved

	// Rename settings
	FileTypePreset string       `mapstructure:"file_type_preset" yaml:"file_type_preset"` // images, videos, audio, documents, archives, all
	Rename         RenameConfig `mapstructure:"rename" yaml:"rename"`
	JournalDir     string       `mapstructure:"journal_dir" yaml:"journal_dir"` // rename journal folder, empty disables

	// Report settings
	ReportFormat string `mapstructure:"report_format" yaml:"report_format"` // json, text, md; empty prints to console
	OutputFile   string `mapstructure:"output_file" yaml:"output_file"`     // output file path
}

// RenameConfig holds the rename schema as component tokens
type RenameConfig struct {
	Components []string `mapstructure:"components" yaml:"components"` // e.g. folder_name, sequence:3, literal:backup
	Separator  string   `mapstructure:"separator" yaml:"separator"`
}

// DefaultComponents is the schema used when none is configured
var DefaultComponents = []string{"folder_name", "date_created", "time_created", "sequence:3"}

// ReportFormats lists accepted report formats
var ReportFormats = []string{"json", "text", "txt", "md", "markdown"}

// LoadConfig loads configuration from defaults, an optional YAML file and
// environment variables. An empty path reads the default location if it exists.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("folder", DefaultFolder())
	v.SetDefault("days", 7)
	v.SetDefault("name_prefix", "")
	v.SetDefault("include_subfolders", true)
	v.SetDefault("use_hash", true)
	v.SetDefault("use_size", false)
	v.SetDefault("use_name", false)
	v.SetDefault("use_mtime", false)
	v.SetDefault("use_mime", false)
	v.SetDefault("hash_limit_enabled", true)
	v.SetDefault("hash_max_mb", 500)
	v.SetDefault("case_insensitive_names", runtime.GOOS == "windows")
	v.SetDefault("keep_policy", "first")
	v.SetDefault("quarantine_dir", "")
	v.SetDefault("file_type_preset", "all")
	v.SetDefault("rename.components", DefaultComponents)
	v.SetDefault("rename.separator", "_")
	v.SetDefault("journal_dir", "")
	v.SetDefault("report_format", "")
	v.SetDefault("output_file", "")

	// Read config file
	v.SetConfigType("yaml")
	if path == "" {
		if def := DefaultPath(); def != "" {
			if _, err := os.Stat(def); err == nil {
				path = def
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveConfig writes cfg as YAML, creating parent folders
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config folder: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns <user config dir>/dupehound/config.yaml, or "" if unknown
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dupehound", "config.yaml")
}

// DefaultFolder returns ~/Downloads when it exists, else the working directory
func DefaultFolder() string {
	if home, err := os.UserHomeDir(); err == nil {
		downloads := filepath.Join(home, "Downloads")
		if info, err := os.Stat(downloads); err == nil && info.IsDir() {
			return downloads
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// HashMaxBytes returns the hashing ceiling in bytes, 0 when unlimited
func (c *Config) HashMaxBytes() uint64 {
	if !c.HashLimitEnabled || c.HashMaxMB <= 0 {
		return 0
	}
	return uint64(c.HashMaxMB) * 1024 * 1024
}

// AnyCriterion reports whether at least one duplicate criterion is enabled
func (c *Config) AnyCriterion() bool {
	return c.UseHash || c.UseSize || c.UseName || c.UseMtime || c.UseMime
}

// Validate checks value ranges and the rename schema
func (c *Config) Validate() error {
	var errs []error
	if c.Days < 0 {
		errs = append(errs, fmt.Errorf("days must not be negative (got: %d)", c.Days))
	}
	if c.HashMaxMB < 0 {
		errs = append(errs, fmt.Errorf("hash_max_mb must not be negative (got: %d)", c.HashMaxMB))
	}
	if c.ReportFormat != "" && !contains(ReportFormats, c.ReportFormat) {
		errs = append(errs, fmt.Errorf("report_format must be one of: %s (got: %s)", strings.Join(ReportFormats, ", "), c.ReportFormat))
	}
	if _, err := c.Schema(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
