// Package config handles global dsector configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/dsector/config.yml.
type Config struct {
	Addr           string        `yaml:"addr,omitempty"`
	DBPath         string        `yaml:"db_path,omitempty"`
	Title          string        `yaml:"title,omitempty"`
	SunImage       string        `yaml:"sun_image,omitempty"`
	Mode           string        `yaml:"mode,omitempty"` // "3d" or "2d"
	Seed           uint64        `yaml:"seed,omitempty"` // 0 = random per render
	MaxUploadBytes int64         `yaml:"max_upload_bytes,omitempty"`
	UploadRate     float64       `yaml:"upload_rate,omitempty"` // uploads per second
	UploadBurst    int           `yaml:"upload_burst,omitempty"`
	SessionTTL     time.Duration `yaml:"session_ttl,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "dsector"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// EnvPrefix prefixes environment overrides (DSECTOR_ADDR, ...).
	EnvPrefix = "DSECTOR_"

	DefaultTitle    = "Nyxal's Reach"
	DefaultSunImage = "https://png.pngtree.com/png-clipart/20230518/ourmid/pngtree-realistic-sun-illustration-png-image_7096994.png"
)

// ErrUnknownKey is returned by Get and Set for keys outside Keys().
var ErrUnknownKey = errors.New("unknown config key")

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Addr:           "127.0.0.1:8050",
		DBPath:         "dsector.db",
		Title:          DefaultTitle,
		SunImage:       DefaultSunImage,
		Mode:           "3d",
		MaxUploadBytes: 10 << 20,
		UploadRate:     2,
		UploadBurst:    4,
		SessionTTL:     24 * time.Hour,
	}
}

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/dsector/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// LoadEnv reads a .env file from the working directory if one exists.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load reads the config file over the defaults and applies environment
// overrides. A missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()
	if err := cfg.readFile(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// LoadFile reads only the values stored in the config file, without
// defaults or environment overrides. Edit the result and Save it to change
// the file without persisting anything it did not already hold.
func LoadFile() (*Config, error) {
	cfg := &Config{}
	if err := cfg.readFile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile decodes the config file over c. A missing file is not an error.
func (c *Config) readFile() error {
	path := Path()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Save writes the config file, creating its directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot resolve config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// fillDefaults restores defaults for zeroed fields that must be set.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.SunImage == "" {
		c.SunImage = d.SunImage
	}
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.UploadRate <= 0 {
		c.UploadRate = d.UploadRate
	}
	if c.UploadBurst <= 0 {
		c.UploadBurst = d.UploadBurst
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = d.SessionTTL
	}
}

func (c *Config) applyEnv() error {
	for _, key := range Keys() {
		v, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(key))
		if !ok || v == "" {
			continue
		}
		if err := c.Set(key, v); err != nil {
			return fmt.Errorf("environment %s%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
	}
	return nil
}

// Keys lists the settable config keys in display order.
func Keys() []string {
	return []string{
		"addr", "db_path", "title", "sun_image", "mode", "seed",
		"max_upload_bytes", "upload_rate", "upload_burst", "session_ttl",
	}
}

// Get returns the string form of a config value.
func (c *Config) Get(key string) (string, error) {
	switch normalizeKey(key) {
	case "addr":
		return c.Addr, nil
	case "db_path":
		return c.DBPath, nil
	case "title":
		return c.Title, nil
	case "sun_image":
		return c.SunImage, nil
	case "mode":
		return c.Mode, nil
	case "seed":
		return strconv.FormatUint(c.Seed, 10), nil
	case "max_upload_bytes":
		return strconv.FormatInt(c.MaxUploadBytes, 10), nil
	case "upload_rate":
		return strconv.FormatFloat(c.UploadRate, 'g', -1, 64), nil
	case "upload_burst":
		return strconv.Itoa(c.UploadBurst), nil
	case "session_ttl":
		return c.SessionTTL.String(), nil
	default:
		return "", fmt.Errorf("%w: %s (valid: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
}

// Set parses and assigns a config value from its string form.
func (c *Config) Set(key, value string) error {
	var err error
	switch normalizeKey(key) {
	case "addr":
		c.Addr = value
	case "db_path":
		c.DBPath = ExpandTilde(value)
	case "title":
		c.Title = value
	case "sun_image":
		c.SunImage = value
	case "mode":
		mode := strings.ToLower(value)
		if mode != "2d" && mode != "3d" {
			return fmt.Errorf("invalid mode %q: must be 2d or 3d", value)
		}
		c.Mode = mode
	case "seed":
		c.Seed, err = strconv.ParseUint(value, 10, 64)
	case "max_upload_bytes":
		c.MaxUploadBytes, err = strconv.ParseInt(value, 10, 64)
	case "upload_rate":
		c.UploadRate, err = strconv.ParseFloat(value, 64)
	case "upload_burst":
		c.UploadBurst, err = strconv.Atoi(value)
	case "session_ttl":
		c.SessionTTL, err = time.ParseDuration(value)
	default:
		return fmt.Errorf("%w: %s (valid: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// Values returns all keys with their string values.
func (c *Config) Values() map[string]string {
	out := make(map[string]string, len(Keys()))
	for _, k := range Keys() {
		v, _ := c.Get(k)
		out[k] = v
	}
	return out
}

// normalizeKey accepts dashed CLI spellings (db-path -> db_path).
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
