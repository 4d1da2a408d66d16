// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete gobby configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Editor   EditorConfig   `toml:"editor" json:"editor"`
	Export   ExportConfig   `toml:"export" json:"export"`
	Network  NetworkConfig  `toml:"network" json:"network"`
	Async    AsyncConfig    `toml:"async" json:"async"`
	Security SecurityConfig `toml:"security" json:"security"`
	Storage  StorageConfig  `toml:"storage" json:"storage"`
	UI       UIConfig       `toml:"ui" json:"ui"`
	Browser  BrowserConfig  `toml:"browser" json:"browser"`
}

// EditorConfig holds document editing settings.
type EditorConfig struct {
	// TabWidth is the tab stop used when rendering documents.
	TabWidth int `toml:"tab_width" json:"tab_width"`

	// StartFolder is where file choosers open first. Empty means the
	// working directory.
	StartFolder string `toml:"start_folder" json:"start_folder"`
}

// ExportConfig holds HTML export settings.
type ExportConfig struct {
	// Style is the chroma highlighting style.
	Style string `toml:"style" json:"style"`

	LineNumbers bool `toml:"line_numbers" json:"line_numbers"`

	// Footer appends the export time to the page.
	Footer bool `toml:"footer" json:"footer"`
}

// NetworkConfig holds session lookup settings.
type NetworkConfig struct {
	// Service is the SRV service name tried before plain address lookup.
	Service string `toml:"service" json:"service"`
}

// AsyncConfig bounds background work.
type AsyncConfig struct {
	// MaxWorkers limits concurrently running jobs. 0 means one goroutine
	// per job.
	MaxWorkers int `toml:"max_workers" json:"max_workers"`
}

// SecurityConfig holds private key settings.
type SecurityConfig struct {
	// KeyFile is where the generated private key is stored.
	KeyFile string `toml:"key_file" json:"key_file"`

	// KeyBits is the RSA modulus size for new keys.
	KeyBits int `toml:"key_bits" json:"key_bits"`
}

// StorageConfig holds document info storage settings.
type StorageConfig struct {
	// DocInfoPath is the SQLite database remembering where documents were
	// saved. ":memory:" keeps it for the process lifetime only.
	DocInfoPath string `toml:"docinfo_path" json:"docinfo_path"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	// Theme is "dark" or "light".
	Theme string `toml:"theme" json:"theme"`

	// ShowHelp shows the key binding line in the status bar.
	ShowHelp bool `toml:"show_help" json:"show_help"`

	// TitleWidth is the widest document tab title, in columns.
	TitleWidth int `toml:"title_width" json:"title_width"`
}

// BrowserConfig lists the document locations offered for new documents.
type BrowserConfig struct {
	Locations []LocationConfig `toml:"locations" json:"locations"`
}

// LocationConfig is one browser location.
type LocationConfig struct {
	Host     string `toml:"host" json:"host"`
	Path     string `toml:"path" json:"path"`
	Writable bool   `toml:"writable" json:"writable"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with default values. Paths under the config
// directory are filled in by SetDefaults.
func Default() *Config {
	return &Config{
		Version: "1",
		Editor: EditorConfig{
			TabWidth: 8,
		},
		Export: ExportConfig{
			Style:  "github",
			Footer: true,
		},
		Network: NetworkConfig{
			Service: "infinote",
		},
		Async: AsyncConfig{
			MaxWorkers: 4,
		},
		Security: SecurityConfig{
			KeyBits: 2048,
		},
		UI: UIConfig{
			Theme:      "dark",
			ShowHelp:   true,
			TitleWidth: 24,
		},
		Browser: BrowserConfig{
			Locations: []LocationConfig{
				{Host: "localhost", Path: "/", Writable: true},
			},
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns $XDG_CONFIG_HOME/gobby, or ~/.config/gobby.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gobby"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gobby"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the TOML config file, else the JSON one, else uses defaults.
// Environment overrides are applied last. A file that fails to parse is
// reported alongside the defaults that were used instead.
func Load() (*Config, error) {
	var loadErr error

	candidates := []func() (string, error){ConfigPathTOML, ConfigPathJSON}
	for _, pathFn := range candidates {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		loadErr = err
		break
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads one config file, chosen by extension, on top of the
// defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	// A file listing locations replaces the default list.
	cfg.Browser.Locations = nil

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	if cfg.Browser.Locations == nil {
		cfg.Browser.Locations = Default().Browser.Locations
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path as TOML with mode 0600.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# gobby configuration file\n")
	buf.WriteString("# Generated by gobby - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg to path as indented JSON with mode 0600.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// minKeyBits matches the smallest key the key generation job accepts.
const minKeyBits = 1024

// Validate checks every section and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		errs = append(errs, ValidationError{"editor.tab_width", "must be between 1 and 16"})
	}

	if strings.TrimSpace(c.Export.Style) == "" {
		errs = append(errs, ValidationError{"export.style", "must not be empty"})
	}

	if strings.ContainsAny(c.Network.Service, " ._") {
		errs = append(errs, ValidationError{"network.service", "must be a bare service name like \"infinote\""})
	}

	if c.Async.MaxWorkers < 0 {
		errs = append(errs, ValidationError{"async.max_workers", "must not be negative"})
	}

	if c.Security.KeyBits < minKeyBits {
		errs = append(errs, ValidationError{"security.key_bits", fmt.Sprintf("must be at least %d", minKeyBits)})
	}

	switch c.UI.Theme {
	case "dark", "light":
	default:
		errs = append(errs, ValidationError{"ui.theme", fmt.Sprintf("unknown theme %q (want dark or light)", c.UI.Theme)})
	}
	if c.UI.TitleWidth < 8 {
		errs = append(errs, ValidationError{"ui.title_width", "must be at least 8"})
	}

	for i, loc := range c.Browser.Locations {
		field := fmt.Sprintf("browser.locations[%d]", i)
		if strings.TrimSpace(loc.Host) == "" {
			errs = append(errs, ValidationError{field + ".host", "must not be empty"})
		}
		if !strings.HasPrefix(loc.Path, "/") {
			errs = append(errs, ValidationError{field + ".path", "must start with /"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values with defaults and resolves file locations
// relative to the config directory.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Editor.TabWidth == 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Export.Style == "" {
		c.Export.Style = defaults.Export.Style
	}
	if c.Network.Service == "" {
		c.Network.Service = defaults.Network.Service
	}
	if c.Security.KeyBits == 0 {
		c.Security.KeyBits = defaults.Security.KeyBits
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.TitleWidth == 0 {
		c.UI.TitleWidth = defaults.UI.TitleWidth
	}

	dir, err := ConfigDir()
	if err != nil {
		glog.Warningf("config: %v", err)
		dir = "."
	}
	if c.Security.KeyFile == "" {
		c.Security.KeyFile = filepath.Join(dir, "key.pem")
	}
	if c.Storage.DocInfoPath == "" {
		c.Storage.DocInfoPath = filepath.Join(dir, "docinfo.db")
	}
	c.Security.KeyFile = util.ExpandHome(c.Security.KeyFile)
	if c.Storage.DocInfoPath != ":memory:" {
		c.Storage.DocInfoPath = util.ExpandHome(c.Storage.DocInfoPath)
	}
	c.Editor.StartFolder = util.ExpandHome(c.Editor.StartFolder)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies GOBBY_* environment variables:
//   - GOBBY_EXPORT_STYLE: overrides export.style
//   - GOBBY_SERVICE: overrides network.service
//   - GOBBY_MAX_WORKERS: overrides async.max_workers
//   - GOBBY_KEY_FILE: overrides security.key_file
//   - GOBBY_KEY_BITS: overrides security.key_bits
//   - GOBBY_DOCINFO_PATH: overrides storage.docinfo_path
//   - GOBBY_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if style := os.Getenv("GOBBY_EXPORT_STYLE"); style != "" {
		c.Export.Style = style
	}
	if service := os.Getenv("GOBBY_SERVICE"); service != "" {
		c.Network.Service = service
	}
	if workers := os.Getenv("GOBBY_MAX_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil {
			c.Async.MaxWorkers = n
		} else {
			glog.Warningf("config: ignoring GOBBY_MAX_WORKERS=%q: %v", workers, err)
		}
	}
	if keyFile := os.Getenv("GOBBY_KEY_FILE"); keyFile != "" {
		c.Security.KeyFile = keyFile
	}
	if bits := os.Getenv("GOBBY_KEY_BITS"); bits != "" {
		if n, err := strconv.Atoi(bits); err == nil {
			c.Security.KeyBits = n
		} else {
			glog.Warningf("config: ignoring GOBBY_KEY_BITS=%q: %v", bits, err)
		}
	}
	if path := os.Getenv("GOBBY_DOCINFO_PATH"); path != "" {
		c.Storage.DocInfoPath = path
	}
	if theme := os.Getenv("GOBBY_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g. "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field
// name.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all scalar configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"editor.tab_width",
		"editor.start_folder",
		"export.style",
		"export.line_numbers",
		"export.footer",
		"network.service",
		"async.max_workers",
		"security.key_file",
		"security.key_bits",
		"storage.docinfo_path",
		"ui.theme",
		"ui.show_help",
		"ui.title_width",
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Browser.Locations != nil {
		clone.Browser.Locations = append([]LocationConfig(nil), c.Browser.Locations...)
	}
	return &clone
}

// String returns the config as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance, loading it on first
// access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			glog.Warningf("config: %v (using defaults)", err)
		}
		if cfg == nil {
			cfg = Default()
			cfg.SetDefaults()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
