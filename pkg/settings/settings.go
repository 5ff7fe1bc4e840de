// Package settings manages persistent user settings for the leafspine CLI.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Fallbacks used when a setting is not set.
const (
	DefaultOutputDir = "."
	DefaultRedisAddr = "localhost:6379"
	DefaultLabDir    = "leafspine"
)

// Settings holds persistent user preferences
type Settings struct {
	// DefaultRadix is used when -r is not specified
	DefaultRadix int `json:"default_radix,omitempty"`

	// OutputDir is where export writes emulator artifacts
	OutputDir string `json:"output_dir,omitempty"`

	// RedisAddr and RedisDB locate the topology registry for publish
	RedisAddr string `json:"redis_addr,omitempty"`
	RedisDB   int    `json:"redis_db,omitempty"`

	// PlanDB overrides the plan database path
	PlanDB string `json:"plan_db,omitempty"`

	// Lab host used by push
	LabHost    string `json:"lab_host,omitempty"`
	LabPort    int    `json:"lab_port,omitempty"`
	LabUser    string `json:"lab_user,omitempty"`
	LabKeyFile string `json:"lab_key_file,omitempty"`
	LabDir     string `json:"lab_dir,omitempty"`
}

// Keys lists the setting names accepted by Get and Set, in display order.
var Keys = []string{
	"radix", "output_dir", "redis_addr", "redis_db", "plan_db",
	"lab_host", "lab_port", "lab_user", "lab_key_file", "lab_dir",
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "leafspine_settings.json"
	}
	return filepath.Join(home, ".leafspine", "settings.json")
}

// DefaultPlanDBPath returns the default plan database path.
func DefaultPlanDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "leafspine_plans.db"
	}
	return filepath.Join(home, ".leafspine", "plans.db")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetOutputDir returns the export directory (with fallback)
func (s *Settings) GetOutputDir() string {
	if s.OutputDir != "" {
		return s.OutputDir
	}
	return DefaultOutputDir
}

// GetRedisAddr returns the registry address (with fallback)
func (s *Settings) GetRedisAddr() string {
	if s.RedisAddr != "" {
		return s.RedisAddr
	}
	return DefaultRedisAddr
}

// GetPlanDB returns the plan database path (with fallback)
func (s *Settings) GetPlanDB() string {
	if s.PlanDB != "" {
		return s.PlanDB
	}
	return DefaultPlanDBPath()
}

// GetLabDir returns the remote artifact directory (with fallback)
func (s *Settings) GetLabDir() string {
	if s.LabDir != "" {
		return s.LabDir
	}
	return DefaultLabDir
}

// Get returns the raw value of a setting, or "" when unset.
func (s *Settings) Get(key string) (string, error) {
	itoa := func(v int) string {
		if v == 0 {
			return ""
		}
		return strconv.Itoa(v)
	}
	switch key {
	case "radix":
		return itoa(s.DefaultRadix), nil
	case "output_dir":
		return s.OutputDir, nil
	case "redis_addr":
		return s.RedisAddr, nil
	case "redis_db":
		return itoa(s.RedisDB), nil
	case "plan_db":
		return s.PlanDB, nil
	case "lab_host":
		return s.LabHost, nil
	case "lab_port":
		return itoa(s.LabPort), nil
	case "lab_user":
		return s.LabUser, nil
	case "lab_key_file":
		return s.LabKeyFile, nil
	case "lab_dir":
		return s.LabDir, nil
	}
	return "", unknownKey(key)
}

// Set assigns a setting from its string form.
func (s *Settings) Set(key, value string) error {
	atoi := func(min, max int) (int, error) {
		v, err := strconv.Atoi(value)
		if err != nil || v < min || v > max {
			return 0, fmt.Errorf("%s: %q is not an integer in %d..%d", key, value, min, max)
		}
		return v, nil
	}

	var err error
	switch key {
	case "radix":
		s.DefaultRadix, err = atoi(1, 1<<16)
	case "output_dir":
		s.OutputDir = value
	case "redis_addr":
		s.RedisAddr = value
	case "redis_db":
		s.RedisDB, err = atoi(0, 15)
	case "plan_db":
		s.PlanDB = value
	case "lab_host":
		s.LabHost = value
	case "lab_port":
		s.LabPort, err = atoi(1, 65535)
	case "lab_user":
		s.LabUser = value
	case "lab_key_file":
		s.LabKeyFile = value
	case "lab_dir":
		s.LabDir = value
	default:
		return unknownKey(key)
	}
	return err
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown setting: %s (valid: %s)", key, strings.Join(Keys, ", "))
}
