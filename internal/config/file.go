package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the bootstrap configuration read before any front end starts.
// User facing settings (view mode, import source) live in preferences instead.
type File struct {
	// Database is the SQLite file holding the special days.
	Database string `yaml:"database"`

	// ListenPort is the loopback port of the ICS feed.
	ListenPort string `yaml:"listen_port"`

	// Refresh is a cron spec for the periodic countdown refresh.
	Refresh string `yaml:"refresh"`

	// Language is the UI language (ISO 639-1).
	Language string `yaml:"language"`

	// Timezone is the IANA zone used for day counting. Empty means the system zone.
	Timezone string `yaml:"timezone"`

	// LogDir overrides the log directory. Empty means the user cache dir.
	LogDir string `yaml:"log_dir"`

	// ServeFeed starts the ICS feed alongside the GUI.
	ServeFeed bool `yaml:"serve_feed"`
}

// DefaultFile returns the configuration used on first run.
func DefaultFile(dir string) *File {
	return &File{
		Database:   filepath.Join(dir, DatabaseFileName),
		ListenPort: DefaultPort,
		Refresh:    DefaultRefreshSpec,
		Language:   DefaultLanguage,
		ServeFeed:  true,
	}
}

// Normalize fills in missing values so older or partial files keep working.
func (f *File) Normalize(dir string) {
	def := DefaultFile(dir)
	if f.Database == "" {
		f.Database = def.Database
	}
	if err := ValidatePort(f.ListenPort); err != nil {
		f.ListenPort = def.ListenPort
	}
	if f.Refresh == "" {
		f.Refresh = def.Refresh
	}
	if f.Language == "" {
		f.Language = def.Language
	}
}

// Location resolves the configured timezone, falling back to the system zone.
func (f *File) Location() *time.Location {
	if f.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ValidatePort checks that a port string is a number in the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// Dir returns the per-user configuration directory, creating it if needed.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	dir := filepath.Join(base, ConfigDirName)
	if err := os.MkdirAll(dir, DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", ErrCreateDir, err)
	}
	return dir, nil
}

// Load reads the YAML file at path.
// On first run the defaults are written to path and returned.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, errors.New(ErrConfigPathEmpty)
	}
	dir := filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultFile(dir)
			return cfg, Save(path, cfg)
		}
		return nil, fmt.Errorf("%s: %w", ErrConfigRead, err)
	}

	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrConfigParse, err)
	}
	cfg.Normalize(dir)
	return &cfg, nil
}

// Save writes cfg to path atomically with owner-only permissions.
func Save(path string, cfg *File) error {
	if path == "" {
		return errors.New(ErrConfigPathEmpty)
	}
	if cfg == nil {
		return errors.New(ErrConfigNil)
	}
	cfg.Normalize(filepath.Dir(path))

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrConfigWrite, err)
	}
	return writeAtomic(path, data)
}

// writeAtomic writes to a temp file in the same directory then renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+BinaryName+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w", ErrConfigWrite, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", ErrConfigWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", ErrConfigWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrConfigWrite, err)
	}
	if err := os.Chmod(tmpName, FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", ErrConfigWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%s: %w", ErrConfigWrite, err)
	}
	return nil
}
