package params

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validator "gopkg.in/go-playground/validator.v9"
)

// ----------
// LogSettings
// ----------

// LogSettings holds logging related configuration.
type LogSettings struct {
	// Enabled flag specifies whether logging is enabled
	Enabled bool

	// Level is the minimum level a message is logged with (ERROR, WARN, INFO, DEBUG, TRACE)
	Level string `validate:"omitempty,oneof=ERROR WARN INFO DEBUG TRACE"`

	// File is the path to the log file. Logs go to stderr when empty.
	File string

	// MaxSize of a single log file in megabytes.
	MaxSize int `validate:"min=0"`

	// MaxBackups is the number of rotated log files kept.
	MaxBackups int `validate:"min=0"`

	// CompressRotated enables gzip of rotated files.
	CompressRotated bool
}

// ----------
// Config
// ----------

// Config holds the wallet connect core configuration.
type Config struct {
	// DataDir is the file system folder the session database lives in.
	DataDir string

	// DefaultChainID is used for sessions whose peer does not announce a chain.
	DefaultChainID uint64 `validate:"gt=0"`

	// SessionsKey is the key under which the session set is persisted.
	SessionsKey string `validate:"required"`

	// StorageBackend selects the key-value store: leveldb, sqlite or memory.
	StorageBackend string `validate:"required,oneof=leveldb sqlite memory"`

	// DatabaseName is the database file/folder name inside DataDir.
	DatabaseName string `validate:"required"`

	// DatabasePassword encrypts the sqlite backend. Ignored by other backends.
	DatabasePassword string

	// SigningTimeout in seconds; 0 waits for the signer indefinitely.
	SigningTimeout int `validate:"min=0"`

	// DedupeWindow in seconds during which a repeated request id on the same session is rejected; 0 disables it.
	DedupeWindow int `validate:"min=0"`

	// MetricsPort exposes prometheus metrics when non-zero.
	MetricsPort int `validate:"min=0,max=65535"`

	LogSettings LogSettings
}

// NewConfig creates new configuration object with bare-minimum defaults.
// Important: the returned config is not validated.
func NewConfig(dataDir string) *Config {
	backend := StorageBackendLevelDB
	if dataDir == "" {
		backend = StorageBackendMemory
	}
	return &Config{
		DataDir:        dataDir,
		DefaultChainID: DefaultChainID,
		SessionsKey:    DefaultSessionsKey,
		StorageBackend: backend,
		DatabaseName:   DefaultDatabaseName,
		SigningTimeout: DefaultSigningTimeout,
		DedupeWindow:   DefaultDedupeWindow,
		LogSettings: LogSettings{
			Level:      "ERROR",
			MaxSize:    100,
			MaxBackups: 3,
		},
	}
}

// NewConfigFromJSON parses incoming JSON on top of the defaults and validates the result.
func NewConfigFromJSON(dataDir, configJSON string) (*Config, error) {
	config := NewConfig(dataDir)

	if err := loadConfigFromJSON(configJSON, config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigFromFiles applies config files in order on top of the defaults.
func LoadConfigFromFiles(dataDir string, files ...string) (*Config, error) {
	config := NewConfig(dataDir)

	for _, file := range files {
		if err := loadConfigFromFile(file, config); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadConfigFromJSON(configJSON string, config *Config) error {
	decoder := json.NewDecoder(strings.NewReader(configJSON))
	// override default configuration with values by JSON input
	return decoder.Decode(config)
}

func loadConfigFromFile(path string, config *Config) error {
	jsonConfig, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return loadConfigFromJSON(string(jsonConfig), config)
}

// Validate checks if Config fields have valid values.
//
// A single error for a struct has the following format:
//
//	Key: 'Config.SessionsKey' Error:Field validation for 'SessionsKey' failed on the 'required' tag
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.StorageBackend != StorageBackendMemory && c.DataDir == "" {
		return fmt.Errorf("StorageBackend %s requires DataDir", c.StorageBackend)
	}

	if c.StorageBackend == StorageBackendSQLite && c.DatabasePassword == "" {
		return fmt.Errorf("StorageBackend %s requires DatabasePassword", c.StorageBackend)
	}

	if c.LogSettings.Enabled && c.LogSettings.File != "" && c.LogSettings.MaxSize == 0 {
		return fmt.Errorf("LogSettings.MaxSize must be positive when logging to a file")
	}

	return nil
}

// DatabasePath returns the location of the session database.
func (c *Config) DatabasePath() string {
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, c.DatabaseName)
}

// SigningTimeoutDuration converts SigningTimeout to a time.Duration.
func (c *Config) SigningTimeoutDuration() time.Duration {
	return time.Duration(c.SigningTimeout) * time.Second
}

// DedupeWindowDuration converts DedupeWindow to a time.Duration.
func (c *Config) DedupeWindowDuration() time.Duration {
	return time.Duration(c.DedupeWindow) * time.Second
}

// Save writes the config as JSON into DataDir.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.DataDir, os.ModePerm); err != nil {
		return err
	}

	configFilePath := filepath.Join(c.DataDir, "config.json")
	return os.WriteFile(configFilePath, data, os.ModePerm)
}

// String dumps config object as nicely indented JSON
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "    ") // nolint: gas
	return string(data)
}
