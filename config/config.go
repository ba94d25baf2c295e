package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
	"github.com/Mehmet-hhs/factuurvergelijker/recon"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Auth   AuthConfig   `yaml:"auth" validate:"required"`
	Users  []User       `yaml:"users"`
	Minio  MinioConfig  `yaml:"minio"`
	Store  StoreConfig  `yaml:"store"`
	Audit  AuditConfig  `yaml:"audit"`
	Recon  ReconConfig  `yaml:"recon"`
}

type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=1,lte=65535"`
	// MaxUploadFiles bounds how many documents one side of a single request
	// may carry.
	MaxUploadFiles int `yaml:"max_upload_files" validate:"gte=1"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret" validate:"required"`
	TokenExpireHours int    `yaml:"token_expire_hours" validate:"gte=1"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Tenant   string `yaml:"tenant"`
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days" validate:"gte=1"`
}

type StoreConfig struct {
	// MaxRuns caps how many reconciliation runs are kept in memory, 0 = unlimited.
	MaxRuns int `yaml:"max_runs"`
}

type AuditConfig struct {
	// DatabasePath is the SQLite file the audit trail is written to.
	// Empty disables auditing.
	DatabasePath string `yaml:"database_path"`
}

// ReconConfig carries the tolerances and the status display labels. The
// tolerances are YAML strings so that "0.01" survives parsing exactly.
type ReconConfig struct {
	QuantityTolerance string            `yaml:"quantity_tolerance"`
	PriceTolerance    string            `yaml:"price_tolerance"`
	Labels            map[string]string `yaml:"labels"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxUploadFiles == 0 {
		cfg.Server.MaxUploadFiles = 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Minio.ExpireDays == 0 {
		cfg.Minio.ExpireDays = 7
	}
	if cfg.Store.MaxRuns == 0 {
		cfg.Store.MaxRuns = 100
	}
	if cfg.Recon.QuantityTolerance == "" {
		cfg.Recon.QuantityTolerance = "0"
	}
	if cfg.Recon.PriceTolerance == "" {
		cfg.Recon.PriceTolerance = "0.01"
	}
	if cfg.Recon.Labels == nil {
		cfg.Recon.Labels = make(map[string]string)
	}
	for status, label := range model.DefaultLabels() {
		if _, ok := cfg.Recon.Labels[status.String()]; !ok {
			cfg.Recon.Labels[status.String()] = label
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// Validate checks structural constraints and that the tolerances parse to
// non-negative decimals.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("ongeldige configuratie: %w", err)
	}
	if _, err := c.Tolerances(); err != nil {
		return err
	}
	return nil
}

// Tolerances parses the configured tolerances into an engine config.
func (c *Config) Tolerances() (recon.Config, error) {
	qty, err := decimal.NewFromString(c.Recon.QuantityTolerance)
	if err != nil || qty.IsNegative() {
		return recon.Config{}, fmt.Errorf("ongeldige aantaltolerantie %q", c.Recon.QuantityTolerance)
	}
	price, err := decimal.NewFromString(c.Recon.PriceTolerance)
	if err != nil || price.IsNegative() {
		return recon.Config{}, fmt.Errorf("ongeldige prijstolerantie %q", c.Recon.PriceTolerance)
	}
	return recon.Config{QuantityTolerance: qty, PriceTolerance: price}, nil
}

// StatusLabels resolves the configured display labels into an enum-keyed map
// for the reporting boundary.
func (c *Config) StatusLabels() map[model.Status]string {
	labels := model.DefaultLabels()
	for _, status := range model.AllStatuses() {
		if label, ok := c.Recon.Labels[status.String()]; ok && label != "" {
			labels[status] = label
		}
	}
	return labels
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
