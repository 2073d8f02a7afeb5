/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package config provides structures and functions for loading and managing server configurations.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	yaml "gopkg.in/yaml.v3"

	"github.com/asgardeo/conductor/internal/system/log"
)

const (
	defaultTimeoutMs        = 30000
	defaultMaxRetryAttempts = 3
	defaultRetryBaseDelayMs = 1000
	defaultRetryMaxDelayMs  = 5000
)

var absoluteHTTPURL = regexp.MustCompile(`^https?://[^\s/]+`)

// ServerConfig holds the server configuration details.
type ServerConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
}

// DataSource holds the individual database connection details.
type DataSource struct {
	Type            string `yaml:"type"`
	Hostname        string `yaml:"hostname"`
	Port            int    `yaml:"port"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"sslmode"`
	Path            string `yaml:"path"`
	Options         string `yaml:"options"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// DatabaseConfig holds the different database configuration details.
type DatabaseConfig struct {
	Runtime DataSource `yaml:"runtime"`
}

// OrchestratorConfig holds the saga execution settings shared by every flow.
type OrchestratorConfig struct {
	TimeoutMs           int  `yaml:"timeout_ms" json:"timeout_ms"`
	MaxRetryAttempts    int  `yaml:"max_retry_attempts" json:"max_retry_attempts"`
	RetryBaseDelayMs    int  `yaml:"retry_base_delay_ms" json:"retry_base_delay_ms"`
	RetryMaxDelayMs     int  `yaml:"retry_max_delay_ms" json:"retry_max_delay_ms"`
	CompensationEnabled bool `yaml:"compensation_enabled" json:"compensation_enabled"`
	JournalEnabled      bool `yaml:"journal_enabled" json:"journal_enabled"`
}

// Timeout returns the per-attempt timeout for remote calls.
func (o OrchestratorConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutMs) * time.Millisecond
}

// RetryBaseDelay returns the delay before the first retry.
func (o OrchestratorConfig) RetryBaseDelay() time.Duration {
	return time.Duration(o.RetryBaseDelayMs) * time.Millisecond
}

// RetryMaxDelay returns the upper bound of any single retry delay.
func (o OrchestratorConfig) RetryMaxDelay() time.Duration {
	return time.Duration(o.RetryMaxDelayMs) * time.Millisecond
}

// Validate checks that the orchestrator settings are usable.
func (o OrchestratorConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.TimeoutMs, validation.Required, validation.Min(1)),
		validation.Field(&o.MaxRetryAttempts, validation.Required, validation.Min(1)),
		validation.Field(&o.RetryBaseDelayMs, validation.Min(0)),
		validation.Field(&o.RetryMaxDelayMs, validation.Min(o.RetryBaseDelayMs)),
	)
}

// ServiceConfig holds the location of a downstream service.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// Validate checks that the service has an absolute http(s) base URL.
func (s ServiceConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.BaseURL, validation.Required,
			validation.Match(absoluteHTTPURL).Error("must be an absolute http(s) URL")),
	)
}

// CORSConfig holds the CORS configuration details.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Config holds the complete configuration details of the server.
type Config struct {
	Server       ServerConfig             `yaml:"server" json:"server"`
	Database     DatabaseConfig           `yaml:"database" json:"database"`
	Orchestrator OrchestratorConfig       `yaml:"orchestrator" json:"orchestrator"`
	Services     map[string]ServiceConfig `yaml:"services" json:"services"`
	CORS         CORSConfig               `yaml:"cors" json:"cors"`
}

// Validate checks the configuration sections that the saga engine depends on.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Orchestrator),
		validation.Field(&c.Services, validation.Required),
	)
}

// DefaultConfig returns a configuration populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Orchestrator: OrchestratorConfig{
			TimeoutMs:           defaultTimeoutMs,
			MaxRetryAttempts:    defaultMaxRetryAttempts,
			RetryBaseDelayMs:    defaultRetryBaseDelayMs,
			RetryMaxDelayMs:     defaultRetryMaxDelayMs,
			CompensationEnabled: true,
		},
		Services: map[string]ServiceConfig{},
	}
}

// LoadConfig loads the configurations from the specified YAML file.
// Values absent from the file keep their defaults, and the result is validated before it is returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := file.Close(); ferr != nil {
			log.GetLogger().Error("Failed to close config file", log.Error(ferr))
		}
	}()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
