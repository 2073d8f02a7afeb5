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

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const testResourceDir = "../../../tests/resources"

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) getFilePath(filename string) string {
	return filepath.Join(testResourceDir, filename)
}

func (suite *ConfigTestSuite) TestLoadConfigValid() {
	config, err := LoadConfig(suite.getFilePath("deployment.yaml"))

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), config)

	assert.Equal(suite.T(), "localhost", config.Server.Hostname)
	assert.Equal(suite.T(), 8090, config.Server.Port)

	assert.Equal(suite.T(), "sqlite", config.Database.Runtime.Type)
	assert.Equal(suite.T(), "repository/database/runtimedb.db", config.Database.Runtime.Path)
	assert.Equal(suite.T(), 10, config.Database.Runtime.MaxOpenConns)

	assert.Equal(suite.T(), 15*time.Second, config.Orchestrator.Timeout())
	assert.Equal(suite.T(), 4, config.Orchestrator.MaxRetryAttempts)
	assert.Equal(suite.T(), 500*time.Millisecond, config.Orchestrator.RetryBaseDelay())
	// Not present in the file, so the defaults apply.
	assert.Equal(suite.T(), 5*time.Second, config.Orchestrator.RetryMaxDelay())
	assert.True(suite.T(), config.Orchestrator.CompensationEnabled)
	assert.False(suite.T(), config.Orchestrator.JournalEnabled)

	assert.Equal(suite.T(), "http://localhost:3001", config.Services["order"].BaseURL)
	assert.Equal(suite.T(), "http://localhost:3002", config.Services["payment"].BaseURL)
	assert.Equal(suite.T(), []string{"http://localhost:3000"}, config.CORS.AllowedOrigins)
}

func (suite *ConfigTestSuite) TestLoadConfigFileNotFound() {
	config, err := LoadConfig(suite.getFilePath("non_existent_config.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "no such file or directory")
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidYAML() {
	config, err := LoadConfig(suite.getFilePath("invalid_deployment.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidValues() {
	config, err := LoadConfig(suite.getFilePath("invalid_orchestrator.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "max_retry_attempts")
	assert.Contains(suite.T(), err.Error(), "retry_max_delay_ms")
	assert.Contains(suite.T(), err.Error(), "absolute http(s) URL")
}

func (suite *ConfigTestSuite) TestOrchestratorValidate() {
	testCases := []struct {
		name      string
		config    OrchestratorConfig
		expectErr bool
	}{
		{"Defaults", DefaultConfig().Orchestrator, false},
		{"ZeroTimeout", OrchestratorConfig{TimeoutMs: 0, MaxRetryAttempts: 1}, true},
		{"NegativeAttempts", OrchestratorConfig{TimeoutMs: 10, MaxRetryAttempts: -1}, true},
		{"CapBelowBase", OrchestratorConfig{TimeoutMs: 10, MaxRetryAttempts: 1,
			RetryBaseDelayMs: 10, RetryMaxDelayMs: 5}, true},
		{"ZeroDelays", OrchestratorConfig{TimeoutMs: 10, MaxRetryAttempts: 1}, false},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.config.Validate()
			if tc.expectErr {
				suite.Error(err)
			} else {
				suite.NoError(err)
			}
		})
	}
}

func (suite *ConfigTestSuite) TestConfigValidateRequiresServices() {
	cfg := DefaultConfig()
	suite.Error(cfg.Validate())

	cfg.Services["order"] = ServiceConfig{BaseURL: "https://orders.internal"}
	suite.NoError(cfg.Validate())
}
