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

// Package main is the entry point for starting the Conductor server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/asgardeo/conductor/internal/system/config"
	"github.com/asgardeo/conductor/internal/system/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := log.GetLogger()
	defer logger.Sync()

	serverHome := getServerHome(logger)
	cfg := initServerConfigurations(logger, serverHome)

	mux := http.NewServeMux()
	dbProvider := registerServices(logger, mux, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runServer(ctx, logger, cfg, mux); err != nil {
		logger.Error("Server stopped with an error", log.Error(err))
	}

	if dbProvider != nil {
		if err := dbProvider.Close(); err != nil {
			logger.Error("Failed to close database connections", log.Error(err))
		}
	}
	logger.Info("Conductor server stopped")
}

// getServerHome retrieves and returns the server home directory.
func getServerHome(logger *log.Logger) string {
	homeFlag := flag.String("home", "", "Path to the Conductor home directory")
	flag.Parse()

	if *homeFlag != "" {
		logger.Info("Using server home from command line argument", log.String("home", *homeFlag))
		return *homeFlag
	}

	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		logger.Fatal("Failed to get current working directory", log.Error(err))
	}
	return dir
}

// initServerConfigurations loads the deployment configuration and initializes the server runtime.
func initServerConfigurations(logger *log.Logger, serverHome string) *config.Config {
	configFilePath := path.Join(serverHome, "repository/conf/deployment.yaml")
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		logger.Fatal("Failed to load configurations", log.String("path", configFilePath), log.Error(err))
	}

	if err := config.InitializeServerRuntime(serverHome, cfg); err != nil {
		logger.Fatal("Failed to initialize server runtime", log.Error(err))
	}
	return cfg
}

// runServer serves requests until the context is cancelled, then drains in-flight transactions.
func runServer(ctx context.Context, logger *log.Logger, cfg *config.Config, mux *http.ServeMux) error {
	server := createHTTPServer(logger, cfg, mux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Conductor server started", log.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down Conductor server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// createHTTPServer creates and configures an HTTP server with common settings.
func createHTTPServer(logger *log.Logger, cfg *config.Config, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Hostname, cfg.Server.Port),
		Handler:           log.AccessLogHandler(logger, mux),
		ReadHeaderTimeout: 10 * time.Second, // Mitigate Slowloris attacks
		// No write timeout: a transaction with retried steps can run longer than any fixed deadline.
		IdleTimeout: 120 * time.Second,
	}
}
