// config.go
//
// An admin console for real-estate property listings and blog posts
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of realty-admin.
// realty-admin is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// realty-admin is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with realty-admin.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port        string
	BaseURL     string
	MaxUploadMB int

	// Database configuration
	DBType               string // sqlite, mysql, mariadb, postgres, sqlserver
	DBHost               string
	DBPort               string
	DBAppDatabase        string
	DBAppUser            string
	DBAppPassword        string
	DBAppConnectionLimit int

	// Authorizer configuration
	AuthzURL      string
	AuthzClientID string

	// Object storage configuration
	StorageEndpoint        string
	StorageAccessKeyID     string
	StorageSecretAccessKey string
	StorageUseSSL          bool
	StoragePublicURL       string
}

// Load loads configuration from environment variables.
// A .env file in the working directory, if present, is applied first without
// overriding variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Ignoring unreadable .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from the current environment only.
func FromEnv() (*Config, error) {
	port := getEnv("PORT", "3000")

	cfg := &Config{
		Port:                   port,
		BaseURL:                strings.TrimSuffix(getEnv("BASE_URL", "http://localhost:"+port), "/"),
		MaxUploadMB:            getEnvAsInt("MAX_UPLOAD_MB", 20),
		DBType:                 getEnv("DB_TYPE", "sqlite"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "3306"),
		DBAppDatabase:          getEnv("DB_APP_DATABASE", ""),
		DBAppUser:              getEnv("DB_APP_USER", ""),
		DBAppPassword:          getEnv("DB_APP_PASSWORD", ""),
		DBAppConnectionLimit:   getEnvAsInt("DB_APP_CONNECTION_LIMIT", 5),
		AuthzURL:               getEnv("AUTHZ_URL", ""),
		AuthzClientID:          getEnv("AUTHZ_CLIENT_ID", ""),
		StorageEndpoint:        getEnv("STORAGE_ENDPOINT", ""),
		StorageAccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
		StorageSecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
		StorageUseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
	}

	scheme := "http"
	if cfg.StorageUseSSL {
		scheme = "https"
	}
	cfg.StoragePublicURL = strings.TrimSuffix(getEnv("STORAGE_PUBLIC_URL", scheme+"://"+cfg.StorageEndpoint), "/")

	// Validate required fields
	if cfg.DBAppDatabase == "" {
		return nil, fmt.Errorf("DB_APP_DATABASE is required")
	}
	if cfg.DBType != "sqlite" {
		if cfg.DBAppUser == "" {
			return nil, fmt.Errorf("DB_APP_USER is required")
		}
		if cfg.DBAppPassword == "" {
			return nil, fmt.Errorf("DB_APP_PASSWORD is required")
		}
	}
	if cfg.AuthzURL == "" {
		return nil, fmt.Errorf("AUTHZ_URL is required")
	}
	if cfg.AuthzClientID == "" {
		return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required")
	}
	if cfg.StorageEndpoint == "" {
		return nil, fmt.Errorf("STORAGE_ENDPOINT is required")
	}
	if cfg.StorageAccessKeyID == "" || cfg.StorageSecretAccessKey == "" {
		return nil, fmt.Errorf("STORAGE_ACCESS_KEY_ID and STORAGE_SECRET_ACCESS_KEY are required")
	}

	return cfg, nil
}

// MaxUploadBytes is the request body limit applied to multipart form posts.
func (c *Config) MaxUploadBytes() int {
	return c.MaxUploadMB * 1024 * 1024
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: %s is not a valid boolean ('%s'), using %v", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
