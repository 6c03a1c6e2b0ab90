// health.go
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

package services

import (
	"fmt"
	"log"

	"github.com/localnerve/realty-admin/internal/config"
	"github.com/localnerve/realty-admin/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Authorizer   string            `json:"authorizer"`
	Storage      string            `json:"storage"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// fail marks the result unhealthy and appends msg to the error message
func (r *HealthCheckResult) fail(key string, err error, msg string) {
	r.Status = "unhealthy"
	r.Details[key] = err.Error()
	if r.ErrorMessage == "" {
		r.ErrorMessage = msg
	} else {
		r.ErrorMessage += "; " + msg
	}
}

// HealthCheck checks the record store, the Authorizer and object storage
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.fail("database_error", err, fmt.Sprintf("Database connection error: %v", err))
		log.Printf("Health check failed - database connection: %v", err)
	} else if err := sqlDB.Ping(); err != nil {
		result.Database = "unreachable"
		result.fail("database_ping_error", err, fmt.Sprintf("Database ping failed: %v", err))
		log.Printf("Health check failed - database ping: %v", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBAppDatabase
	}

	// Check Authorizer connectivity
	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		result.Authorizer = "unreachable"
		result.fail("authorizer_error", err, fmt.Sprintf("Authorizer ping failed: %v", err))
		log.Printf("Health check failed - authorizer ping: %v", err)
	} else {
		result.Authorizer = "ok"
		result.Details["authorizer_url"] = cfg.AuthzURL
	}

	// Check object storage connectivity
	if err := utils.PingStorage(cfg.StorageEndpoint, cfg.StorageUseSSL); err != nil {
		result.Storage = "unreachable"
		result.fail("storage_error", err, fmt.Sprintf("Storage ping failed: %v", err))
		log.Printf("Health check failed - storage ping: %v", err)
	} else {
		result.Storage = "ok"
		result.Details["storage_endpoint"] = cfg.StorageEndpoint
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}
