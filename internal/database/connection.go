// connection.go
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

package database

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/localnerve/realty-admin/internal/config"
	"github.com/localnerve/realty-admin/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector selects the GORM dialector for the configured DB_TYPE
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "mysql", "mariadb":
		dsn := mysqldriver.NewConfig()
		dsn.User = cfg.DBAppUser
		dsn.Passwd = cfg.DBAppPassword
		dsn.Net = "tcp"
		dsn.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
		dsn.DBName = cfg.DBAppDatabase
		dsn.ParseTime = true
		dsn.Loc = time.Local
		dsn.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.Open(dsn.FormatDSN()), nil

	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBAppUser,
			cfg.DBAppPassword,
			cfg.DBAppDatabase,
			cfg.DBPort,
		)
		return postgres.Open(dsn), nil

	case "sqlite":
		// For SQLite, DBAppDatabase is the file path. Pure Go driver, no cgo.
		return sqlite.Open(cfg.DBAppDatabase), nil

	case "sqlserver", "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			cfg.DBAppUser,
			cfg.DBAppPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBAppDatabase,
		)
		return sqlserver.Open(dsn), nil
	}

	return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
}

// Connect establishes a database connection based on the configured DB_TYPE
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(cfg.DBAppConnectionLimit)
	sqlDB.SetMaxIdleConns(max(cfg.DBAppConnectionLimit/2, 1))

	log.Printf("Connected to %s database: %s", cfg.DBType, cfg.DBAppDatabase)

	return db, nil
}

// AutoMigrate runs automatic migrations for all record kinds
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Property{},
		&models.Blog{},
	)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
