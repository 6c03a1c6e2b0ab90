// testenv.go
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

// Package testenv starts the console's backing services in containers:
// MariaDB for records, MinIO for images and the Authorizer for sessions.
// It serves the integration tests and the standalone testcontainers command.
// Settings come from the environment, usually loaded from a .env file.
package testenv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/go-sql-driver/mysql"
	"github.com/localnerve/realty-admin/data"
	"github.com/localnerve/realty-admin/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// EnabledEnv must be "true" for integration tests to start containers
const EnabledEnv = "TESTCONTAINERS_ENABLED"

// defaults apply when the environment leaves a setting empty
var defaults = map[string]string{
	"DB_IMAGE":                  "mariadb:11.4",
	"DB_HOST":                   "mariadb",
	"DB_PORT":                   "3306",
	"DB_ROOT_PASSWORD":          "root-secret",
	"DB_APP_DATABASE":           "realty",
	"DB_APP_USER":               "realty",
	"DB_APP_PASSWORD":           "realty-secret",
	"AUTHZ_IMAGE":               "lakhansamani/authorizer:latest",
	"AUTHZ_PORT":                "8080",
	"AUTHZ_DATABASE":            "authorizer",
	"AUTHZ_CLIENT_ID":           "realty-admin",
	"AUTHZ_ADMIN_SECRET":        "admin-secret",
	"STORAGE_IMAGE":             "minio/minio:latest",
	"STORAGE_PORT":              "9000",
	"STORAGE_ACCESS_KEY_ID":     "minioadmin",
	"STORAGE_SECRET_ACCESS_KEY": "minioadmin",
}

func getEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaults[key]
}

// SkipUnlessEnabled skips t in short mode or when containers are not enabled
func SkipUnlessEnabled(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	if os.Getenv(EnabledEnv) != "true" {
		t.Skipf("skipping container test, set %s=true to run", EnabledEnv)
	}
}

// Containers is a running set of backing services
type Containers struct {
	Network    *testcontainers.DockerNetwork
	DB         testcontainers.Container
	Storage    testcontainers.Container
	Authorizer testcontainers.Container

	// Host side addresses
	DBHost          string
	DBPort          string
	StorageEndpoint string
	AuthzURL        string
}

// Terminate stops every started container and removes the network
func (tc *Containers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.Authorizer != nil {
		if err := tc.Authorizer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Authorizer: %v", err)
		}
	}
	if tc.Storage != nil {
		if err := tc.Storage.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate MinIO: %v", err)
		}
	}
	if tc.DB != nil {
		if err := tc.DB.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate MariaDB: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// Config returns a console configuration pointing at the started services
func (tc *Containers) Config() *config.Config {
	cfg := &config.Config{
		Port:                   "3000",
		BaseURL:                "http://localhost:3000",
		MaxUploadMB:            20,
		DBType:                 "mariadb",
		DBHost:                 tc.DBHost,
		DBPort:                 tc.DBPort,
		DBAppDatabase:          getEnv("DB_APP_DATABASE"),
		DBAppUser:              getEnv("DB_APP_USER"),
		DBAppPassword:          getEnv("DB_APP_PASSWORD"),
		DBAppConnectionLimit:   4,
		AuthzURL:               tc.AuthzURL,
		AuthzClientID:          getEnv("AUTHZ_CLIENT_ID"),
		StorageEndpoint:        tc.StorageEndpoint,
		StorageAccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID"),
		StorageSecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY"),
	}
	cfg.StoragePublicURL = "http://" + tc.StorageEndpoint
	return cfg
}

// New creates the shared container network
func New(ctx context.Context) (*Containers, error) {
	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	return &Containers{Network: nw}, nil
}

// StartAll starts MariaDB, MinIO and the Authorizer. On failure everything
// already started is terminated.
func StartAll(ctx context.Context, t *testing.T) (*Containers, error) {
	tc, err := New(ctx)
	if err != nil {
		return nil, err
	}

	steps := []func(context.Context, *testing.T) error{
		tc.StartMariaDB,
		tc.StartMinIO,
		tc.StartAuthorizer,
	}
	for _, step := range steps {
		if err := step(ctx, t); err != nil {
			tc.Terminate(t)
			return nil, err
		}
	}

	logMessage(t, "Console services started successfully")
	return tc, nil
}

// StartMariaDB starts the record database and runs the init scripts
func (tc *Containers) StartMariaDB(ctx context.Context, t *testing.T) error {
	tcpDBPort, err := nat.NewPort("tcp", getEnv("DB_PORT"))
	if err != nil {
		return fmt.Errorf("failed to create DB port: %w", err)
	}

	reportImage(ctx, t, getEnv("DB_IMAGE"))
	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        getEnv("DB_IMAGE"),
			ExposedPorts: []string{string(tcpDBPort)},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": getEnv("DB_ROOT_PASSWORD"),
				"MARIADB_DATABASE":      getEnv("DB_APP_DATABASE"),
				"MARIADB_USER":          getEnv("DB_APP_USER"),
				"MARIADB_PASSWORD":      getEnv("DB_APP_PASSWORD"),
			},
			WaitingFor: wait.ForListeningPort(tcpDBPort).WithStartupTimeout(60 * time.Second),
			Networks:   []string{tc.Network.Name},
			NetworkAliases: map[string][]string{
				tc.Network.Name: {getEnv("DB_HOST")},
			},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start MariaDB: %w", err)
	}
	tc.DB = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		return err
	}
	port, err := dbContainer.MappedPort(ctx, tcpDBPort)
	if err != nil {
		return err
	}
	tc.DBHost, tc.DBPort = host, port.Port()
	logMessage(t, "DB_HOST=%s DB_PORT=%s", tc.DBHost, tc.DBPort)

	return initMariaDB(tc.DBHost, tc.DBPort)
}

// rootDSN builds the root connection string for addr and database
func rootDSN(addr, database string) string {
	dsn := mysql.NewConfig()
	dsn.User = "root"
	dsn.Passwd = getEnv("DB_ROOT_PASSWORD")
	dsn.Net = "tcp"
	dsn.Addr = addr
	dsn.DBName = database
	return dsn.FormatDSN()
}

func initMariaDB(host, port string) error {
	db, err := sql.Open("mysql", rootDSN(host+":"+port, ""))
	if err != nil {
		return fmt.Errorf("failed to connect to MariaDB for setup: %w", err)
	}
	defer db.Close()

	// Wait for connection to be really ready
	for i := 0; i < 30; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("MariaDB not ready after 30 seconds: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", getEnv("AUTHZ_DATABASE"))); err != nil {
		return fmt.Errorf("failed to create %s: %w", getEnv("AUTHZ_DATABASE"), err)
	}

	scripts := []struct{ name, sql string }{
		{"tables", data.InitdbMariaDBTables},
		{"privileges", data.InitdbMariaDBPrivileges},
	}
	for _, script := range scripts {
		if err := executeSQL(db, os.Expand(script.sql, getEnv)); err != nil {
			return fmt.Errorf("failed to execute %s init sql: %w", script.name, err)
		}
	}
	return nil
}

// StartMinIO starts the image object store
func (tc *Containers) StartMinIO(ctx context.Context, t *testing.T) error {
	tcpStoragePort, err := nat.NewPort("tcp", getEnv("STORAGE_PORT"))
	if err != nil {
		return fmt.Errorf("failed to create storage port: %w", err)
	}

	debugContainer := os.Getenv("DEBUG_CONTAINER") == "true"
	exposed := []string{string(tcpStoragePort)}
	if debugContainer {
		exposed = append(exposed, "9001/tcp")
	}

	hostConfigModifier := func(hostConfig *container.HostConfig) {
		if debugContainer {
			hostConfig.PortBindings = nat.PortMap{
				"9001/tcp": []nat.PortBinding{
					{HostIP: "127.0.0.1", HostPort: "9001"}, // MinIO console
				},
			}
		}
	}

	reportImage(ctx, t, getEnv("STORAGE_IMAGE"))
	storageContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        getEnv("STORAGE_IMAGE"),
			ExposedPorts: exposed,
			Cmd:          []string{"server", "/data", "--address", ":" + tcpStoragePort.Port(), "--console-address", ":9001"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     getEnv("STORAGE_ACCESS_KEY_ID"),
				"MINIO_ROOT_PASSWORD": getEnv("STORAGE_SECRET_ACCESS_KEY"),
			},
			HostConfigModifier: hostConfigModifier,
			WaitingFor:         wait.ForHTTP("/minio/health/live").WithPort(tcpStoragePort).WithStartupTimeout(60 * time.Second),
			Networks:           []string{tc.Network.Name},
			NetworkAliases: map[string][]string{
				tc.Network.Name: {"minio"},
			},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start MinIO: %w", err)
	}
	tc.Storage = storageContainer

	endpoint, err := storageContainer.PortEndpoint(ctx, tcpStoragePort, "")
	if err != nil {
		return err
	}
	tc.StorageEndpoint = endpoint
	logMessage(t, "STORAGE_ENDPOINT=%s", tc.StorageEndpoint)
	return nil
}

// StartAuthorizer starts the session service. It stores its users in
// MariaDB, so StartMariaDB must run first.
func (tc *Containers) StartAuthorizer(ctx context.Context, t *testing.T) error {
	if tc.DB == nil {
		return fmt.Errorf("the Authorizer needs MariaDB started first")
	}

	tcpAuthzPort, err := nat.NewPort("tcp", getEnv("AUTHZ_PORT"))
	if err != nil {
		return fmt.Errorf("failed to create Authorizer port: %w", err)
	}

	logLevel := "info"
	if os.Getenv("DEBUG_CONTAINER") == "true" {
		logLevel = "debug"
	}

	reportImage(ctx, t, getEnv("AUTHZ_IMAGE"))
	authorizerContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        getEnv("AUTHZ_IMAGE"),
			ExposedPorts: []string{string(tcpAuthzPort)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     getEnv("AUTHZ_CLIENT_ID"),
				"PORT":          tcpAuthzPort.Port(),
				"DATABASE_TYPE": "mariadb",
				"DATABASE_NAME": getEnv("AUTHZ_DATABASE"),
				"DATABASE_URL":  rootDSN(getEnv("DB_HOST")+":"+getEnv("DB_PORT"), getEnv("AUTHZ_DATABASE")),
				"ADMIN_SECRET":  getEnv("AUTHZ_ADMIN_SECRET"),
				"ROLES":         "admin,user",
				"DEFAULT_ROLES": "user",
				"LOG_LEVEL":     logLevel,
			},
			WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:   []string{tc.Network.Name},
			NetworkAliases: map[string][]string{
				tc.Network.Name: {"authorizer"},
			},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start Authorizer: %w", err)
	}
	tc.Authorizer = authorizerContainer

	host, err := authorizerContainer.Host(ctx)
	if err != nil {
		return err
	}
	port, err := authorizerContainer.MappedPort(ctx, tcpAuthzPort)
	if err != nil {
		return err
	}
	tc.AuthzURL = fmt.Sprintf("http://%s:%s", host, port.Port())
	logMessage(t, "AUTHZ_URL=%s", tc.AuthzURL)
	return nil
}

// executeSQL runs each ; terminated statement of script in order
func executeSQL(db *sql.DB, script string) error {
	lines := strings.Split(script, "\n")

	cleaned := make([]string, 0, len(lines))
	for _, l := range lines {
		cleaned = append(cleaned, excludeComment(l))
	}

	statements := strings.Split(strings.Join(cleaned, " "), ";")
	for _, q := range statements {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), q)
		}
	}
	return nil
}

// excludeComment strips a trailing -- comment that is not inside quotes
func excludeComment(line string) string {
	var quote rune
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '-' && strings.HasPrefix(line[i:], "--"):
			return line[:i]
		}
	}
	return line
}

// reportImage logs whether image must be pulled before its container starts
func reportImage(ctx context.Context, t *testing.T, imageName string) {
	exists, err := imageExists(ctx, imageName)
	switch {
	case err != nil:
		logMessage(t, "Could not list local images: %v", err)
	case exists:
		logMessage(t, "Image %s exists, reusing...", imageName)
	default:
		logMessage(t, "Image %s does not exist, pulling...", imageName)
	}
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}
	return false, nil
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
