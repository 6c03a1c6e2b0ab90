// Package data embeds the database initialization scripts used by the
// container environment.
package data

import (
	_ "embed"
)

//go:embed initdb/mariadb/001-ddl-tables.sql
var InitdbMariaDBTables string

//go:embed initdb/mariadb/002-ddl-privileges.sql
var InitdbMariaDBPrivileges string
