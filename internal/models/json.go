// json.go
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

package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is an ordered list of strings stored in a single JSON array column.
type StringList []string

// Value delegates encoding to datatypes.JSONSlice
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return datatypes.JSONSlice[string](l).Value()
}

// Scan delegates decoding to datatypes.JSONSlice
func (l *StringList) Scan(value interface{}) error {
	var slice datatypes.JSONSlice[string]
	if err := slice.Scan(value); err != nil {
		return err
	}
	*l = StringList(slice)
	return nil
}

// GormDataType gives the generic data type for migrations
func (StringList) GormDataType() string {
	return "json"
}

// GormDBDataType ensures the correct data type is used for each database driver.
// MSSQL does not support the 'json' data type.
func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
