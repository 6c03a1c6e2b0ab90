// blog.go
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
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Blog is a bilingual blog post with at most one image.
type Blog struct {
	ID                 string    `gorm:"type:char(36);primaryKey" json:"id"`
	BlogTitle          string    `gorm:"size:255" json:"blog_title"`
	BlogTitleTelugu    string    `gorm:"size:255" json:"blog_title_telugu"`
	EnglishDescription string    `gorm:"type:text" json:"english_description"`
	TeluguDescription  string    `gorm:"type:text" json:"telugu_description"`
	ImageURL           *string   `gorm:"type:text" json:"image_url"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName overrides the table name for Blog
func (Blog) TableName() string {
	return KindBlog.Collection()
}

// BeforeCreate assigns the identifier on insert
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// RecordID returns the store assigned identifier
func (b Blog) RecordID() string {
	return b.ID
}
