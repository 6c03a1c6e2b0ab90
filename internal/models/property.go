// property.go
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

// Property is a real-estate listing. Amenities, investment features and
// connectivity info are ordered lists edited as comma separated text.
type Property struct {
	ID                 string     `gorm:"type:char(36);primaryKey" json:"id"`
	ProjectName        string     `gorm:"size:255" json:"project_name"`
	ProjectNameTe      string     `gorm:"size:255" json:"project_name_te"`
	Location           string     `gorm:"type:text" json:"location"`
	GoogleMapsEmbed    string     `gorm:"type:text" json:"google_maps_embed"`
	AreaSqYards        string     `gorm:"size:64" json:"area_sq_yards"`
	Price              string     `gorm:"size:64" json:"price"`
	PricePerSqYard     string     `gorm:"size:64" json:"price_per_sq_yard"`
	Description        string     `gorm:"type:text" json:"description"`
	DescriptionTe      string     `gorm:"type:text" json:"description_te"`
	Amenities          StringList `json:"amenities"`
	InvestmentFeatures StringList `json:"investment_features"`
	ConnectivityInfo   StringList `json:"connectivity_info"`
	ImageURLs          StringList `gorm:"column:image_urls" json:"image_urls"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName overrides the table name for Property
func (Property) TableName() string {
	return KindProperty.Collection()
}

// BeforeCreate assigns the identifier on insert
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// RecordID returns the store assigned identifier
func (p Property) RecordID() string {
	return p.ID
}
