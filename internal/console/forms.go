// forms.go
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

package console

import (
	"slices"

	"github.com/localnerve/realty-admin/internal/models"
)

// PropertyForm is the editable state of a property. List fields hold
// comma separated text.
type PropertyForm struct {
	ProjectName        string   `form:"project_name"`
	ProjectNameTe      string   `form:"project_name_te"`
	Location           string   `form:"location"`
	GoogleMapsEmbed    string   `form:"google_maps_embed"`
	AreaSqYards        string   `form:"area_sq_yards"`
	Price              string   `form:"price"`
	PricePerSqYard     string   `form:"price_per_sq_yard"`
	Description        string   `form:"description"`
	DescriptionTe      string   `form:"description_te"`
	Amenities          string   `form:"amenities"`
	InvestmentFeatures string   `form:"investment_features"`
	ConnectivityInfo   string   `form:"connectivity_info"`
	ImageURLs          []string `form:"image_urls"`
	FormToken          string   `form:"form_token"`
}

// NewPropertyForm populates a form from a stored property
func NewPropertyForm(p *models.Property) *PropertyForm {
	return &PropertyForm{
		ProjectName:        p.ProjectName,
		ProjectNameTe:      p.ProjectNameTe,
		Location:           p.Location,
		GoogleMapsEmbed:    p.GoogleMapsEmbed,
		AreaSqYards:        p.AreaSqYards,
		Price:              p.Price,
		PricePerSqYard:     p.PricePerSqYard,
		Description:        p.Description,
		DescriptionTe:      p.DescriptionTe,
		Amenities:          JoinList(p.Amenities),
		InvestmentFeatures: JoinList(p.InvestmentFeatures),
		ConnectivityInfo:   JoinList(p.ConnectivityInfo),
		ImageURLs:          slices.Clone([]string(p.ImageURLs)),
	}
}

// Record builds the full property, kept images first then uploaded ones
func (f *PropertyForm) Record(uploaded []string) models.Property {
	images := make([]string, 0, len(f.ImageURLs)+len(uploaded))
	images = append(images, f.ImageURLs...)
	images = append(images, uploaded...)

	return models.Property{
		ProjectName:        f.ProjectName,
		ProjectNameTe:      f.ProjectNameTe,
		Location:           f.Location,
		GoogleMapsEmbed:    f.GoogleMapsEmbed,
		AreaSqYards:        f.AreaSqYards,
		Price:              f.Price,
		PricePerSqYard:     f.PricePerSqYard,
		Description:        f.Description,
		DescriptionTe:      f.DescriptionTe,
		Amenities:          SplitList(f.Amenities),
		InvestmentFeatures: SplitList(f.InvestmentFeatures),
		ConnectivityInfo:   SplitList(f.ConnectivityInfo),
		ImageURLs:          images,
	}
}

func (f *PropertyForm) Images() []string {
	return f.ImageURLs
}

// DropImage removes every occurrence of url
func (f *PropertyForm) DropImage(url string) {
	f.ImageURLs = slices.DeleteFunc(f.ImageURLs, func(u string) bool {
		return u == url
	})
}

func (f *PropertyForm) Token() string         { return f.FormToken }
func (f *PropertyForm) SetToken(token string) { f.FormToken = token }

// BlogForm is the editable state of a blog post
type BlogForm struct {
	BlogTitle          string `form:"blog_title"`
	BlogTitleTelugu    string `form:"blog_title_telugu"`
	EnglishDescription string `form:"english_description"`
	TeluguDescription  string `form:"telugu_description"`
	ImageURL           string `form:"image_url"`
	FormToken          string `form:"form_token"`
}

// NewBlogForm populates a form from a stored blog post
func NewBlogForm(b *models.Blog) *BlogForm {
	f := &BlogForm{
		BlogTitle:          b.BlogTitle,
		BlogTitleTelugu:    b.BlogTitleTelugu,
		EnglishDescription: b.EnglishDescription,
		TeluguDescription:  b.TeluguDescription,
	}
	if b.ImageURL != nil {
		f.ImageURL = *b.ImageURL
	}
	return f
}

// Record builds the full blog post. A new upload replaces the current
// image; with neither the image is null.
func (f *BlogForm) Record(uploaded []string) models.Blog {
	var image *string
	if n := len(uploaded); n > 0 {
		image = &uploaded[n-1]
	} else if f.ImageURL != "" {
		current := f.ImageURL
		image = &current
	}

	return models.Blog{
		BlogTitle:          f.BlogTitle,
		BlogTitleTelugu:    f.BlogTitleTelugu,
		EnglishDescription: f.EnglishDescription,
		TeluguDescription:  f.TeluguDescription,
		ImageURL:           image,
	}
}

func (f *BlogForm) Images() []string {
	if f.ImageURL == "" {
		return nil
	}
	return []string{f.ImageURL}
}

func (f *BlogForm) DropImage(url string) {
	if f.ImageURL == url {
		f.ImageURL = ""
	}
}

func (f *BlogForm) Token() string         { return f.FormToken }
func (f *BlogForm) SetToken(token string) { f.FormToken = token }
