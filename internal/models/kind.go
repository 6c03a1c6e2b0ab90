// kind.go
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

// Kind names a record kind. It determines the collection and the bucket
// used for every store operation on records of that kind.
type Kind string

const (
	KindProperty Kind = "property"
	KindBlog     Kind = "blog"
)

// Collection returns the table holding records of this kind.
func (k Kind) Collection() string {
	switch k {
	case KindProperty:
		return "properties"
	case KindBlog:
		return "blogs"
	}
	return ""
}

// Bucket returns the object storage bucket holding images for this kind.
func (k Kind) Bucket() string {
	switch k {
	case KindProperty:
		return "property-images"
	case KindBlog:
		return "blog-images"
	}
	return ""
}

// Path returns the listing route for this kind.
func (k Kind) Path() string {
	return "/" + k.Collection()
}

// Kinds lists every record kind the console manages.
func Kinds() []Kind {
	return []Kind{KindProperty, KindBlog}
}
