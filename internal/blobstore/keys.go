// keys.go
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

package blobstore

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

// StorageKey prefixes the original file name with the upload time in
// milliseconds. Directory parts sent by the browser are dropped. A non
// zero seq tells apart files of one submit that share a name and a
// millisecond.
func StorageKey(now time.Time, filename string, seq int) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if seq > 0 {
		return fmt.Sprintf("%d-%d_%s", now.UnixMilli(), seq, name)
	}
	return fmt.Sprintf("%d_%s", now.UnixMilli(), name)
}

// KeyFromURL derives the storage key from the last path segment of a
// public URL.
func KeyFromURL(publicURL string) string {
	segment := publicURL[strings.LastIndex(publicURL, "/")+1:]
	if key, err := url.PathUnescape(segment); err == nil {
		return key
	}
	return segment
}
