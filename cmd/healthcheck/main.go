// main.go
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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/localnerve/realty-admin/internal/config"
	"github.com/localnerve/realty-admin/internal/database"
	"github.com/localnerve/realty-admin/internal/services"
)

func main() {
	quiet := flag.Bool("q", false, "print only the overall status")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to the record store
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Check the record store, the Authorizer and object storage
	result := services.HealthCheck(cfg, db)
	database.Close(db)

	if *quiet {
		fmt.Println(result.Status)
	} else {
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal health check result: %v", err)
		}
		fmt.Println(string(output))
	}

	if result.Status != "healthy" {
		os.Exit(1)
	}
}
