// accounts.go
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

package testenv

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/localnerve/authorizer-go"
)

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GeneratePassword generates a 10 character password with a capital, a
// number and a special char
func GeneratePassword() string {
	const (
		lower   = "abcdefghijklmnopqrstuvwxyz"
		upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		special = "!@#$%^&*"
		numbers = "0123456789"
		all     = lower + upper + special + numbers
	)

	password := make([]byte, 10)
	password[0] = upper[randInt(len(upper))]
	password[1] = special[randInt(len(special))]
	password[2] = numbers[randInt(len(numbers))]

	for i := 3; i < 10; i++ {
		password[i] = all[randInt(len(all))]
	}

	for i := range password {
		j := randInt(len(password))
		password[i], password[j] = password[j], password[i]
	}

	return string(password)
}

// SeedAccount signs up email with roles so a later magic link login for
// that address carries them. An existing account is left as is.
func SeedAccount(authzURL, clientID, email string, roles []string) error {
	client, err := authorizer.NewAuthorizerClient(clientID, authzURL, "", nil)
	if err != nil {
		return fmt.Errorf("failed to create authorizer client: %w", err)
	}

	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	password := GeneratePassword()
	_, err = client.SignUp(&authorizer.SignUpInput{
		Email:           &email,
		Password:        password,
		ConfirmPassword: password,
		Roles:           rolesPtrs,
	})
	if err != nil {
		logMessage(nil, "Signup for %s failed (might already exist): %v", email, err)
	}
	return nil
}
