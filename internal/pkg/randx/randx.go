/*
Package randx provides functions for generating unique identifiers and random display names.

Message identifiers are standard UUID v4 strings; display names combine a fixed prefix
with cryptographically secure random Base62 characters.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))
)

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// UserID generates a standard UUID v4 string to serve as a unique identifier for a user account.
func UserID() string {
	return uuid.New().String()
}

// DisplayName generates a random display name with a "User_" prefix and 6 random Base62 characters.
// Used when a registration payload carries no name.
func DisplayName() (string, error) {
	const randomLength = 6
	result := make([]byte, randomLength)

	for i := 0; i < randomLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for display name: %v", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return "User_" + string(result), nil
}
