package utils

import (
	"github.com/google/uuid"
)

// GenerateAdmissionCode returns the opaque code embedded in a ticket's QR
// payload. A v4 UUID carries 122 bits from crypto/rand, so codes are
// unguessable and collisions are not a practical concern even within a
// single purchase batch. Nothing about the code depends on clocks or
// process state.
func GenerateAdmissionCode() string {
	return uuid.New().String()
}
