package store

import (
	"crypto/rand"
	"fmt"
)

// reportIDPrefix marks claim-report identifiers in downstream systems.
const reportIDPrefix = "CLM-"

// NewReportID returns a fresh report identifier: the prefix plus an RFC 4122
// version 4 UUID.
func NewReportID() (string, error) {
	var uuid [16]byte
	if _, err := rand.Read(uuid[:]); err != nil {
		return "", err
	}

	// Set version (4) and variant bits according to RFC 4122
	uuid[6] = (uuid[6] & 0x0f) | 0x40 // Version 4
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // Variant is 10

	return reportIDPrefix + fmt.Sprintf("%x-%x-%x-%x-%x",
		uuid[0:4],
		uuid[4:6],
		uuid[6:8],
		uuid[8:10],
		uuid[10:16]), nil
}
