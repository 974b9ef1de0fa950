package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, so email
// logs read back in the order they were written.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
