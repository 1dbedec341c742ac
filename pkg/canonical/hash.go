package canonical

import (
	"github.com/opencontainers/go-digest"
)

// Hash returns the hex SHA-256 digest of a canonical serialisation. It is used
// for equality testing only.
func Hash(canonical string) string {
	return digest.FromString(canonical).Encoded()
}
