package document

import (
	"errors"
	"fmt"
	"strings"
)

const (
	KeyMatches = "matches"
	KeyScorers = "scorers"
)

var ErrInvalidKey = errors.New("invalid document key")

// Snapshot is the full value stored under a key at one version. Exists is
// false for a key that was never written.
type Snapshot struct {
	Key     string
	Value   []byte
	Version int64
	Exists  bool
}

func (s Snapshot) Clone() Snapshot {
	s.Value = append([]byte(nil), s.Value...)
	return s
}

func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" || key != strings.TrimSpace(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
