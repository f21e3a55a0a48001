package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// GenerateObjectSuffix generates a collision-resistant suffix for object-store
// keys: a base36 timestamp plus random hex. Uniqueness never relies on the
// uploaded file name.
// Example: m1x4k2z9-a1b2c3d4e5f6a7b8
func GenerateObjectSuffix() (string, error) {
	b := make([]byte, 8) // 16 char hex
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return fmt.Sprintf("%s-%s", ts, hex.EncodeToString(b)), nil
}
