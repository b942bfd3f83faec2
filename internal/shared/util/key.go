package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// OwnerNamespace returns a stable, filesystem-safe directory name for a user ID.
// Raw IDs such as "google:123" never appear in storage paths.
func OwnerNamespace(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}

// ObjectKey builds the slash-separated storage key for an uploaded product image:
// <owner namespace>/<random id>_<sanitized name>.
func ObjectKey(userID, fileName string) (string, error) {
	name, err := SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return OwnerNamespace(userID) + "/" + uuid.NewString() + "_" + name, nil
}
