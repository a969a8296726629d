/*
Package randx generates the random identifiers used by the content store.
*/
package randx

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectKey builds a collision-free storage key for an uploaded file,
// grouped under dir (e.g. "images", "videos", "files"). The original file
// name contributes only its extension; the body of the key is a UUID.
func ObjectKey(dir string, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))

	return fmt.Sprintf("%s/%s%s", dir, uuid.New().String(), ext)
}
