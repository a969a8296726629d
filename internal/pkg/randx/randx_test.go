package randx

import (
	"strings"
	"testing"
)

func TestObjectKeyShape(t *testing.T) {
	key := ObjectKey("images", "Holiday Photo.JPG")

	if !strings.HasPrefix(key, "images/") {
		t.Errorf("key %q not grouped under images/", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key %q must keep the lowercased extension", key)
	}
	if strings.Contains(key, "Holiday") {
		t.Errorf("key %q leaks the original file name", key)
	}
}

func TestObjectKeyWithoutExtension(t *testing.T) {
	key := ObjectKey("files", "README")

	if !strings.HasPrefix(key, "files/") {
		t.Errorf("key %q not grouped under files/", key)
	}
	if strings.Contains(key, ".") {
		t.Errorf("key %q has an extension for an extension-less name", key)
	}
}

func TestObjectKeyIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key := ObjectKey("files", "doc.pdf")
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = struct{}{}
	}
}
