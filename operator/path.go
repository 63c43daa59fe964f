package operator

import (
	"path"
	"strings"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// normalizePath canonicalizes a caller-supplied path into the internal
// form: "" for root, "a/b.txt" for objects, "a/b/" for directories. A path
// which resolves above the root is rejected.
func normalizePath(p string) (string, error) {
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", nil
	}
	trailing := strings.HasSuffix(p, "/")

	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", unistore.Errf(unistore.KindInvalidInput, "path %q escapes the root", p)
	}
	if cleaned == "." {
		return "", nil
	}
	if trailing {
		cleaned += "/"
	}
	return cleaned, nil
}

// normalizeDir canonicalizes a path which must denote a directory.
func normalizeDir(p string) (string, error) {
	cleaned, err := normalizePath(p)
	if err != nil {
		return "", err
	}
	if cleaned != "" && !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	return cleaned, nil
}

// isRoot reports whether a normalized path denotes the root.
func isRoot(p string) bool {
	return p == "" || p == "/"
}
