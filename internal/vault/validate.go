package vault

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate applies the lexical safety rules to a directory/filename pair.
// Rules run in order and the first failure wins. Pure: no filesystem
// access, same inputs always yield the same verdict.
func (v *Vault) Validate(directory, filename string) error {
	if filename == "" {
		return newError(ErrCodeEmptyFilename, "filename must not be empty")
	}

	// OS-independent absolute check: filepath.IsAbs plus leading
	// separators the current platform may not treat as absolute.
	if filepath.IsAbs(filename) || strings.HasPrefix(filename, "/") || strings.HasPrefix(filename, "\\") {
		return newError(ErrCodeAbsolutePath, "filename must be a relative leaf name, not an absolute path")
	}

	if bad := forbiddenIn(filename, v.forbidden); bad != "" {
		return newError(ErrCodeForbiddenCharacter,
			fmt.Sprintf("filename contains forbidden character(s): %s", bad))
	}

	if filename == "." || filename == ".." {
		return newError(ErrCodePathTraversal, "filename must name a file, not a directory reference")
	}

	return v.validateDirectory(directory)
}

// validateDirectory applies the lexical rules for the directory fragment
// alone. Empty means the vault root and is always legal.
func (v *Vault) validateDirectory(directory string) error {
	if directory == "" {
		return nil
	}
	if filepath.IsAbs(directory) || strings.HasPrefix(directory, "/") || strings.HasPrefix(directory, "\\") {
		return newError(ErrCodePathTraversal, "directory must be relative to the vault root")
	}
	if strings.ContainsRune(directory, 0) {
		return newError(ErrCodeForbiddenCharacter, "directory contains a NUL byte")
	}
	// Normalise first so interior "a/../b" segments that stay inside the
	// root remain legal; only escapes that survive cleaning fail.
	clean := filepath.ToSlash(filepath.Clean(directory))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return newError(ErrCodePathTraversal,
			fmt.Sprintf("directory %q escapes the vault root", directory))
	}
	return nil
}

// forbiddenIn returns a printable listing of the forbidden characters
// present in name, or "" when the name is clean.
func forbiddenIn(name, forbidden string) string {
	var found []string
	for _, r := range name {
		if strings.ContainsRune(forbidden, r) {
			q := fmt.Sprintf("%q", string(r))
			present := false
			for _, f := range found {
				if f == q {
					present = true
					break
				}
			}
			if !present {
				found = append(found, q)
			}
		}
	}
	return strings.Join(found, ", ")
}
