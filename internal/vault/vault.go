package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultForbidden is the default set of characters rejected in filenames.
// The first three are load-bearing for safety; the rest keep note names
// portable across platforms and note-taking apps.
const DefaultForbidden = "/\\\x00:*?\"<>|#^[]"

// Vault is a bounded root directory plus the validation policy for writes
// under it. Construct one per configured root; it holds no mutable state
// and is safe for concurrent use.
type Vault struct {
	root      string
	forbidden string
}

// New returns a Vault rooted at root. The root must exist and be a
// directory; it is made absolute and symlink-resolved up front so that
// later containment checks are reliable. An empty forbidden set selects
// DefaultForbidden.
func New(root, forbidden string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("abs(root): %w", err)
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault root %s: %w", abs, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", abs)
	}
	if forbidden == "" {
		forbidden = DefaultForbidden
	}
	return &Vault{root: abs, forbidden: forbidden}, nil
}

// Root returns the absolute, symlink-resolved vault root.
func (v *Vault) Root() string { return v.root }

// Write is the aggregate entry point: Validate, Resolve, WriteFile in
// sequence, failing fast on the first denial. On success it returns the
// absolute path written.
func (v *Vault) Write(req WriteRequest) (string, error) {
	if err := v.Validate(req.Directory, req.Filename); err != nil {
		return "", err
	}
	abs, err := v.Resolve(req.Directory, req.Filename)
	if err != nil {
		return "", err
	}
	return v.WriteFile(abs, req.Content, req.Overwrite)
}
