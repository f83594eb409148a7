package vault

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolve joins the vault root with a relative directory and filename and
// returns the absolute target path, or ErrCodeOutsideVault when the result
// is not a strict descendant of the root.
//
// Containment is verified here even when Validate already rejected lexical
// traversal: symlinked ancestors can escape in ways lexical checks cannot
// see. Symlinks are resolved on the deepest existing ancestor so that a
// link pointing outside the root is caught even when the leaf (or several
// parent directories) do not exist yet.
func (v *Vault) Resolve(directory, filename string) (string, error) {
	candidate := filepath.Join(v.root, directory, filename)

	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else {
		candidate = resolveExistingAncestor(candidate)
	}

	// Boundary check using filepath.Rel, component-wise: a string-prefix
	// comparison would accept /vault2 as inside /vault.
	rel, err := filepath.Rel(v.root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", wrapError(ErrCodeOutsideVault,
			"requested path resolves outside the vault root", candidate, nil)
	}
	if rel == "." {
		return "", newError(ErrCodeOutsideVault,
			fmt.Sprintf("requested path resolves to the vault root itself: %s", v.root))
	}

	return candidate, nil
}

// resolveDir resolves a relative directory under the root for read-side
// operations. Unlike Resolve it permits the root itself.
func (v *Vault) resolveDir(directory string) (string, error) {
	candidate := filepath.Join(v.root, directory)
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else {
		candidate = resolveExistingAncestor(candidate)
	}
	rel, err := filepath.Rel(v.root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", wrapError(ErrCodeOutsideVault,
			"requested directory resolves outside the vault root", candidate, nil)
	}
	return candidate, nil
}

// resolveExistingAncestor walks up from path until it finds an ancestor
// that can be symlink-resolved, then rejoins the untouched suffix. The
// vault root always exists, so the walk terminates.
func resolveExistingAncestor(path string) string {
	dir := filepath.Dir(path)
	suffix := []string{filepath.Base(path)}
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			parts := append([]string{resolved}, suffix...)
			return filepath.Join(parts...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return path // hit the filesystem root without resolving
		}
		suffix = append([]string{filepath.Base(dir)}, suffix...)
		dir = parent
	}
}
