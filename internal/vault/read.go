package vault

import "os"

// ReadFile reads a file through the same Validate+Resolve pipeline as
// writes. Directories are rejected with ErrCodeNotAFile. I/O failures on
// the read itself are returned as-is; only policy denials carry codes.
func (v *Vault) ReadFile(directory, filename string) ([]byte, error) {
	if err := v.Validate(directory, filename); err != nil {
		return nil, err
	}
	abs, err := v.Resolve(directory, filename)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, newError(ErrCodeNotAFile, "path is a directory")
	}

	return os.ReadFile(abs)
}

// List returns the non-recursive entries of a relative directory under the
// vault root, with subdirectories suffixed by "/". An empty directory
// lists the root.
func (v *Vault) List(directory string) ([]string, error) {
	if err := v.validateDirectory(directory); err != nil {
		return nil, err
	}
	abs, err := v.resolveDir(directory)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return names, nil
}
