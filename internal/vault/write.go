package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile persists content at absPath, creating missing parent
// directories. An existing file is only replaced when overwrite is true;
// otherwise the call aborts with ErrCodeFileExists and nothing is touched.
// On success it returns the absolute path written.
//
// No partial-write recovery is attempted: a failure mid-write may leave a
// truncated file. Payloads are small notes, not transactional data.
func (v *Vault) WriteFile(absPath string, content []byte, overwrite bool) (string, error) {
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", wrapError(ErrCodeMkdirFailed,
			fmt.Sprintf("creating parent directories: %v", err), absPath, err)
	}

	fi, err := os.Lstat(absPath)
	switch {
	case err == nil && fi.IsDir():
		return "", newError(ErrCodeNotAFile, "target path is a directory")
	case err == nil && !overwrite:
		return "", wrapError(ErrCodeFileExists,
			"file already exists; retry with overwrite enabled to replace it", absPath, nil)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return "", wrapError(ErrCodeWriteFailed,
			fmt.Sprintf("checking existence: %v", err), absPath, err)
	}

	if err := os.WriteFile(absPath, content, 0o644); err != nil {
		return "", wrapError(ErrCodeWriteFailed,
			fmt.Sprintf("writing file: %v", err), absPath, err)
	}
	return absPath, nil
}
