package vault

// WriteRequest describes a single file mutation inside the vault. It is
// constructed by the caller for one operation and discarded afterwards;
// validation and resolution derive new values rather than mutate it.
type WriteRequest struct {
	// Directory is a relative path fragment under the vault root.
	// Empty means the root itself.
	Directory string
	// Filename is the leaf name of the target file. Must be non-empty
	// and free of path separators.
	Filename string
	// Content is persisted byte-for-byte; text callers pass UTF-8.
	Content []byte
	// Overwrite permits replacing an existing file at the resolved path.
	Overwrite bool
}
