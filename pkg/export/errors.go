package export

import "fmt"

// Stage identifies the phase of the export pipeline an error came from.
type Stage string

const (
	// StageAcquisition covers failures of the resource acquisition
	// collaborator (remote fetch, origin file missing).
	StageAcquisition Stage = "acquisition"
	// StageFilesystem covers directory creation, file write, and copy
	// failures inside the cache tree.
	StageFilesystem Stage = "filesystem"
	// StageTemplate covers malformed rendering input, such as a section
	// registered without any pages.
	StageTemplate Stage = "template"
	// StageArchive covers failures of the packaging collaborator.
	StageArchive Stage = "archive"
)

// Error represents a failed export. No error is retried internally; every
// failure aborts the whole Save and carries the stage, the path involved
// (when there is one), and the underlying cause.
type Error struct {
	Stage   Stage
	Path    string
	Err     error
	Message string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("export %s failed: %s: %s", e.Stage, e.Message, e.Path)
	}
	return fmt.Sprintf("export %s failed: %s", e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an export Error for the given stage.
func NewError(stage Stage, err error, message string) *Error {
	return &Error{
		Stage:   stage,
		Err:     err,
		Message: message,
	}
}

func filesystemError(path string, err error, message string) *Error {
	return &Error{
		Stage:   StageFilesystem,
		Path:    path,
		Err:     err,
		Message: message,
	}
}
