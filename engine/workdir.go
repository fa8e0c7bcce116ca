package engine

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DirWorkingDirectory is the concrete WorkingDirectory: a per-target-file
// artifact directory rooted alongside the target file, with uuid-suffixed
// unique names for scratch files, grounded on the teacher's
// streamer.Pipe.CreateIpcPipe uuid-naming idiom.
type DirWorkingDirectory struct {
	cwd  string
	root string
}

// NewDirWorkingDirectory creates (if missing) a working directory under
// root named after targetFile's base name, and returns a WorkingDirectory
// rooted there. cwd is recorded as the process's resolved current
// directory at construction time, matching step.py's
// `self.wd._cwd == Path(".").resolve()` invariant check.
func NewDirWorkingDirectory(root, targetFile string) (*DirWorkingDirectory, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(root, filepath.Base(targetFile)+"."+uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirWorkingDirectory{cwd: cwd, root: dir}, nil
}

func (d *DirWorkingDirectory) Cwd() string { return d.cwd }

// NewFile returns a path within the working directory for name. Unlike
// Pipe's uuid-in-name scheme, step-produced artifact names are already
// disambiguated by stream index and suffix (per step.go's newFileName), so
// no further uniquing is applied here.
func (d *DirWorkingDirectory) NewFile(name string) string {
	return filepath.Join(d.root, name)
}

func (d *DirWorkingDirectory) GetFile(name string) string {
	return filepath.Join(d.root, name)
}
