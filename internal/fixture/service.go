package fixture

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	apperrors "gitlab.com/technofab/duttest/internal/errors"
)

// ErrReadOnly is returned when writing to a fixture source that cannot be modified
var ErrReadOnly = errors.New("fixture source is read-only")

// Service defines file access for suite files and the expectation files they reference
type Service interface {
	GetPath(suiteDir string, ref string) string
	ReadFile(filePath string) ([]byte, error)
	WriteFile(filePath string, data []byte) error
	Stat(name string) (fs.FileInfo, error)
}

// DefaultService works on the local filesystem
type DefaultService struct{}

func NewDefaultService() *DefaultService {
	return &DefaultService{}
}

// GetPath resolves an expectation file reference relative to the suite's directory
func (s *DefaultService) GetPath(suiteDir string, ref string) string {
	ref = filepath.FromSlash(ref)
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(suiteDir, ref)
}

func (s *DefaultService) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &apperrors.FileReadError{Path: filePath, Err: err}
	}
	return data, nil
}

// WriteFile creates or updates an expectation file with the given contents
func (s *DefaultService) WriteFile(filePath string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(filePath), 0777)
	if err != nil {
		return &apperrors.FixtureWriteError{FilePath: filePath, Err: err}
	}

	err = os.WriteFile(filePath, data, 0644)
	if err != nil {
		return &apperrors.FixtureWriteError{FilePath: filePath, Err: err}
	}
	return nil
}

// Stat just wraps os.Stat
func (s *DefaultService) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// FSService serves fixtures from an fs.FS, e.g. suites embedded in the binary
type FSService struct {
	fsys fs.FS
}

func NewFSService(fsys fs.FS) *FSService {
	return &FSService{fsys: fsys}
}

func (s *FSService) GetPath(suiteDir string, ref string) string {
	return path.Join(suiteDir, filepath.ToSlash(ref))
}

func (s *FSService) ReadFile(filePath string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, filePath)
	if err != nil {
		return nil, &apperrors.FileReadError{Path: filePath, Err: err}
	}
	return data, nil
}

func (s *FSService) WriteFile(filePath string, data []byte) error {
	return &apperrors.FixtureWriteError{FilePath: filePath, Err: ErrReadOnly}
}

func (s *FSService) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(s.fsys, name)
}
