package fixture

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	apperrors "gitlab.com/technofab/duttest/internal/errors"
)

func TestDefaultService_GetPath(t *testing.T) {
	service := NewDefaultService()
	tests := []struct {
		name     string
		suiteDir string
		ref      string
		want     string
	}{
		{"Simple name", "/tmp/suites", "usage.txt", "/tmp/suites/usage.txt"},
		{"Nested reference", "suites", "expected/seven.txt", "suites/expected/seven.txt"},
		{"Parent reference", "./suites/prime", "../shared/usage.txt", "suites/shared/usage.txt"},
		{"Absolute reference", "suites", "/etc/usage.txt", "/etc/usage.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := filepath.FromSlash(tt.want)
			got := service.GetPath(tt.suiteDir, tt.ref)
			if got != want {
				t.Errorf("GetPath() = %v, want %v", got, want)
			}
		})
	}
}

func TestDefaultService_WriteFileAndReadFile(t *testing.T) {
	service := NewDefaultService()
	tempDir := t.TempDir()
	filePath := service.GetPath(tempDir, "nested/usage.txt")
	contents := []byte("Usage:\n\n  primecheck -h\n")

	t.Run("WriteFile", func(t *testing.T) {
		if err := service.WriteFile(filePath, contents); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
		got, err := os.ReadFile(filePath)
		if err != nil {
			t.Fatalf("Failed to read written file: %v", err)
		}
		if string(got) != string(contents) {
			t.Errorf("WriteFile() content mismatch. Got %q, want %q", got, contents)
		}
	})

	t.Run("ReadFile", func(t *testing.T) {
		got, err := service.ReadFile(filePath)
		if err != nil {
			t.Fatalf("ReadFile() failed: %v", err)
		}
		if string(got) != string(contents) {
			t.Errorf("ReadFile() content mismatch. Got %q, want %q", got, contents)
		}
	})

	t.Run("ReadFile_NotExist", func(t *testing.T) {
		_, err := service.ReadFile(service.GetPath(tempDir, "missing.txt"))
		var readErr *apperrors.FileReadError
		if !errors.As(err, &readErr) {
			t.Fatalf("ReadFile() wrong error type, got %T, want *apperrors.FileReadError", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("ReadFile() error should wrap fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("WriteFile_DirIsFile", func(t *testing.T) {
		blocker := filepath.Join(tempDir, "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		err := service.WriteFile(filepath.Join(blocker, "usage.txt"), contents)
		var writeErr *apperrors.FixtureWriteError
		if !errors.As(err, &writeErr) {
			t.Errorf("WriteFile() wrong error type, got %T, want *apperrors.FixtureWriteError", err)
		}
	})
}

func TestDefaultService_Stat(t *testing.T) {
	service := NewDefaultService()
	tempDir := t.TempDir()

	t.Run("File exists", func(t *testing.T) {
		p := filepath.Join(tempDir, "exists.txt")
		if err := os.WriteFile(p, []byte("content"), 0644); err != nil {
			t.Fatal(err)
		}
		fi, err := service.Stat(p)
		if err != nil {
			t.Errorf("Stat() for existing file failed: %v", err)
		}
		if fi == nil || fi.Name() != "exists.txt" {
			t.Errorf("Stat() returned incorrect FileInfo")
		}
	})

	t.Run("File does not exist", func(t *testing.T) {
		p := filepath.Join(tempDir, "notexists.txt")
		_, err := service.Stat(p)
		if !os.IsNotExist(err) {
			t.Errorf("Stat() for non-existing file: got %v, want os.ErrNotExist", err)
		}
	})
}

func TestFSService(t *testing.T) {
	fsys := fstest.MapFS{
		"prime/suite.yaml": {Data: []byte("tests: []\n")},
		"prime/usage.txt":  {Data: []byte("Usage:\n")},
	}
	service := NewFSService(fsys)

	if got := service.GetPath("prime", "usage.txt"); got != "prime/usage.txt" {
		t.Errorf("GetPath() = %q, want %q", got, "prime/usage.txt")
	}

	data, err := service.ReadFile("prime/usage.txt")
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "Usage:\n" {
		t.Errorf("ReadFile() = %q, want %q", data, "Usage:\n")
	}

	if _, err := service.ReadFile("prime/missing.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() for missing file: got %v, want fs.ErrNotExist", err)
	}

	if _, err := service.Stat("prime/suite.yaml"); err != nil {
		t.Errorf("Stat() failed: %v", err)
	}

	if err := service.WriteFile("prime/usage.txt", []byte("new")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("WriteFile() = %v, want ErrReadOnly", err)
	}
}
