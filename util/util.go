package util

import (
	"io"
	"os"
	"path/filepath"
)

// FileMode is the default FileMode used when creating files.
const FileMode = 0664

// DirMode is the default FileMode used when creating directories.
const DirMode = 0775

// FileExists checks whether some file exists.
func FileExists(file string) bool {
	stat, err := os.Stat(file)
	return err == nil && !stat.IsDir()
}

// DirExists checks whether some directory exists.
func DirExists(dir string) bool {
	stat, err := os.Stat(dir)
	return err == nil && stat.IsDir()
}

// EnsureDir creates `dir` and all of its parents if they do not exist yet.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, DirMode)
}

// WriteFileAtomic writes `data` to a temporary file next to `file` and renames it into place,
// so readers never observe a partially written file.
func WriteFileAtomic(file string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, FileMode); err != nil {
		return err
	}
	return os.Rename(tmpName, file)
}

// CopyFile copies a file from `sourceFile` to `destFile`, creating the destination directory if needed.
func CopyFile(sourceFile, destFile string) error {
	if err := EnsureDir(filepath.Dir(destFile)); err != nil {
		return err
	}
	src, err := os.Open(sourceFile)
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	return WriteFileAtomic(destFile, data)
}

// MoveFile moves `sourceFile` to `destFile`. An existing `destFile` is removed first.
// Falls back to copy and delete when a rename across file systems is not possible.
func MoveFile(sourceFile, destFile string) error {
	if FileExists(destFile) {
		if err := os.Remove(destFile); err != nil {
			return err
		}
	}
	if err := os.Rename(sourceFile, destFile); err == nil {
		return nil
	}
	if err := CopyFile(sourceFile, destFile); err != nil {
		return err
	}
	return os.Remove(sourceFile)
}
