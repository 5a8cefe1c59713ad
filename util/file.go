package util

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates the directory for the given file path if needed.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), os.ModePerm)
}

// WriteToFile writes the given lines to a file, creating parent directories.
func WriteToFile(savePath string, content ...string) error {
	if err := EnsureDir(savePath); err != nil {
		return err
	}
	return os.WriteFile(savePath, []byte(strings.Join(content, "\n")+"\n"), 0644)
}

// AppendToFile appends the given lines to a file, creating it and its parent
// directories when missing.
func AppendToFile(savePath string, content ...string) error {
	if err := EnsureDir(savePath); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}
