package generator

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

func (g *Generator) resolve(path string) string {
	if filepath.IsAbs(path) || g.config.BaseDir == "" {
		return path
	}
	return filepath.Join(g.config.BaseDir, path)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// commandArgs builds the manage.py arguments for an artifact
func commandArgs(artifact Artifact) []string {
	args := []string{"manage.py", "spectacular"}
	args = append(args, artifact.Flags...)
	return append(args, "--file", artifact.FileName)
}

// moveFile renames src to dst, replacing dst. When a rename is not possible
// (different filesystems) the file is copied and the source removed.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to move %s: %w", src, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s: %w", src, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
