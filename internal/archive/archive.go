// Package archive packs a generated project directory into a zip file.
package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/diagram-to-project/generator/internal/result"
)

// PackagingError reports a failure to produce the archive.
type PackagingError struct {
	Target string
	Err    error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("packaging %s: %v", e.Target, e.Err)
}

func (e *PackagingError) Unwrap() error {
	return e.Err
}

// ErrorCode implements result.Coder.
func (e *PackagingError) ErrorCode() result.Code {
	return result.PackagingError
}

// Archive writes every file and directory under sourceDir into a zip at targetPath,
// with entry names relative to sourceDir. Directories get their own entries so empty
// ones survive. It returns targetPath.
func Archive(sourceDir, targetPath string) (string, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return "", &PackagingError{Target: targetPath, Err: err}
	}
	if !info.IsDir() {
		return "", &PackagingError{Target: targetPath, Err: fmt.Errorf("%s is not a directory", sourceDir)}
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return "", &PackagingError{Target: targetPath, Err: err}
	}

	out, err := os.Create(targetPath)
	if err != nil {
		return "", &PackagingError{Target: targetPath, Err: err}
	}
	if err := Write(out, sourceDir, targetPath); err != nil {
		_ = out.Close()
		_ = os.Remove(targetPath)
		return "", &PackagingError{Target: targetPath, Err: err}
	}
	if err := out.Close(); err != nil {
		return "", &PackagingError{Target: targetPath, Err: err}
	}
	if _, err := os.Stat(targetPath); err != nil {
		return "", &PackagingError{Target: targetPath, Err: fmt.Errorf("archive missing after close: %w", err)}
	}
	return targetPath, nil
}

// Write streams the zip of sourceDir to w. A path equal to skip (the archive being
// written, when it lives inside sourceDir) is left out.
func Write(w io.Writer, sourceDir, skip string) error {
	zw := zip.NewWriter(w)
	absSkip, _ := filepath.Abs(skip)

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if abs, _ := filepath.Abs(path); skip != "" && abs == absSkip {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			hdr.Name += "/"
			hdr.Method = zip.Store
			_, err = zw.CreateHeader(hdr)
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		hdr.Method = zip.Deflate
		dst, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		return copyFile(dst, path)
	})
	if err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

func copyFile(dst io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(dst, f)
	return err
}

// Entries lists the entry names of a zip file in archive order.
func Entries(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// Name returns the archive file name for a project: "demo" -> "demo.zip".
func Name(project string) string {
	return strings.TrimSuffix(project, ".zip") + ".zip"
}
