package core

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

// CopyFS stages every file under srcRoot of a read-only filesystem into
// dstRoot of a transfer area, preserving the directory layout and, where the
// area supports it, modification times.
//
// "." names the whole source or the area root. Empty directories are created
// too, so a staged tree mirrors the source exactly.
//
// Example:
//
//	area := billy.NewMemory()
//	err := core.CopyFS(os.DirFS("/srv/outbox"), ".", area, "vms/finn")
func CopyFS(src fs.FS, srcRoot string, dst TransferArea, dstRoot string) error {
	if srcRoot == "" {
		srcRoot = "."
	}
	if dstRoot == "" {
		dstRoot = "."
	}

	return fs.WalkDir(src, srcRoot, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel := filePath
		if srcRoot != "." {
			rel = strings.TrimPrefix(strings.TrimPrefix(filePath, srcRoot), "/")
		}
		dstPath := path.Join(dstRoot, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		if d.IsDir() {
			if dstPath == "." {
				return nil
			}
			return dst.MkdirAll(dstPath, 0o755)
		}

		if dir := path.Dir(dstPath); dir != "." {
			if err := dst.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := copyFile(src, filePath, dst, dstPath, info.Mode().Perm()); err != nil {
			return err
		}
		if err := dst.Chtimes(dstPath, info.ModTime(), info.ModTime()); err != nil && !errors.Is(err, ErrUnsupported) {
			return err
		}
		return nil
	})
}

func copyFile(src fs.FS, srcPath string, dst TransferArea, dstPath string, perm fs.FileMode) error {
	in, err := src.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := dst.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
