package sweep

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Bundle compresses the sweep output directory into {dir}.tar.gz and
// returns the bundle path. The directory itself is left in place.
func Bundle(dir string) (string, error) {
	out := dir + ".tar.gz"
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("sweep: create bundle: %w", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	base := filepath.Base(dir)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(filepath.Join(base, rel))
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("sweep: bundle %s: %w", dir, err)
	}
	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("sweep: bundle %s: %w", dir, err)
	}
	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("sweep: bundle %s: %w", dir, err)
	}
	return out, nil
}
