// Package oma handles the OMA ortholog flat files: the one-time bootstrap
// download of the Bgee archive and the per-file CSV loader.
package oma

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultArchiveURL is the Bgee bulk export of OMA ortholog pairs.
const DefaultArchiveURL = "https://www.bgee.org/ftp/current/homologous_genes/OMA_orthologs.zip"

// EnsureData makes sure the ortholog CSVs are present under <dataDir>/oma,
// downloading and extracting the archive on first use. A populated directory
// is trusted as-is and re-acquisition is skipped; a previously downloaded
// zip is reused without re-fetching.
func EnsureData(ctx context.Context, dataDir, archiveURL string) (string, error) {
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}
	omaDir := filepath.Join(dataDir, "oma")
	if err := os.MkdirAll(omaDir, 0o755); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(omaDir)
	if err != nil {
		return "", err
	}
	if len(entries) > 0 {
		return omaDir, nil
	}

	zipPath := filepath.Join(dataDir, "OMA_orthologs.zip")
	if _, err := os.Stat(zipPath); os.IsNotExist(err) {
		if err := download(ctx, archiveURL, zipPath); err != nil {
			return "", fmt.Errorf("downloading OMA archive: %w", err)
		}
	} else if err != nil {
		return "", err
	}

	if err := unzip(zipPath, omaDir); err != nil {
		return "", fmt.Errorf("extracting OMA archive: %w", err)
	}
	return omaDir, nil
}

func download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	return f.Close()
}

func unzip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, zf := range r.File {
		// Flatten: the archive nests files under a top-level directory.
		name := filepath.Base(zf.Name)
		if zf.FileInfo().IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if err := extractFile(zf, filepath.Join(destDir, name)); err != nil {
			return fmt.Errorf("extracting %s: %w", zf.Name, err)
		}
	}
	return nil
}

func extractFile(zf *zip.File, dest string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
