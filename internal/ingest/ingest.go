package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileResult is the per-file discovery outcome.
type FileResult struct {
	Path        string
	Ext         string
	Size        int64
	HashHex     string
	Duplicate   bool   // same bytes as an earlier file
	DuplicateOf string // path of that earlier file
	Err         string
}

// DirStats summarizes a directory walk.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// CollectDocuments walks root and returns every file whose extension is in
// includeExts (defaults to constants.AllowedExtensions). Files are hashed so
// byte-identical copies are flagged as duplicates of the first one seen.
// Unreadable entries are reported per file; only a failure to walk root at
// all is returned as an error.
func CollectDocuments(ctx context.Context, root string, includeExts []string, skipHidden bool) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, DirStats{}, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, DirStats{}, fmt.Errorf("%s is not a directory", root)
	}

	exts := ExtSet(includeExts)
	seen := map[string]string{}
	var results []FileResult
	var stats DirStats

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		ext := extOf(path)
		if _, ok := exts[ext]; !ok {
			return nil
		}
		stats.Matched++

		res := FileResult{Path: path, Ext: ext}
		sum, size, err := hashFile(path)
		if err != nil {
			res.Err = err.Error()
			results = append(results, res)
			stats.Failed++
			slog.Warn("ingest.hash_failed", "path", path, "error", err)
			return nil
		}
		res.HashHex, res.Size = sum, size
		if first, dup := seen[sum]; dup {
			res.Duplicate, res.DuplicateOf = true, first
			stats.Deduplicated++
		} else {
			seen[sum] = path
		}
		results = append(results, res)
		stats.Succeeded++
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	slog.Debug("ingest.collect.ok",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"duplicates", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
