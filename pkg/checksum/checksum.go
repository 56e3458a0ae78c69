// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checksum

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
)

// Entry is one line of a manifest.
type Entry struct {
	Sum  string
	Path string
}

// Generate writes a sha256sum-compatible manifest for files to dest.
// Paths in the manifest are relative to root when possible.
func Generate(ctx context.Context, root, dest string, files []string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	lines := make([]string, 0, len(files))

	for _, file := range files {
		sum, err := SumFile(file)
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, file)
		if err != nil {
			// If relative path fails, use absolute path
			relPath = file
		}

		lines = append(lines, fmt.Sprintf("%s  %s", sum, relPath))
	}

	if err := os.MkdirAll(filepath.Dir(dest), defaults.DirMode); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to create checksum directory", err,
			map[string]any{"path": dest})
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(dest, []byte(content), defaults.PrivateMode); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to write checksums", err,
			map[string]any{"path": dest})
	}

	slog.Debug("checksums generated",
		"file_count", len(lines),
		"path", dest,
	)

	return nil
}

// SumFile returns the hex sha256 of a file's contents.
func SumFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO, "failed to read file for checksum", err,
			map[string]any{"path": path})
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// Read parses a manifest written by Generate.
func Read(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to read checksums", err,
			map[string]any{"path": path})
	}

	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if line == "" {
			continue
		}
		sum, file, ok := strings.Cut(line, "  ")
		if !ok || len(sum) != sha256.Size*2 {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "malformed checksum line",
				map[string]any{"path": path, "line": n})
		}
		entries = append(entries, Entry{Sum: sum, Path: file})
	}
	return entries, nil
}

// Changed returns the manifest paths whose current contents differ from
// the recorded sum, including files that no longer exist.
func Changed(root string, entries []Entry) []string {
	var changed []string
	for _, e := range entries {
		p := e.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		sum, err := SumFile(p)
		if err != nil || sum != e.Sum {
			changed = append(changed, e.Path)
		}
	}
	return changed
}
