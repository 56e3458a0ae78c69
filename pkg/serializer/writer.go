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

package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
)

// Format represents the output format for serialized data.
type Format string

const (
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension; .yaml and .yml
// select YAML, anything else JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Writer serializes values to a file it owns.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// NewFileWriter creates a Writer that owns a newly created file at path.
// The format is taken from the file extension. Call Close when done.
func NewFileWriter(path string) (*Writer, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "output path is empty")
	}

	if dir := filepath.Dir(trimmed); dir != "." {
		if err := os.MkdirAll(dir, defaults.DirMode); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to create output directory", err,
				map[string]any{"path": trimmed})
		}
	}

	file, err := os.OpenFile(trimmed, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, defaults.PrivateMode)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to create output file", err,
			map[string]any{"path": trimmed})
	}

	return &Writer{
		format: FormatFromPath(trimmed),
		output: file,
		closer: file,
	}, nil
}

// Format returns the writer's output format.
func (w *Writer) Format() Format {
	return w.format
}

// Close releases the underlying file, if the writer owns one.
func (w *Writer) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Serialize writes v in the writer's format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	switch w.format {
	case FormatJSON:
		return w.serializeJSON(v)
	case FormatYAML:
		return w.serializeYAML(v)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func (w *Writer) serializeJSON(v any) error {
	encoder := json.NewEncoder(w.output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func (w *Writer) serializeYAML(v any) error {
	encoder := yaml.NewEncoder(w.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return encoder.Close()
}

// WriteFile serializes v to a new file at path.
func WriteFile(ctx context.Context, path string, v any) error {
	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}
	if err := w.Serialize(ctx, v); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
