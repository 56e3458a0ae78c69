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

package render

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
	"github.com/passingcircle/passingcircle/pkg/renderctx"
	"github.com/passingcircle/passingcircle/pkg/result"
)

// StageName is the name the renderer reports results under.
const StageName = "render"

// Renderer renders service templates under a project root.
type Renderer struct {
	root     string
	mappings []Mapping
	perm     os.FileMode
	onRender func(Mapping)
}

// Option is a functional option for configuring Renderer instances.
type Option func(*Renderer)

// WithMappings replaces the default template list.
func WithMappings(m []Mapping) Option {
	return func(r *Renderer) {
		r.mappings = m
	}
}

// WithFileMode sets the permissions of rendered files.
func WithFileMode(perm os.FileMode) Option {
	return func(r *Renderer) {
		r.perm = perm
	}
}

// WithRenderHook registers fn to be called after each file is written.
func WithRenderHook(fn func(Mapping)) Option {
	return func(r *Renderer) {
		r.onRender = fn
	}
}

// New returns a Renderer for the project rooted at root.
func New(root string, opts ...Option) *Renderer {
	r := &Renderer{
		root:     root,
		mappings: DefaultMappings(),
		perm:     defaults.FileMode,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mappings returns the template list the renderer works through.
func (r *Renderer) Mappings() []Mapping {
	return r.mappings
}

// Render renders every mapping whose source exists, in order.
// Destinations are overwritten unconditionally. The first failure stops
// the run; files rendered before it stay on disk.
func (r *Renderer) Render(ctx context.Context, values renderctx.Context) (*result.Result, error) {
	start := time.Now()
	res := result.New(StageName)
	defer func() {
		res.Duration = time.Since(start)
	}()

	for _, m := range r.mappings {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("context cancelled: %w", err)
		}

		src := filepath.Join(r.root, m.Source)
		dst := filepath.Join(r.root, m.Destination)

		content, err := os.ReadFile(src)
		if stderrors.Is(err, fs.ErrNotExist) {
			slog.Debug("template absent, skipping", "service", m.Service, "source", m.Source)
			res.AddSkipped(src)
			continue
		}
		if err != nil {
			res.AddError(err)
			return res, errors.WrapWithContext(errors.ErrCodeIO, "failed to read template", err,
				map[string]any{"source": m.Source})
		}

		out, err := Execute(m.Source, string(content), values)
		if err != nil {
			res.AddError(err)
			return res, err
		}

		if err := os.MkdirAll(filepath.Dir(dst), defaults.DirMode); err != nil {
			res.AddError(err)
			return res, errors.WrapWithContext(errors.ErrCodeIO, "failed to create output directory", err,
				map[string]any{"destination": m.Destination})
		}
		if err := os.WriteFile(dst, []byte(out), r.perm); err != nil {
			res.AddError(err)
			return res, errors.WrapWithContext(errors.ErrCodeIO, "failed to write rendered file", err,
				map[string]any{"destination": m.Destination})
		}

		res.AddFile(dst, int64(len(out)))
		if r.onRender != nil {
			r.onRender(m)
		}

		slog.Debug("template rendered",
			"service", m.Service,
			"source", m.Source,
			"destination", m.Destination,
			"size_bytes", len(out),
		)
	}

	res.MarkSuccess()
	return res, nil
}

// Execute renders a single template. References to keys missing from
// values are errors, as is any parse or execution failure.
func Execute(name, content string, values renderctx.Context) (string, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(FuncMap()).
		Parse(content)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeTemplate, "failed to parse template", err,
			map[string]any{"template": name})
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, map[string]any(values)); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeTemplate, "failed to execute template", err,
			map[string]any{"template": name})
	}

	return buf.String(), nil
}

// FuncMap returns the helper functions available to templates.
func FuncMap() template.FuncMap {
	titleCaser := cases.Title(language.English)
	return template.FuncMap{
		"json": toJSON,
		"join": func(sep string, items any) (string, error) {
			list, err := toStrings(items)
			if err != nil {
				return "", err
			}
			return strings.Join(list, sep), nil
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"title": titleCaser.String,
	}
}

// toJSON encodes v as compact JSON, for embedding lists into JSON and YAML outputs.
func toJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func toStrings(items any) ([]string, error) {
	switch t := items.(type) {
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, fmt.Sprint(e))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("join: unsupported type %T", items)
	}
}
