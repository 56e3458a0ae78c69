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

package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/passingcircle/passingcircle/pkg/defaults"
	"github.com/passingcircle/passingcircle/pkg/errors"
)

const secretsKey = "secrets"

// Store owns the configuration document for one provisioning run.
//
// The parsed YAML node tree is kept alongside the typed Document so that a
// rewrite only changes the values that were set; key order and comments
// written by the operator survive.
//
// Thread-safety: Store is not safe for concurrent use. A run owns its Store.
type Store struct {
	path string
	root *yaml.Node
	doc  *Document
}

// Load reads and parses the configuration document at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapWithContext(errors.ErrCodeNotFound,
				"configuration document not found", err, map[string]any{"path": path})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeIO,
			"failed to read configuration document", err, map[string]any{"path": path})
	}

	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	s.path = path

	slog.Debug("configuration loaded",
		"path", path,
		"rooms", len(s.doc.Rooms),
		"admins", len(s.doc.Admins),
	)

	return s, nil
}

// Parse builds a Store from document bytes. The returned Store has no path;
// Save fails until one is set with SetPath.
func Parse(data []byte) (*Store, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to parse configuration document", err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New(errors.ErrCodeConfig, "configuration document is empty")
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrCodeConfig, "configuration document must be a mapping")
	}

	doc, err := decode(&root)
	if err != nil {
		return nil, err
	}

	return &Store{root: &root, doc: doc}, nil
}

func decode(root *yaml.Node) (*Document, error) {
	var doc Document
	if err := root.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "invalid configuration document", err)
	}

	var raw struct {
		Rooms []map[string]any `yaml:"rooms"`
	}
	if err := root.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "invalid rooms list", err)
	}
	doc.rawRooms = raw.Rooms

	if doc.Secrets == nil {
		doc.Secrets = make(map[string]string)
	}

	return &doc, nil
}

// Path returns the file the store was loaded from.
func (s *Store) Path() string {
	return s.path
}

// SetPath sets the file Save writes to.
func (s *Store) SetPath(path string) {
	s.path = path
}

// Document returns the typed document. Callers must not mutate it directly;
// secrets are changed through SetSecret so the node tree stays in step.
func (s *Store) Document() *Document {
	return s.doc
}

// SetSecret sets a secret value in both the typed view and the node tree,
// creating the secrets mapping if the document has none.
func (s *Store) SetSecret(name, value string) {
	s.doc.Secrets[name] = value

	top := s.root.Content[0]
	secrets := mappingValue(top, secretsKey)
	switch {
	case secrets == nil:
		secrets = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		top.Content = append(top.Content, scalar(secretsKey), secrets)
	case secrets.Kind != yaml.MappingNode:
		// "secrets:" with no value parses as a null scalar.
		*secrets = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	case len(secrets.Content) == 0:
		// "secrets: {}" would otherwise stay in flow style once filled.
		secrets.Style = 0
	}

	if v := mappingValue(secrets, name); v != nil {
		// Keep comments attached to the existing value.
		v.Kind = yaml.ScalarNode
		v.Tag = "!!str"
		v.Style = 0
		v.Value = value
		v.Content = nil
		return
	}
	secrets.Content = append(secrets.Content, scalar(name), scalar(value))
}

// Save writes the document back to its path, replacing the file atomically.
func (s *Store) Save() error {
	if s.path == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "configuration store has no path")
	}

	data, err := s.Marshal()
	if err != nil {
		return err
	}

	mode := defaults.ConfigMode
	if info, statErr := os.Stat(s.path); statErr == nil {
		mode = info.Mode().Perm()
	}

	if err := writeFileAtomic(s.path, data, mode); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO,
			"failed to save configuration document", err, map[string]any{"path": s.path})
	}

	slog.Debug("configuration saved", "path", s.path, "size_bytes", len(data))
	return nil
}

// Marshal renders the document as YAML.
func (s *Store) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to serialize configuration document", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to serialize configuration document", err)
	}
	return buf.Bytes(), nil
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}
