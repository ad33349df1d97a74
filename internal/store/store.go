// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package store reads and writes schema documents on disk and persists
// schema models after each mutation.
package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dacolabs/datamodel-go/convert"
	"github.com/dacolabs/datamodel-go/internal/config"
	"github.com/dacolabs/datamodel-go/jsonschema"
	"github.com/dacolabs/datamodel-go/schemamodel"
)

// FileStore is a schema document at a fixed path. Files ending in .yaml or
// .yml are YAML, files ending in .json are JSON, and other files use the
// configured format.
type FileStore struct {
	path   string
	format string
	indent int
	log    logrus.FieldLogger

	err error
}

// New returns a store for the file at path. The format follows the file
// extension, .json or .yaml/.yml, and falls back to cfg.Format.
func New(path string, cfg *config.Config, log logrus.FieldLogger) *FileStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &FileStore{path: path, format: config.FormatJSON, indent: 2, log: log.WithField("file", path)}
	if cfg != nil {
		s.format = cfg.Format
		s.indent = cfg.Indent
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s.format = config.FormatYAML
	case ".json":
		s.format = config.FormatJSON
	}
	return s
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string { return s.path }

// Load reads and decodes the schema document.
func (s *FileStore) Load() (*jsonschema.Schema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", s.path)
	}
	var schema jsonschema.Schema
	if s.format == config.FormatYAML {
		err = yaml.Unmarshal(data, &schema)
	} else {
		err = json.Unmarshal(data, &schema)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", s.path)
	}
	return &schema, nil
}

// LoadModel reads the schema document and builds its schema model.
func (s *FileStore) LoadModel() (*schemamodel.SchemaModel, error) {
	schema, err := s.Load()
	if err != nil {
		return nil, err
	}
	nodes, err := convert.BuildUISchema(schema)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build schema model from %s", s.path)
	}
	m, err := schemamodel.FromArray(nodes)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build schema model from %s", s.path)
	}
	s.log.WithField("nodes", m.Len()).Debug("schema model loaded")
	return m, nil
}

// Write encodes schema and replaces the file contents.
func (s *FileStore) Write(schema *jsonschema.Schema) error {
	data, err := s.encode(schema)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", s.path)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", s.path)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", s.path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to write %s", s.path)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "failed to write %s", s.path)
	}
	return nil
}

func (s *FileStore) encode(schema *jsonschema.Schema) ([]byte, error) {
	var buf bytes.Buffer
	if s.format == config.FormatYAML {
		enc := yaml.NewEncoder(&buf)
		if s.indent > 0 {
			enc.SetIndent(s.indent)
		}
		if err := enc.Encode(schema); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	if err := json.Indent(&buf, data, "", strings.Repeat(" ", s.indent)); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// SaveFunc returns a function that writes a model back to the file. A
// SaveFunc cannot return an error, so the first failure is kept for Err.
func (s *FileStore) SaveFunc() schemamodel.SaveFunc {
	return func(m *schemamodel.SchemaModel) {
		schema, err := convert.BuildJSONSchema(m.AsArray())
		if err == nil {
			err = s.Write(schema)
		}
		if err != nil {
			s.log.WithError(err).Error("failed to save schema model")
			if s.err == nil {
				s.err = err
			}
			return
		}
		s.log.Debug("schema model saved")
	}
}

// Err returns the first error met by a SaveFunc.
func (s *FileStore) Err() error { return s.err }
