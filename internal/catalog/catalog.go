// Package catalog imports club discount definitions from YAML catalogue files
// stored on the local file system or in S3.
package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"

	"fedkart/internal/model"

	"gopkg.in/yaml.v3"
)

// Loader defines the interface for loading discount catalogue files.
type Loader interface {
	// Load reads a catalogue file and returns the discounts it defines.
	// Files whose name ends in .gz are gzip-decompressed first.
	Load(ctx context.Context, path string) ([]model.Discount, error)
}

// document is the top-level shape of a catalogue file.
type document struct {
	Discounts []model.Discount `yaml:"discounts"`
}

// decode parses a catalogue from r.
func decode(r io.Reader, name string) ([]model.Discount, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return []model.Discount{}, nil
		}
		return nil, fmt.Errorf("failed to parse catalogue %s: %w", name, err)
	}

	if doc.Discounts == nil {
		return []model.Discount{}, nil
	}
	return doc.Discounts, nil
}
