// Package snapshot persists feature-collection extracts of the graph:
// local files with optional snappy compression, and S3 publication for
// downstream map consumers.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"

	"github.com/infrascope/infragraph/pkg/geojson"
)

// CompressedSuffix marks snappy-compressed snapshot files.
const CompressedSuffix = ".sz"

// Write JSON-encodes a feature collection to w.
func Write(w io.Writer, fc *geojson.FeatureCollection) error {
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		return fmt.Errorf("encoding feature collection: %w", err)
	}
	return nil
}

// Encode returns the feature collection as JSON bytes, snappy-block
// compressed when compress is set.
func Encode(fc *geojson.FeatureCollection, compress bool) ([]byte, error) {
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("encoding feature collection: %w", err)
	}
	if compress {
		data = snappy.Encode(nil, data)
	}
	return data, nil
}

// Decode reads a snapshot produced by Encode. Compression is detected
// from the path suffix by ReadFile; here the caller states it.
func Decode(data []byte, compressed bool) (*geojson.FeatureCollection, error) {
	if compressed {
		var err error
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("decompressing snapshot: %w", err)
		}
	}
	fc := &geojson.FeatureCollection{}
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("decoding feature collection: %w", err)
	}
	return fc, nil
}

// WriteFile writes a snapshot to path. With compress set the
// CompressedSuffix is appended unless already present.
func WriteFile(path string, fc *geojson.FeatureCollection, compress bool) (string, error) {
	if compress && !strings.HasSuffix(path, CompressedSuffix) {
		path += CompressedSuffix
	}

	data, err := Encode(fc, compress)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return path, nil
}

// ReadFile loads a snapshot written by WriteFile, detecting compression
// from the file suffix.
func ReadFile(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return Decode(data, strings.HasSuffix(path, CompressedSuffix))
}
