// Package importer ingests raw geographic point features into typed,
// staged infrastructure nodes. Classification is rule-based; features
// matching no rule are dropped, and a bad record never aborts a batch.
package importer

import (
	"context"

	"github.com/infrascope/infragraph/pkg/geometry"
)

// RawFeature is one tagged point from an external map dataset: an
// external reference id, a free-form key/value tag set and a WGS84
// coordinate pair.
type RawFeature struct {
	Ref      string
	Tags     map[string]string
	Location geometry.Point
}

// Name returns the feature's name tag, or "" when untagged.
func (f RawFeature) Name() string {
	return f.Tags["name"]
}

// FeatureSource yields raw features to a callback. The importer is
// agnostic to the underlying format; the osm package provides the
// OpenStreetMap XML implementation.
type FeatureSource interface {
	Features(ctx context.Context, fn func(RawFeature) error) error
}
