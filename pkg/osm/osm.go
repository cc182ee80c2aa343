// Package osm reads point features from OpenStreetMap XML extracts.
// It implements the importer's feature-source boundary: only <node>
// elements matter here, ways and relations pass through untouched.
package osm

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/infrascope/infragraph/pkg/geometry"
	"github.com/infrascope/infragraph/pkg/importer"
)

// nodeElement is the wire shape of an OSM <node>.
type nodeElement struct {
	ID   string  `xml:"id,attr"`
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Tags []struct {
		K string `xml:"k,attr"`
		V string `xml:"v,attr"`
	} `xml:"tag"`
}

// File is a FeatureSource over an .osm file on disk.
type File struct {
	Path string
}

// Features streams the file's nodes through fn.
func (f File) Features(ctx context.Context, fn func(importer.RawFeature) error) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer file.Close()
	return decode(ctx, file, fn)
}

// Reader is a FeatureSource over an already-open OSM XML stream.
type Reader struct {
	R io.Reader
}

// Features streams the reader's nodes through fn.
func (r Reader) Features(ctx context.Context, fn func(importer.RawFeature) error) error {
	return decode(ctx, r.R, fn)
}

func decode(ctx context.Context, r io.Reader, fn func(importer.RawFeature) error) error {
	dec := xml.NewDecoder(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parsing osm xml: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "node" {
			continue
		}

		var el nodeElement
		if err := dec.DecodeElement(&el, &se); err != nil {
			return fmt.Errorf("parsing osm node: %w", err)
		}

		tags := make(map[string]string, len(el.Tags))
		for _, t := range el.Tags {
			tags[t.K] = t.V
		}

		feature := importer.RawFeature{
			Ref:      el.ID,
			Tags:     tags,
			Location: geometry.Point{Lon: el.Lon, Lat: el.Lat},
		}
		if err := fn(feature); err != nil {
			return err
		}
	}
}
