package osm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	impkg "github.com/infrascope/infragraph/pkg/importer"
)

const bankDoc = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="50.0" lon="10.0" version="1">
    <tag k="amenity" v="bank"/>
    <tag k="name" v="Bank of Testing"/>
  </node>
  <node id="2" lat="50.5" lon="10.5" version="1"/>
  <way id="3" version="1">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="residential"/>
  </way>
</osm>`

func collect(t *testing.T, doc string) []impkg.RawFeature {
	t.Helper()
	var out []impkg.RawFeature
	err := Reader{R: strings.NewReader(doc)}.Features(context.Background(), func(f impkg.RawFeature) error {
		out = append(out, f)
		return nil
	})
	if err != nil {
		t.Fatalf("Features failed: %v", err)
	}
	return out
}

func TestReaderYieldsNodes(t *testing.T) {
	features := collect(t, bankDoc)
	if len(features) != 2 {
		t.Fatalf("got %d features, want 2 (ways must not yield)", len(features))
	}

	f := features[0]
	if f.Ref != "1" {
		t.Errorf("Ref = %q, want 1", f.Ref)
	}
	if f.Location.Lon != 10.0 || f.Location.Lat != 50.0 {
		t.Errorf("Location = %+v, want (10, 50)", f.Location)
	}
	if f.Tags["amenity"] != "bank" || f.Name() != "Bank of Testing" {
		t.Errorf("Tags = %v", f.Tags)
	}

	if len(features[1].Tags) != 0 {
		t.Errorf("untagged node carried tags: %v", features[1].Tags)
	}
}

func TestReaderMalformedXML(t *testing.T) {
	err := Reader{R: strings.NewReader("<osm><node id=")}.Features(context.Background(), func(impkg.RawFeature) error {
		return nil
	})
	if err == nil {
		t.Error("expected parse error on truncated document")
	}
}

func TestFeedsImporterDryRun(t *testing.T) {
	var buf bytes.Buffer
	imp := impkg.New(impkg.Options{Out: &buf})

	_, err := imp.Run(context.Background(), Reader{R: strings.NewReader(bankDoc)})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "1\tBank of Testing\tbank\tPOINT(10 50)\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
