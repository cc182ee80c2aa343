package events

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	addr := "inproc://events-test-roundtrip"

	p, err := NewPublisher(addr)
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	defer p.Close()

	s, err := NewSubscriber(addr, KindImportCompleted)
	if err != nil {
		t.Fatalf("NewSubscriber failed: %v", err)
	}
	defer s.Close()

	// pub/sub has no handshake; give the subscription a moment to land
	time.Sleep(50 * time.Millisecond)

	sent := Event{
		Kind:  KindImportCompleted,
		RunID: "run-1",
		Area:  "testland",
		Count: 12,
	}
	if err := p.Publish(sent); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	got, err := s.Next(2 * time.Second)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got.Kind != sent.Kind || got.RunID != sent.RunID || got.Area != sent.Area || got.Count != sent.Count {
		t.Errorf("received %+v, want %+v", got, sent)
	}
	if got.Time.IsZero() {
		t.Error("publish should stamp the event time")
	}
}

func TestSubscriberKindFilter(t *testing.T) {
	addr := "inproc://events-test-filter"

	p, err := NewPublisher(addr)
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	defer p.Close()

	s, err := NewSubscriber(addr, KindEdgesBuilt)
	if err != nil {
		t.Fatalf("NewSubscriber failed: %v", err)
	}
	defer s.Close()

	time.Sleep(50 * time.Millisecond)

	if err := p.Publish(Event{Kind: KindImportCompleted, Count: 1}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := p.Publish(Event{Kind: KindEdgesBuilt, Sector: "water", Count: 2}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	got, err := s.Next(2 * time.Second)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got.Kind != KindEdgesBuilt {
		t.Errorf("filter leaked %q", got.Kind)
	}
}
