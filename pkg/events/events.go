// Package events broadcasts pipeline completion notices over a mangos
// pub socket, so map frontends and downstream jobs can react to fresh
// imports without polling the database.
package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// Register all transports (tcp, ipc, inproc).
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// Event kinds.
const (
	KindImportCompleted = "import_completed"
	KindEdgesBuilt      = "edges_built"
)

// Event is one pipeline completion notice.
type Event struct {
	Kind   string    `json:"kind"`
	RunID  string    `json:"run_id,omitempty"`
	Area   string    `json:"area,omitempty"`
	Sector string    `json:"sector,omitempty"`
	Count  int       `json:"count"`
	Time   time.Time `json:"time"`
}

// Wire format: kind, pipe, JSON body. Subscribers filter on the kind
// prefix.
const topicSep = '|'

// Publisher owns the pub side of the socket.
type Publisher struct {
	sock mangos.Socket
}

// NewPublisher listens on addr (e.g. "tcp://127.0.0.1:40899" or
// "inproc://infragraph-events").
func NewPublisher(addr string) (*Publisher, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("creating pub socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	return &Publisher{sock: sock}, nil
}

// Publish broadcasts one event. Publication is best-effort by design:
// a slow or absent subscriber must never stall the pipeline, so send
// failures surface as errors for the caller to log, not to abort on.
func (p *Publisher) Publish(e Event) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	msg := make([]byte, 0, len(e.Kind)+1+len(body))
	msg = append(msg, e.Kind...)
	msg = append(msg, topicSep)
	msg = append(msg, body...)

	if err := p.sock.Send(msg); err != nil {
		return fmt.Errorf("publishing %s: %w", e.Kind, err)
	}
	return nil
}

// Close shuts the socket down.
func (p *Publisher) Close() error {
	return p.sock.Close()
}

// Subscriber receives events of one kind, or all kinds with "".
type Subscriber struct {
	sock mangos.Socket
}

// NewSubscriber dials addr and subscribes to the kind prefix.
func NewSubscriber(addr, kind string) (*Subscriber, error) {
	sock, err := sub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("creating sub socket: %w", err)
	}
	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	if err := sock.SetOption(mangos.OptionSubscribe, []byte(kind)); err != nil {
		sock.Close()
		return nil, fmt.Errorf("subscribing to %q: %w", kind, err)
	}
	return &Subscriber{sock: sock}, nil
}

// Next blocks for the next event, up to timeout.
func (s *Subscriber) Next(timeout time.Duration) (Event, error) {
	if err := s.sock.SetOption(mangos.OptionRecvDeadline, timeout); err != nil {
		return Event{}, fmt.Errorf("setting receive deadline: %w", err)
	}

	raw, err := s.sock.Recv()
	if err != nil {
		return Event{}, fmt.Errorf("receiving event: %w", err)
	}

	sep := bytes.IndexByte(raw, topicSep)
	if sep < 0 {
		return Event{}, fmt.Errorf("malformed event frame: %q", raw)
	}

	var e Event
	if err := json.Unmarshal(raw[sep+1:], &e); err != nil {
		return Event{}, fmt.Errorf("decoding event: %w", err)
	}
	return e, nil
}

// Close shuts the socket down.
func (s *Subscriber) Close() error {
	return s.sock.Close()
}
