// Package sse streams note changes to browsers as Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// NoteEventKind names a change to the collection.
type NoteEventKind string

const (
	NoteCreated   NoteEventKind = "note.created"
	NoteDeleted   NoteEventKind = "note.deleted"
	NoteFavorited NoteEventKind = "note.favorited"
	// NotesReloaded is emitted after the collection was reloaded from storage.
	NotesReloaded NoteEventKind = "notes.reloaded"
)

// TagsUpdated follows note changes, at most once per throttle interval.
// A change inside the interval is announced when the interval ends.
const TagsUpdated = "tags.updated"

const (
	defaultTagsThrottle = 2 * time.Second
	defaultKeepAlive    = 25 * time.Second
	defaultClientBuffer = 64
	// retryMillis is the reconnect delay suggested to browsers.
	retryMillis = 3000
)

// Event is one message to publish.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Frame is an encoded event as delivered to a client.
type Frame struct {
	ID   uint64
	Type string
	Data json.RawMessage
}

// WriteTo writes the frame in text/event-stream format.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", f.ID, f.Type, f.Data)
	return int64(n), err
}

// Client is one subscriber. Frames that do not fit its buffer are dropped.
type Client struct {
	frames    chan Frame
	dropped   atomic.Int64
	closeOnce sync.Once
}

// Frames returns the delivery channel. It is closed on unsubscribe or when
// the broker stops.
func (c *Client) Frames() <-chan Frame { return c.frames }

// Dropped counts frames skipped because the client was too slow.
func (c *Client) Dropped() int64 { return c.dropped.Load() }

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.frames) })
}

// Option configures a Broker.
type Option func(*Broker)

// WithKeepAlive sets how often idle streams get a comment line.
func WithKeepAlive(d time.Duration) Option {
	return func(b *Broker) {
		if d > 0 {
			b.keepAlive = d
		}
	}
}

// WithClientBuffer sets the per-client frame buffer.
func WithClientBuffer(n int) Option {
	return func(b *Broker) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// hub is the broker state. Only the run goroutine touches it.
type hub struct {
	clients  map[*Client]struct{}
	seq      uint64
	tagsMin  time.Duration
	lastTags time.Time
	trailing <-chan time.Time
}

func (h *hub) broadcast(typ string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	h.seq++
	f := Frame{ID: h.seq, Type: typ, Data: raw}
	for c := range h.clients {
		select {
		case c.frames <- f:
		default:
			c.dropped.Add(1)
		}
	}
}

func (h *hub) noteChanged(kind NoteEventKind, id string, now time.Time) {
	data := map[string]string{}
	if id != "" {
		data["id"] = id
	}
	h.broadcast(string(kind), data)

	switch {
	case now.Sub(h.lastTags) >= h.tagsMin:
		h.tagsChanged(now)
	case h.trailing == nil:
		h.trailing = time.After(h.lastTags.Add(h.tagsMin).Sub(now))
	}
}

func (h *hub) tagsChanged(now time.Time) {
	h.lastTags = now
	h.broadcast(TagsUpdated, struct{}{})
}

// Broker fans events out to connected clients.
//
// The client set lives in a hub owned by a single goroutine; every public
// method hands it a closure over the cmds channel.
type Broker struct {
	tagsMin   time.Duration
	keepAlive time.Duration
	buffer    int

	cmds    chan func(*hub)
	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker. tagsThrottle <= 0 uses two seconds.
func NewBroker(tagsThrottle time.Duration, opts ...Option) *Broker {
	if tagsThrottle <= 0 {
		tagsThrottle = defaultTagsThrottle
	}
	b := &Broker{
		tagsMin:   tagsThrottle,
		keepAlive: defaultKeepAlive,
		buffer:    defaultClientBuffer,
		cmds:      make(chan func(*hub), 256),
		stopCh:    make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	h := &hub{clients: make(map[*Client]struct{}), tagsMin: b.tagsMin}
	for {
		select {
		case <-b.stopCh:
			for c := range h.clients {
				c.close()
			}
			return
		case fn := <-b.cmds:
			fn(h)
		case now := <-h.trailing:
			h.trailing = nil
			h.tagsChanged(now)
		}
	}
}

// do queues fn for the run goroutine. It reports false once the broker stopped.
func (b *Broker) do(fn func(*hub)) bool {
	if b.closed.Load() {
		return false
	}
	select {
	case b.cmds <- fn:
		return true
	case <-b.stopped:
		return false
	}
}

// Close stops the loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a client. It returns once the client is counted, or
// with a closed client when the broker is stopped.
func (b *Broker) Subscribe() *Client {
	c := &Client{frames: make(chan Frame, b.buffer)}
	added := make(chan struct{})
	ok := b.do(func(h *hub) {
		h.clients[c] = struct{}{}
		close(added)
	})
	if !ok {
		c.close()
		return c
	}
	select {
	case <-added:
	case <-b.stopped:
		c.close()
	}
	return c
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(c *Client) {
	b.do(func(h *hub) {
		if _, ok := h.clients[c]; ok {
			delete(h.clients, c)
			c.close()
		}
	})
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	resp := make(chan int, 1)
	if !b.do(func(h *hub) { resp <- len(h.clients) }) {
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	b.do(func(h *hub) { h.broadcast(event.Type, event.Data) })
}

// PublishNoteEvent broadcasts a note change, then tags.updated subject to the throttle.
func (b *Broker) PublishNoteEvent(kind NoteEventKind, id string) {
	b.do(func(h *hub) { h.noteChanged(kind, id, time.Now()) })
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry: %d\n\n", retryMillis)
	flusher.Flush()

	c := b.Subscribe()
	defer b.Unsubscribe(c)

	ping := time.NewTicker(b.keepAlive)
	defer ping.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-c.Frames():
			if !ok {
				return
			}
			if _, err := f.WriteTo(w); err != nil {
				return
			}
			flusher.Flush()
		case <-ping.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
