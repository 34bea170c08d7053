package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const defaultBufferSize = 4096

// MalformedFunc is called for every line that is not a valid event object
type MalformedFunc func(line []byte, err error)

// Stats counts what a reader saw on one stream
type Stats struct {
	Events    int
	Malformed int
	Bytes     int64
}

// Reader decodes a newline-delimited JSON event stream. Lines may be split
// across reads at any byte, including inside a multi-byte character; only
// complete lines are decoded.
type Reader struct {
	r         *bufio.Reader
	size      int
	malformed MalformedFunc
	stats     Stats
}

// Option configures a Reader
type Option func(*Reader)

// WithMalformedHandler sets the callback for undecodable lines
func WithMalformedHandler(fn MalformedFunc) Option {
	return func(r *Reader) {
		r.malformed = fn
	}
}

// WithBufferSize sets the read buffer size
func WithBufferSize(size int) Option {
	return func(r *Reader) {
		if size > 0 {
			r.size = size
		}
	}
}

// NewReader creates a Reader over r
func NewReader(r io.Reader, opts ...Option) *Reader {
	reader := &Reader{size: defaultBufferSize}
	for _, opt := range opts {
		opt(reader)
	}
	reader.r = bufio.NewReaderSize(r, reader.size)
	return reader
}

// Next returns the next decoded event. Blank and malformed lines are skipped.
// It returns io.EOF once the stream is exhausted.
func (r *Reader) Next() (Event, error) {
	for {
		line, err := r.r.ReadBytes('\n')
		r.stats.Bytes += int64(len(line))

		if len(line) > 0 {
			if ev, ok := r.decode(line); ok {
				return ev, nil
			}
		}

		if err != nil {
			return Event{}, err
		}
	}
}

// Each calls fn for every event until the stream ends, ctx is cancelled or fn
// returns an error. Reaching the end of the stream is not an error.
func (r *Reader) Each(ctx context.Context, fn func(Event) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read stream: %w", err)
		}

		if err := fn(ev); err != nil {
			return err
		}
	}
}

// Stats returns the counters for this stream so far
func (r *Reader) Stats() Stats {
	return r.stats
}

func (r *Reader) decode(line []byte) (Event, bool) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return Event{}, false
	}

	var ev Event
	if err := json.Unmarshal(trimmed, &ev); err != nil {
		r.reportMalformed(trimmed, err)
		return Event{}, false
	}

	r.stats.Events++
	return ev, true
}

func (r *Reader) reportMalformed(line []byte, err error) {
	r.stats.Malformed++
	if r.malformed != nil {
		r.malformed(line, err)
	}
}
