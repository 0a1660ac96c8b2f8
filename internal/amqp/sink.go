package amqp

import (
	"context"
	"errors"
	"fmt"

	"extrack/internal/core"
	"extrack/internal/sheets"
)

var _ sheets.TableWriter = (*Sink)(nil)

// Publisher sends a message body to a broker.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// Sink buffers a rendered table and publishes it as a single
// SummaryMessage on Flush.
type Sink struct {
	pub         Publisher
	granularity core.Granularity
	header      []string
	rows        [][]string
}

func NewSink(pub Publisher, granularity core.Granularity) *Sink {
	return &Sink{pub: pub, granularity: granularity}
}

func (s *Sink) WriteHeader(_ context.Context, header []string) error {
	if len(header) == 0 {
		return core.NewError(core.KindSinkFailure, "write header", errors.New("empty header"))
	}
	s.header = append([]string(nil), header...)
	s.rows = nil
	return nil
}

func (s *Sink) WriteRow(_ context.Context, row []string) error {
	if len(row) != len(s.header) {
		return core.NewError(core.KindSinkFailure, "write row",
			fmt.Errorf("row has %d fields, header has %d", len(row), len(s.header)))
	}
	s.rows = append(s.rows, append([]string(nil), row...))
	return nil
}

func (s *Sink) Flush(ctx context.Context) error {
	msg := NewSummaryMessage(core.RunIDFrom(ctx), s.granularity.String(), s.header, s.rows)
	body, err := msg.ToJSON()
	if err != nil {
		return core.NewError(core.KindSinkFailure, "flush amqp", fmt.Errorf("marshal message: %w", err))
	}
	if err := s.pub.Publish(ctx, body); err != nil {
		return core.NewError(core.KindSinkFailure, "flush amqp", err)
	}
	s.header, s.rows = nil, nil
	return nil
}
