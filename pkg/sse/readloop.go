package sse

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Decoder translates a raw protocol frame into zero or more stream events.
// Each streaming provider supplies its own decoder.
type Decoder func(Frame) []Event

// ReadLoop drives the streaming read: it pulls byte chunks from r, parses
// frames across chunk boundaries, decodes them, and folds the events into
// acc. The context is polled between reads; cancellation returns ctx.Err()
// with whatever partial text acc gathered. A provider-reported stream error
// returns a *ProtocolError, likewise preserving partial text.
func ReadLoop(ctx context.Context, r io.Reader, decode Decoder, acc *Accumulator) error {
	parser := &Parser{}
	buf := make([]byte, 4096)
	frameCount := 0

	apply := func(frames []Frame) error {
		for _, f := range frames {
			frameCount++
			for _, ev := range decode(f) {
				if err := acc.Apply(ev); err != nil {
					return &ProtocolError{Message: err.Error()}
				}
			}
			if acc.Failed() {
				return &ProtocolError{Message: acc.ErrMessage()}
			}
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			log.Debug().Int("frames", frameCount).Msg("stream read cancelled")
			return ctx.Err()
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			if applyErr := apply(parser.Feed(buf[:n])); applyErr != nil {
				return applyErr
			}
			if acc.Finished() {
				log.Debug().Int("frames", frameCount).Msg("stream completed")
				return nil
			}
		}
		if err != nil {
			if err == io.EOF {
				if applyErr := apply(parser.Flush()); applyErr != nil {
					return applyErr
				}
				log.Debug().Int("frames", frameCount).Msg("stream reader finished")
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "read stream chunk")
		}
	}
}
