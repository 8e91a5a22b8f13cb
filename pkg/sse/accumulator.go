package sse

import (
	"strings"

	"github.com/go-go-golems/inkline/pkg/turns"
	"github.com/pkg/errors"
)

type accState int

const (
	stateAwaitBlock accState = iota
	stateInBlock
	stateClosing
	stateErrored
	stateDone
)

// DeltaFunc observes each text delta together with the full text accumulated
// so far.
type DeltaFunc func(delta string, textSoFar string)

// Accumulator reconstructs a structured reply from stream events. Content
// blocks are addressed by index; later blocks never corrupt earlier ones, and
// out-of-order indices are handled by growing the block array with gap fill.
type Accumulator struct {
	state      accState
	blocks     []*turns.ContentBlock
	stopReason string
	usage      *Usage
	errMsg     string
	onDelta    DeltaFunc
}

// NewAccumulator returns an accumulator forwarding deltas to onDelta, which
// may be nil.
func NewAccumulator(onDelta DeltaFunc) *Accumulator {
	return &Accumulator{onDelta: onDelta}
}

// Apply folds one event into the accumulated state.
func (a *Accumulator) Apply(ev Event) error {
	if a.state == stateErrored || a.state == stateDone {
		return errors.Errorf("event %s after stream end", ev.Type)
	}
	switch ev.Type {
	case EventMessageStart:
		a.state = stateAwaitBlock

	case EventBlockStart:
		if ev.Index < 0 {
			return errors.Errorf("negative block index %d", ev.Index)
		}
		b := a.ensure(ev.Index)
		if ev.BlockType != "" {
			b.Kind = ev.BlockType
		}
		a.state = stateInBlock

	case EventTextDelta:
		if ev.Index < 0 {
			return errors.Errorf("negative block index %d", ev.Index)
		}
		b := a.ensure(ev.Index)
		b.Text += ev.Text
		a.state = stateInBlock
		// Reasoning deltas are accumulated but not surfaced as reply text.
		if a.onDelta != nil && ev.Text != "" && b.Kind == turns.BlockKindText {
			a.onDelta(ev.Text, a.Text())
		}

	case EventMessageMeta:
		// Meta updates never touch content.
		if ev.StopReason != "" {
			a.stopReason = ev.StopReason
		}
		if ev.Usage != nil {
			a.usage = ev.Usage
		}
		a.state = stateClosing

	case EventStreamError:
		a.errMsg = ev.Message
		if a.errMsg == "" {
			a.errMsg = "provider stream error"
		}
		a.state = stateErrored

	case EventDone:
		a.state = stateDone

	default:
		return errors.Errorf("unknown stream event type %s", ev.Type)
	}
	return nil
}

// ensure grows the block array to cover index i, filling gaps with empty text
// blocks.
func (a *Accumulator) ensure(i int) *turns.ContentBlock {
	for len(a.blocks) <= i {
		a.blocks = append(a.blocks, &turns.ContentBlock{Kind: turns.BlockKindText})
	}
	return a.blocks[i]
}

// Text returns the concatenated text of all text blocks in index order.
func (a *Accumulator) Text() string {
	var sb strings.Builder
	for _, b := range a.blocks {
		if b.Kind == turns.BlockKindText {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// ReasoningBlocks returns the text of all reasoning blocks in index order.
func (a *Accumulator) ReasoningBlocks() []string {
	var out []string
	for _, b := range a.blocks {
		if b.Kind == turns.BlockKindReasoning && b.Text != "" {
			out = append(out, b.Text)
		}
	}
	return out
}

// Blocks returns the reconstructed content-block array.
func (a *Accumulator) Blocks() []turns.ContentBlock {
	out := make([]turns.ContentBlock, len(a.blocks))
	for i, b := range a.blocks {
		out[i] = *b
	}
	return out
}

// StopReason returns the provider stop reason, when one arrived.
func (a *Accumulator) StopReason() string { return a.stopReason }

// Usage returns the provider usage totals, when they arrived.
func (a *Accumulator) Usage() *Usage { return a.usage }

// Failed reports whether a terminal stream error was observed.
func (a *Accumulator) Failed() bool { return a.state == stateErrored }

// ErrMessage returns the provider error message after a failure.
func (a *Accumulator) ErrMessage() string { return a.errMsg }

// Finished reports whether the stream reached its terminal Done event.
func (a *Accumulator) Finished() bool { return a.state == stateDone }
