package sse

import (
	"bytes"
	"strings"
)

// Frame is one complete server-sent-event frame: an optional event name and
// the data lines joined by newlines.
type Frame struct {
	Event string
	Data  string
}

// Parser is an incremental SSE frame parser. Input arrives as arbitrary byte
// chunks; a frame may span multiple chunks and a chunk may contain multiple
// frames. Parsing is chunk-boundary-invariant: any split of the same byte
// stream yields the same frame sequence.
type Parser struct {
	pending []byte
	event   string
	data    []string
}

// Feed consumes a chunk and returns all frames completed by it.
func (p *Parser) Feed(chunk []byte) []Frame {
	p.pending = append(p.pending, chunk...)
	var frames []Frame
	for {
		idx := bytes.IndexByte(p.pending, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSuffix(string(p.pending[:idx]), "\r")
		p.pending = p.pending[idx+1:]
		if f := p.consumeLine(line); f != nil {
			frames = append(frames, *f)
		}
	}
	return frames
}

// Flush terminates the stream, emitting any trailing partial frame.
func (p *Parser) Flush() []Frame {
	var frames []Frame
	if len(p.pending) > 0 {
		line := strings.TrimSuffix(string(p.pending), "\r")
		p.pending = nil
		if f := p.consumeLine(line); f != nil {
			frames = append(frames, *f)
		}
	}
	if f := p.finishFrame(); f != nil {
		frames = append(frames, *f)
	}
	return frames
}

func (p *Parser) consumeLine(line string) *Frame {
	if line == "" {
		return p.finishFrame()
	}
	field, value := line, ""
	if idx := strings.IndexByte(line, ':'); idx >= 0 {
		field = line[:idx]
		value = strings.TrimPrefix(line[idx+1:], " ")
	}
	switch field {
	case "event":
		p.event = value
	case "data":
		p.data = append(p.data, value)
	default:
		// Comments and unknown fields are ignored.
	}
	return nil
}

func (p *Parser) finishFrame() *Frame {
	if p.event == "" && len(p.data) == 0 {
		return nil
	}
	f := &Frame{Event: p.event, Data: strings.Join(p.data, "\n")}
	p.event = ""
	p.data = nil
	return f
}
