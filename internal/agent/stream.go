package agent

import (
	"encoding/json"
	"strings"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

// Data-stream line prefixes. Each line of the model stream is
// "<prefix>:<json>\n"; other prefixes are ignored.
const (
	prefixText       = "0:"
	prefixInvocation = "9:"
)

// streamCall is the payload of an invocation line.
type streamCall struct {
	ToolCallID string `json:"toolCallId"`
	ToolName   string `json:"toolName"`
	Args       any    `json:"args"`
}

// StreamParser extracts invocations from a growing model stream.
//
// Only newline-terminated lines are parsed, so a payload split across chunks
// is picked up once its line completes. Each invocation is emitted at most
// once for the parser's lifetime, however often the buffer is re-parsed.
// A StreamParser is not safe for concurrent use.
type StreamParser struct {
	buf       string
	consumed  int // bytes of buf already split into complete lines
	dropped   int // parsed bytes Feed released from the front of buf
	text      strings.Builder
	emitted   map[string]struct{}
	malformed int
}

func NewStreamParser() *StreamParser {
	return &StreamParser{emitted: make(map[string]struct{})}
}

// Feed appends chunk and returns invocations completed by it. Lines already
// parsed are released, so buf only holds the incomplete tail.
func (p *StreamParser) Feed(chunk string) []Invocation {
	if p.consumed > 0 {
		p.buf = p.buf[p.consumed:]
		p.dropped += p.consumed
		p.consumed = 0
	}
	p.buf += chunk
	return p.scan(false)
}

// Sync replaces the buffer with the full stream so far and returns
// invocations not emitted before. When full extends the previous buffer only
// the new tail is parsed; otherwise, or after Feed released lines, everything
// is re-parsed.
func (p *StreamParser) Sync(full string) []Invocation {
	if p.dropped > 0 || !strings.HasPrefix(full, p.buf[:p.consumed]) {
		p.consumed = 0
		p.dropped = 0
		p.text.Reset()
	}
	p.buf = full
	return p.scan(false)
}

// Flush parses a trailing line that never received its newline. Call it once
// the stream has ended.
func (p *StreamParser) Flush() []Invocation {
	return p.scan(true)
}

// Text returns the prose accumulated from text lines.
func (p *StreamParser) Text() string {
	return p.text.String()
}

// Pending returns the incomplete tail of the buffer.
func (p *StreamParser) Pending() string {
	return p.buf[p.consumed:]
}

// takeMalformed returns and resets the count of unparseable lines.
func (p *StreamParser) takeMalformed() int {
	n := p.malformed
	p.malformed = 0
	return n
}

func (p *StreamParser) scan(final bool) []Invocation {
	var out []Invocation
	for {
		rest := p.buf[p.consumed:]
		nl := strings.IndexByte(rest, '\n')
		var line string
		switch {
		case nl >= 0:
			line = rest[:nl]
			p.consumed += nl + 1
		case final && rest != "":
			line = rest
			p.consumed = len(p.buf)
		default:
			return out
		}

		if inv, ok := p.parseLine(strings.TrimRight(line, "\r")); ok {
			key := inv.Key()
			if _, seen := p.emitted[key]; seen {
				continue
			}
			p.emitted[key] = struct{}{}
			out = append(out, inv)
		}
	}
}

// parseLine handles one complete line. ok is true only for a well-formed
// invocation line.
func (p *StreamParser) parseLine(line string) (Invocation, bool) {
	switch {
	case strings.HasPrefix(line, prefixText):
		var s string
		if err := json5.Unmarshal([]byte(line[len(prefixText):]), &s); err != nil {
			p.malformed++
			return Invocation{}, false
		}
		p.text.WriteString(s)
		return Invocation{}, false

	case strings.HasPrefix(line, prefixInvocation):
		var call streamCall
		if err := json5.Unmarshal([]byte(line[len(prefixInvocation):]), &call); err != nil || call.ToolName == "" {
			p.malformed++
			return Invocation{}, false
		}
		args, err := json.Marshal(call.Args)
		if err != nil {
			p.malformed++
			return Invocation{}, false
		}
		return Invocation{ID: call.ToolCallID, Name: call.ToolName, Arguments: args}, true
	}
	return Invocation{}, false
}
