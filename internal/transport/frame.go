package transport

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Minimal STOMP 1.2 framing: enough to CONNECT, SUBSCRIBE, SEND and receive
// MESSAGE/ERROR frames from the broker.

const (
	cmdConnect    = "CONNECT"
	cmdConnected  = "CONNECTED"
	cmdSubscribe  = "SUBSCRIBE"
	cmdSend       = "SEND"
	cmdDisconnect = "DISCONNECT"
	cmdMessage    = "MESSAGE"
	cmdError      = "ERROR"
)

type frame struct {
	Command string
	Headers map[string]string
	Body    []byte
}

func (f *frame) marshal() []byte {
	var buf bytes.Buffer
	buf.WriteString(f.Command)
	buf.WriteByte('\n')

	// Deterministic header order keeps frames stable on the wire.
	keys := make([]string, 0, len(f.Headers))
	for k := range f.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteString(escapeHeader(k))
		buf.WriteByte(':')
		buf.WriteString(escapeHeader(f.Headers[k]))
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')
	buf.Write(f.Body)
	buf.WriteByte(0)
	return buf.Bytes()
}

func parseFrame(data []byte) (*frame, error) {
	data = bytes.TrimSuffix(data, []byte{0})
	head, body, found := bytes.Cut(data, []byte("\n\n"))
	if !found {
		return nil, fmt.Errorf("malformed frame: missing header terminator")
	}

	lines := strings.Split(strings.TrimPrefix(string(head), "\n"), "\n")
	command := strings.TrimSuffix(lines[0], "\r")
	if command == "" {
		return nil, fmt.Errorf("malformed frame: empty command")
	}

	f := &frame{Command: command, Headers: make(map[string]string)}
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header line %q", line)
		}
		// First occurrence wins per the STOMP spec.
		key = unescapeHeader(key)
		if _, exists := f.Headers[key]; !exists {
			f.Headers[key] = unescapeHeader(value)
		}
	}

	f.Body = append([]byte(nil), body...)
	return f, nil
}

var headerEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\r", `\r`,
	"\n", `\n`,
	":", `\c`,
)

func escapeHeader(s string) string {
	return headerEscaper.Replace(s)
}

func unescapeHeader(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'c':
			b.WriteByte(':')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
