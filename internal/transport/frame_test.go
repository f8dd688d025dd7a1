package transport

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	original := &frame{
		Command: cmdSend,
		Headers: map[string]string{
			"destination":  "/pub/chat/3",
			"content-type": "application/json",
		},
		Body: []byte(`{"content":"hello"}`),
	}

	parsed, err := parseFrame(original.marshal())
	if err != nil {
		t.Fatalf("parseFrame() failed: %v", err)
	}
	if parsed.Command != original.Command {
		t.Errorf("Command = %q, want %q", parsed.Command, original.Command)
	}
	for k, v := range original.Headers {
		if parsed.Headers[k] != v {
			t.Errorf("header %q = %q, want %q", k, parsed.Headers[k], v)
		}
	}
	if !bytes.Equal(parsed.Body, original.Body) {
		t.Errorf("Body = %q, want %q", parsed.Body, original.Body)
	}
}

func TestParseBrokerMessageFrame(t *testing.T) {
	raw := "MESSAGE\n" +
		"destination:/sub/chat/3\n" +
		"message-id:0-1\n" +
		"subscription:sub-0\n" +
		"\n" +
		`{"senderId":1,"content":"hi"}` + "\x00"

	f, err := parseFrame([]byte(raw))
	if err != nil {
		t.Fatalf("parseFrame() failed: %v", err)
	}
	if f.Command != cmdMessage {
		t.Errorf("Command = %q, want MESSAGE", f.Command)
	}
	if f.Headers["destination"] != "/sub/chat/3" {
		t.Errorf("destination = %q", f.Headers["destination"])
	}
	if string(f.Body) != `{"senderId":1,"content":"hi"}` {
		t.Errorf("Body = %q", f.Body)
	}
}

func TestHeaderEscaping(t *testing.T) {
	f := &frame{
		Command: cmdError,
		Headers: map[string]string{"message": "bad frame: line\nbroken"},
	}

	parsed, err := parseFrame(f.marshal())
	if err != nil {
		t.Fatalf("parseFrame() failed: %v", err)
	}
	if got := parsed.Headers["message"]; got != "bad frame: line\nbroken" {
		t.Errorf("unescaped header = %q", got)
	}
}

func TestParseRejectsMalformedFrames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no header terminator", "SEND\ndestination:/pub/chat/1\x00"},
		{"empty command", "\n\nbody\x00"},
		{"header without colon", "SEND\nbroken-header\n\n\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFrame([]byte(tt.raw)); err == nil {
				t.Errorf("parseFrame(%q) accepted malformed input", tt.raw)
			}
		})
	}
}

func TestHeartbeatDetection(t *testing.T) {
	if !isHeartbeat([]byte("\n")) {
		t.Error("LF frame should count as heartbeat")
	}
	if !isHeartbeat([]byte("\r\n")) {
		t.Error("CRLF frame should count as heartbeat")
	}
	if isHeartbeat([]byte("MESSAGE\n\n\x00")) {
		t.Error("real frame misdetected as heartbeat")
	}
}

func TestInboundMessageNormalization(t *testing.T) {
	in := inboundMessage{
		SenderID:       5,
		SenderName:     "bob",
		UserProfileImg: "/uploads/b.png",
		Content:        "hello",
		ChattingRoomID: 3,
	}
	msg := in.toChatMessage()
	if msg.SenderProfileImage != "/uploads/b.png" {
		t.Errorf("userProfileImg not mapped, got %q", msg.SenderProfileImage)
	}
	if msg.RoomID != 3 || msg.SenderID != 5 {
		t.Errorf("normalized message = %+v", msg)
	}

	// The canonical field wins when the variant is absent.
	in = inboundMessage{SenderProfileImage: "canon.png"}
	if got := in.toChatMessage().SenderProfileImage; got != "canon.png" {
		t.Errorf("senderProfileImage not kept, got %q", got)
	}
}
