package irc

import (
	"bytes"
	"testing"
)

func TestIsCTCP(t *testing.T) {
	if !IsCTCPString("\x01VERSION\x01") {
		t.Error("Expected a delimited payload to be CTCP.")
	}
	if IsCTCPString("VERSION") {
		t.Error("CTCP cannot be missing delimiter bytes.")
	}
	if IsCTCPString("\x01") {
		t.Error("A single delimiter byte is not a CTCP payload.")
	}
	if IsCTCPString("") {
		t.Error("An empty string is not a CTCP payload.")
	}
	if !IsCTCP([]byte("\x01PING 123\x01")) {
		t.Error("Expected delimited bytes to be CTCP.")
	}
	if IsCTCP(nil) {
		t.Error("Nil bytes are not a CTCP payload.")
	}
}

func TestCTCPpack(t *testing.T) {
	packed := CTCPpackString("ACTION", "waves hello")
	if packed != "\x01ACTION waves hello\x01" {
		t.Errorf("Expected: %q, got: %q", "\x01ACTION waves hello\x01", packed)
	}

	packed = CTCPpackString("VERSION", "")
	if packed != "\x01VERSION\x01" {
		t.Errorf("Expected: %q, got: %q", "\x01VERSION\x01", packed)
	}
}

func TestCTCPunpack(t *testing.T) {
	tag, data := CTCPunpackString("\x01ACTION waves hello\x01")
	if tag != "ACTION" {
		t.Errorf("Expected: %s, got: %s", "ACTION", tag)
	}
	if data != "waves hello" {
		t.Errorf("Expected: %s, got: %s", "waves hello", data)
	}

	tag, data = CTCPunpackString("\x01VERSION\x01")
	if tag != "VERSION" {
		t.Errorf("Expected: %s, got: %s", "VERSION", tag)
	}
	if data != "" {
		t.Errorf("Expected empty data, got: %s", data)
	}
}

func TestCTCP_RoundTrip(t *testing.T) {
	tests := []struct {
		tag  string
		data string
	}{
		{"ACTION", "plain text"},
		{"PING", "12345"},
		{"TAG", "with\nnewline and\rcarriage return"},
		{"TAG", "with\x10low quote"},
		{"TAG", "with\x5chigh quote"},
		{"TAG", "with\x01delimiter"},
		{"TAG", string([]byte{'a', 0x00, 'b'})},
	}

	for _, test := range tests {
		packed := CTCPpack([]byte(test.tag), []byte(test.data))
		if !IsCTCP(packed) {
			t.Errorf("Expected packed %q to be delimited.", test.tag)
		}
		tag, data := CTCPunpack(packed)
		if !bytes.Equal(tag, []byte(test.tag)) {
			t.Errorf("Expected: %q, got: %q", test.tag, tag)
		}
		if !bytes.Equal(data, []byte(test.data)) {
			t.Errorf("Expected: %q, got: %q", test.data, data)
		}
	}
}

func TestCTCP_EscapesWire(t *testing.T) {
	packed := CTCPpack([]byte("TAG"), []byte("a\r\nb"))
	if bytes.ContainsAny(packed[1:len(packed)-1], "\r\n") {
		t.Error("Expected no raw line terminators inside a packed payload.")
	}
}
