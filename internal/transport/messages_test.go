package transport

import (
	"testing"
	"time"
)

func TestInboundMessageFromJSON(t *testing.T) {
	data := []byte(`{"user_id": 123456, "text": "/venta", "timestamp": "2025-03-10T14:02:11Z"}`)
	msg, err := InboundMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.UserID != 123456 {
		t.Errorf("UserID = %d, want 123456", msg.UserID)
	}
	if msg.Text != "/venta" {
		t.Errorf("Text = %q", msg.Text)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestInboundMessageFromJSONRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"invalid json", []byte("{not json")},
		{"missing user_id", []byte(`{"text": "hola"}`)},
		{"zero user_id", []byte(`{"user_id": 0, "text": "hola"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := InboundMessageFromJSON(tt.data); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestOutboundMessageRoundTrip(t *testing.T) {
	out := NewOutboundMessage(42, "✅ Registrado")
	if out.Timestamp.IsZero() || time.Since(out.Timestamp) > time.Minute {
		t.Fatalf("timestamp = %v", out.Timestamp)
	}
	body, err := out.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("empty body")
	}
}
