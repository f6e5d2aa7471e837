package ipc

import (
	"bytes"
	"testing"
)

func TestEncodeLayout(t *testing.T) {
	m := Message{From: 3, To: Broadcast, X: 10, Y: 20, Type: MsgPlayerHit, Data: 5}
	rec := m.Encode()

	want := []byte{
		3, 0, 0, 0,
		0xff, 0xff, 0xff, 0xff,
		10, 0, 0, 0,
		20, 0, 0, 0,
		3, 0, 0, 0,
		5, 0, 0, 0,
	}
	if !bytes.Equal(rec[:], want) {
		t.Errorf("Encode() = %v\nexpected   %v", rec, want)
	}

	got, err := Decode(rec[:])
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got != m {
		t.Errorf("Decode() = %+v, expected %+v", got, m)
	}
}

func TestDecodeShortRecord(t *testing.T) {
	if _, err := Decode(make([]byte, RecordSize-1)); err == nil {
		t.Error("Decode should reject a short record")
	}
}
