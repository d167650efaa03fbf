package lib

import (
	"bytes"
	"testing"
)

func TestNewSegmentFillPattern(t *testing.T) {
	InitPool(256, DefaultMSS, false)

	seg, err := NewSegment(1000, 2000, ACKFlag, MaxWindow, 'C', 8)
	if err != nil {
		t.Fatalf("NewSegment failed: %v", err)
	}
	defer seg.ReturnChunk()

	if seg.Length != 8 || len(seg.Payload) != 8 {
		t.Fatalf("expected an 8 byte payload, got Length=%d len=%d", seg.Length, len(seg.Payload))
	}
	if !bytes.Equal(seg.Payload, []byte("CCCCCCCC")) {
		t.Errorf("unexpected payload %q", seg.Payload)
	}
	if seg.endSeq() != 1008 {
		t.Errorf("expected end SEQ 1008, got %d", seg.endSeq())
	}
}

func TestSegmentCopyToPayload(t *testing.T) {
	InitPool(256, DefaultMSS, false)

	seg := &Segment{SequenceNumber: 5000}
	if err := seg.CopyToPayload([]byte("hello world")); err != nil {
		t.Fatalf("CopyToPayload failed: %v", err)
	}
	defer seg.ReturnChunk()

	if seg.Length != 11 || !bytes.Equal(seg.Payload, []byte("hello world")) {
		t.Errorf("unexpected payload %q (length %d)", seg.Payload, seg.Length)
	}

	// empty source is rejected
	other := &Segment{}
	if err := other.CopyToPayload(nil); err == nil {
		t.Error("expected an error for an empty source slice")
	}
}
