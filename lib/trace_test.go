package lib

import (
	"encoding/binary"
	"testing"
)

func TestTransmitRecorder(t *testing.T) {
	conf := newTestSenderConfig()
	conf.InitCwnd = 3
	conf.TraceEnabled = true
	s := NewSender(conf)
	defer s.Close()

	n, err := s.WriteXmit()
	if err != nil || n != 3 {
		t.Fatalf("WriteXmit: n=%d err=%v", n, err)
	}
	if err := s.OnTimeout(); err != nil {
		t.Fatalf("OnTimeout failed: %v", err)
	}

	entries := s.Recorder().Entries()
	if len(entries) != 6 { // 3 originals plus 3 retransmissions
		t.Fatalf("expected 6 trace entries, got %d", len(entries))
	}

	first := entries[0]
	if first.SequenceNumber != 1000 || first.Length != 1460 || first.IsRetransmission {
		t.Errorf("unexpected first entry: %+v", first)
	}
	if len(first.Header) != TcpHeaderLength {
		t.Fatalf("expected a %d byte TCP header, got %d", TcpHeaderLength, len(first.Header))
	}

	// the serialized header carries the segment's ports and numbers
	if got := binary.BigEndian.Uint16(first.Header[0:2]); got != 12345 {
		t.Errorf("expected source port 12345, got %d", got)
	}
	if got := binary.BigEndian.Uint16(first.Header[2:4]); got != 80 {
		t.Errorf("expected destination port 80, got %d", got)
	}
	if got := binary.BigEndian.Uint32(first.Header[4:8]); got != 1000 {
		t.Errorf("expected SEQ 1000 in the header, got %d", got)
	}
	if first.Header[13]&ACKFlag == 0 {
		t.Error("expected the ACK flag set in the header")
	}

	if !entries[3].IsRetransmission {
		t.Error("expected the fourth entry to be a retransmission")
	}

	s.Recorder().Reset()
	if s.Recorder().Len() != 0 {
		t.Errorf("expected empty recorder after reset, got %d", s.Recorder().Len())
	}
}

func TestNilRecorder(t *testing.T) {
	var r *TransmitRecorder
	if r.Len() != 0 || r.Entries() != nil {
		t.Error("nil recorder should record nothing")
	}
	r.Reset()
}
