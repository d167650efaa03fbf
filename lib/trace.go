package lib

import (
	"sync"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// TraceEntry is one recorded transmission: the segment bookkeeping plus the
// TCP header it would have carried on the wire.
type TraceEntry struct {
	SequenceNumber   uint32
	Length           int
	IsRetransmission bool
	Header           []byte // serialized TCP header bytes
}

// TransmitRecorder captures the segments a sender transmits. Transmission
// here is a visible side effect in place of real socket I/O, so the
// recorder renders each segment as a real TCP header and keeps it for the
// caller to inspect. A nil recorder is valid and records nothing.
type TransmitRecorder struct {
	mutex            sync.Mutex
	srcPort, dstPort uint16
	entries          []TraceEntry
}

func NewTransmitRecorder(srcPort, dstPort uint16) *TransmitRecorder {
	return &TransmitRecorder{
		srcPort: srcPort,
		dstPort: dstPort,
	}
}

// record serializes the segment's header and appends a trace entry.
func (r *TransmitRecorder) record(seg *Segment) error {
	if r == nil {
		return nil
	}

	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(r.srcPort),
		DstPort: layers.TCPPort(r.dstPort),
		Seq:     seg.SequenceNumber,
		Ack:     seg.AcknowledgmentNum,
		Window:  seg.WindowSize,
		FIN:     seg.Flags&FINFlag != 0,
		SYN:     seg.Flags&SYNFlag != 0,
		RST:     seg.Flags&RSTFlag != 0,
		PSH:     seg.Flags&PSHFlag != 0,
		ACK:     seg.Flags&ACKFlag != 0,
		URG:     seg.Flags&URGFlag != 0,
	}

	buffer := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := tcp.SerializeTo(buffer, opts); err != nil {
		return err
	}

	header := make([]byte, len(buffer.Bytes()))
	copy(header, buffer.Bytes())

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entries = append(r.entries, TraceEntry{
		SequenceNumber:   seg.SequenceNumber,
		Length:           seg.Length,
		IsRetransmission: seg.IsRetransmission,
		Header:           header,
	})
	return nil
}

// Entries returns a copy of the recorded transmissions so far.
func (r *TransmitRecorder) Entries() []TraceEntry {
	if r == nil {
		return nil
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	entries := make([]TraceEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

func (r *TransmitRecorder) Len() int {
	if r == nil {
		return 0
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.entries)
}

func (r *TransmitRecorder) Reset() {
	if r == nil {
		return
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entries = nil
}
