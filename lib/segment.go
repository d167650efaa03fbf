package lib

import (
	"fmt"
	"log"

	rp "github.com/Clouded-Sabre/ringpool/lib"
)

// Segment represents one outstanding unit of data on the send path. It is
// created by the transmit scheduler and owned by the segment store until
// acknowledged or discarded.
type Segment struct {
	SequenceNumber    uint32      // SequenceNumber is the starting sequence number, unique while outstanding
	AcknowledgmentNum uint32      // AcknowledgmentNum carried in the segment header
	WindowSize        uint16      // WindowSize advertised in the segment header
	Flags             uint8       // Flags represent various control flags
	Length            int         // Length is the payload length in bytes
	ResendCount       int         // Number of times the segment has been retransmitted
	IsRetransmission  bool        // true once the segment has been resent at least once
	Payload           []byte      // Payload represents the payload data
	chunk             *rp.Element // memory chunk used to store payload
}

// NewSegment builds a segment with a pooled payload chunk filled with the
// given byte pattern.
func NewSegment(seq, ackNum uint32, flags uint8, windowSize uint16, fill byte, length int) (*Segment, error) {
	seg := &Segment{
		SequenceNumber:    seq,
		AcknowledgmentNum: ackNum,
		WindowSize:        windowSize,
		Flags:             flags,
		Length:            length,
	}
	if length > 0 {
		if err := seg.fillPayload(fill, length); err != nil {
			log.Println("NewSegment error:", err)
			return nil, err
		}
	}
	return seg, nil
}

func (s *Segment) fillPayload(b byte, n int) error {
	s.getChunk()
	if s.chunk == nil {
		err := fmt.Errorf("Segment.fillPayload: Got a nil chunk")
		log.Println(err)
		return err
	}
	if err := s.chunk.Data.(*Payload).Fill(b, n); err != nil {
		s.ReturnChunk()
		return fmt.Errorf("Segment.fillPayload: %s", err)
	}
	s.Payload = s.chunk.Data.(*Payload).GetSlice()
	return nil
}

// CopyToPayload copies caller data into a pooled chunk.
func (s *Segment) CopyToPayload(src []byte) error {
	if len(src) == 0 {
		err := fmt.Errorf("Segment.CopyToPayload: Source slice is empty")
		log.Println(err)
		return err
	}
	s.getChunk()
	if s.chunk == nil {
		err := fmt.Errorf("Segment.CopyToPayload: Got a nil chunk")
		log.Println(err)
		return err
	}
	if err := s.chunk.Data.(*Payload).Copy(src); err != nil {
		s.ReturnChunk()
		return fmt.Errorf("Segment.CopyToPayload: %s", err)
	}
	s.Payload = s.chunk.Data.(*Payload).GetSlice()
	s.Length = len(s.Payload)
	return nil
}

func (s *Segment) ReturnChunk() {
	if s.chunk != nil {
		Pool.ReturnElement(s.chunk)
		s.chunk = nil
	}
}

func (s *Segment) getChunk() {
	s.chunk = Pool.GetElement()
}

func (s *Segment) GetChunkReference() *rp.Element {
	return s.chunk
}

func (s *Segment) AddFootPrint(fpStr string) int {
	return s.chunk.AddFootPrint(fpStr)
}

func (s *Segment) TickFootPrint(fp int) {
	s.chunk.TickFootPrint(fp)
}

// endSeq is the sequence number right after this segment's payload.
func (s *Segment) endSeq() uint32 {
	return SeqIncrementBy(s.SequenceNumber, uint32(s.Length))
}
