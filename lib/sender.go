package lib

import (
	"log"
	"sync"

	"github.com/Clouded-Sabre/sendpath/config"
	"github.com/pkg/errors"
)

// SenderConfig carries the per-connection settings of the send engine,
// derived from the global config.
type SenderConfig struct {
	MSS             int    // maximum segment payload size in bytes
	MaxSegments     int    // outstanding segment capacity
	MaxRetries      int    // per-segment retransmission ceiling
	RtoMin          int    // milliseconds
	RtoMax          int    // milliseconds
	InitCwnd        int    // initial congestion window in segments
	InitSsthresh    int    // initial slow start threshold in bytes
	InitialSRTT     int    // milliseconds
	InitialRTTVar   int    // milliseconds
	InitialSeq      uint32 // first sequence number to assign
	InitialRcvNxt   uint32 // ack number carried in outgoing segment headers
	LocalPort       uint16
	RemotePort      uint16
	PayloadPoolSize int
	PoolDebug       bool
	TraceEnabled    bool
}

func NewSenderConfig(conf *config.Config) *SenderConfig {
	if conf == nil {
		conf = config.DefaultConfig()
	}
	return &SenderConfig{
		MSS:             conf.PreferredMSS,
		MaxSegments:     conf.MaxSegments,
		MaxRetries:      conf.MaxRetries,
		RtoMin:          conf.RtoMin,
		RtoMax:          conf.RtoMax,
		InitCwnd:        conf.InitCwnd,
		InitSsthresh:    conf.InitSsthresh,
		InitialSRTT:     conf.InitialSRTT,
		InitialRTTVar:   conf.InitialRTTVar,
		InitialSeq:      1000,
		InitialRcvNxt:   2000,
		LocalPort:       12345,
		RemotePort:      80,
		PayloadPoolSize: conf.PayloadPoolSize,
		PoolDebug:       conf.PoolDebug,
		TraceEnabled:    conf.TraceEnabled,
	}
}

// Stats are the cumulative transmit-side counters of one sender.
type Stats struct {
	PacketsSent uint64
	BytesSent   uint64
	Retransmits uint64
	Timeouts    uint64
}

// Sender owns the complete send-path state of one connection: sequence
// tracking, the outstanding segment store, the RTT estimator and the
// congestion controller. It is driven entirely from the outside through
// WriteXmit, OnAck and OnTimeout; the three entry points are serialized by
// the sender's mutex, and no call blocks or sleeps.
type Sender struct {
	config   *SenderConfig
	mutex    sync.Mutex
	sndUna   uint32 // oldest unacknowledged sequence number, never decreases
	sndNxt   uint32 // next sequence number to assign
	rcvNxt   uint32 // ack number for outgoing segment headers
	rcvWnd   uint16 // peer's advertised window
	store    *SegmentStore
	rtt      *RttEstimator
	cc       *CongestionController
	recorder *TransmitRecorder
	stats    Stats
	isClosed bool
}

func NewSender(conf *SenderConfig) *Sender {
	if conf == nil {
		conf = NewSenderConfig(nil)
	}
	if conf.MSS <= 0 {
		conf.MSS = DefaultMSS
	}
	if conf.MSS < MinMSS {
		log.Printf("MSS %d is below the minimum %d, using the minimum", conf.MSS, MinMSS)
		conf.MSS = MinMSS
	}
	if conf.MaxRetries <= 0 {
		conf.MaxRetries = DefaultMaxRetries
	}

	InitPool(conf.PayloadPoolSize, conf.MSS, conf.PoolDebug)

	var recorder *TransmitRecorder
	if conf.TraceEnabled {
		recorder = NewTransmitRecorder(conf.LocalPort, conf.RemotePort)
	}

	return &Sender{
		config:   conf,
		sndUna:   conf.InitialSeq,
		sndNxt:   conf.InitialSeq,
		rcvNxt:   conf.InitialRcvNxt,
		rcvWnd:   MaxWindow,
		store:    NewSegmentStore(conf.MaxSegments),
		rtt:      NewRttEstimator(uint32(conf.InitialSRTT), uint32(conf.InitialRTTVar), uint32(conf.RtoMin), uint32(conf.RtoMax)),
		cc:       NewCongestionController(uint32(conf.MSS), uint32(conf.InitCwnd), uint32(conf.InitSsthresh)),
		recorder: recorder,
	}
}

// WriteXmit emits as many new MSS-sized segments as the congestion window
// allows, tracks them in the segment store and transmits each one. It
// returns the number of segments created; zero with a nil error simply
// means the window has no room. ErrCapacityExceeded is returned when the
// store filled up before the window was consumed, telling the caller to
// hold off until acknowledgements free space.
func (s *Sender) WriteXmit() (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	mss := uint32(s.config.MSS)
	available := s.cc.Cwnd()
	count := 0

	for available >= mss {
		seg, err := NewSegment(s.sndNxt, s.rcvNxt, ACKFlag, s.rcvWnd, byte('A'+count%26), int(mss))
		if err != nil {
			return count, err
		}
		if err := s.store.Track(seg); err != nil {
			seg.ReturnChunk()
			return count, err
		}
		s.sndNxt = SeqIncrementBy(s.sndNxt, mss)
		available -= mss
		s.transmit(seg)
		count++
	}

	return count, nil
}

// OnAck processes an incoming acknowledgment: prune covered segments, feed
// the RTT estimator when Karn's rule allows it, drive the congestion
// controller, and advance SND.UNA. An ack equal to SND.UNA is a duplicate
// ACK; one below it is stale and ignored; one beyond SND.NXT is rejected
// with ErrInvalidAck and touches no state.
func (s *Sender) OnAck(ack uint32, window uint16, rttMs uint32) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	log.Printf("Received ACK=%d, window=%d", ack, window)

	if ack == s.sndUna {
		if ack != s.sndNxt { // a duplicate only signals loss while data is in flight
			s.cc.OnDuplicateAck(s.sndNxt)
		}
		return nil
	}
	if isLess(ack, s.sndUna) {
		// already acknowledged, nothing to do
		return nil
	}
	if isGreater(ack, s.sndNxt) {
		return errors.Wrapf(ErrInvalidAck, "ACK %d is beyond SND.NXT %d", ack, s.sndNxt)
	}

	s.rcvWnd = window

	removed := s.store.Prune(ack)
	sampleOK := len(removed) > 0
	for _, seg := range removed {
		if seg.ResendCount > 0 {
			// Karn's rule: a retransmitted segment's round trip is
			// ambiguous, so the whole ACK yields no sample
			sampleOK = false
		}
	}
	if sampleOK {
		s.rtt.Sample(rttMs)
		log.Printf("RTT updated: srtt=%dms, rttvar=%dms, rto=%dms", s.rtt.SRTT(), s.rtt.RTTVar(), s.rtt.RTO())
	}
	ReturnChunks(removed)

	if s.cc.InRecovery() {
		s.cc.MaybeLeaveRecovery(ack)
	} else {
		s.cc.OnNewAck()
	}

	s.sndUna = ack
	return nil
}

// OnTimeout handles expiry of the retransmission timer: the congestion
// controller restarts slow start (entering recovery if necessary), every
// outstanding segment below its retry ceiling is retransmitted, and the
// RTO is doubled once for the whole burst. Segments that already hit the
// ceiling are reported through ErrRetryLimitExceeded and never resent.
func (s *Sender) OnTimeout() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	log.Println("Retransmission timer expired")
	s.stats.Timeouts++

	s.cc.OnRetransmissionTimeout(s.sndNxt)

	var exhausted []uint32
	s.store.AscendUnacked(s.sndNxt, func(seg *Segment) bool {
		if seg.ResendCount >= s.config.MaxRetries {
			log.Println("Max retries reached for segment with SEQ", seg.SequenceNumber)
			exhausted = append(exhausted, seg.SequenceNumber)
			return true
		}
		seg.IsRetransmission = true
		seg.ResendCount++
		s.transmit(seg)
		return true
	})

	s.rtt.Backoff()

	if len(exhausted) > 0 {
		return errors.Wrapf(ErrRetryLimitExceeded, "segments with SEQ %v", exhausted)
	}
	return nil
}

// transmit is the side effect standing in for real packet I/O: counters,
// a log line, and the optional header trace.
func (s *Sender) transmit(seg *Segment) {
	log.Printf("Transmitting segment: SEQ=%d, LEN=%d, FLAGS=0x%02x", seg.SequenceNumber, seg.Length, seg.Flags)

	s.stats.PacketsSent++
	s.stats.BytesSent += uint64(seg.Length)
	if seg.IsRetransmission {
		s.stats.Retransmits++
	}

	if s.recorder != nil {
		if err := s.recorder.record(seg); err != nil {
			log.Println("Error recording transmitted segment:", err)
		}
	}
}

// Close tears the sender down, discarding all outstanding segments and
// returning their payload chunks to the pool.
func (s *Sender) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.isClosed {
		return
	}
	s.store.Reset()
	s.isClosed = true
}

func (s *Sender) SndUna() uint32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sndUna
}

func (s *Sender) SndNxt() uint32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sndNxt
}

func (s *Sender) Cwnd() uint32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.cc.Cwnd()
}

func (s *Sender) Ssthresh() uint32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.cc.Ssthresh()
}

func (s *Sender) InRecovery() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.cc.InRecovery()
}

func (s *Sender) RTO() uint32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.rtt.RTO()
}

func (s *Sender) SRTT() uint32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.rtt.SRTT()
}

func (s *Sender) RTTVar() uint32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.rtt.RTTVar()
}

func (s *Sender) Outstanding() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.store.Len()
}

func (s *Sender) OutstandingBytes() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.store.OutstandingBytes()
}

func (s *Sender) Stats() Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats
}

func (s *Sender) Recorder() *TransmitRecorder {
	return s.recorder
}
