package lib

import (
	"log"
)

// CongestionController implements Reno congestion control for one
// connection's send path: slow start, congestion avoidance, fast-recovery
// window inflation on duplicate ACKs, and a full slow-start restart on
// retransmission timeout. All transitions are pure state plus arithmetic;
// cwnd and ssthresh never drop below one MSS.
type CongestionController struct {
	mss           uint32
	cwnd          uint32 // congestion window, bytes
	ssthresh      uint32 // slow start threshold, bytes
	inRecovery    bool
	recoveryPoint uint32 // end of the loss episode; meaningful only while inRecovery
}

func NewCongestionController(mss, initCwndSegments, initSsthresh uint32) *CongestionController {
	if mss == 0 {
		mss = DefaultMSS
	}
	if initCwndSegments == 0 {
		initCwndSegments = DefaultInitCwnd
	}
	if initSsthresh == 0 {
		initSsthresh = DefaultInitSsthresh
	}
	return &CongestionController{
		mss:      mss,
		cwnd:     initCwndSegments * mss,
		ssthresh: initSsthresh,
	}
}

// OnNewAck grows the window for an ACK that covers previously unacked
// data: one MSS per ACK below ssthresh (slow start, exponential per RTT),
// roughly one MSS per RTT above it (congestion avoidance).
func (c *CongestionController) OnNewAck() {
	if c.cwnd < c.ssthresh {
		c.cwnd += c.mss // slow start
	} else {
		c.cwnd += c.mss * c.mss / c.cwnd // congestion avoidance
	}
}

// OnDuplicateAck reacts to a duplicate acknowledgment: halve the window,
// inflate by three segments to keep data flowing, and enter recovery until
// sndNxt is covered. Duplicate ACKs while already in recovery are ignored.
func (c *CongestionController) OnDuplicateAck(sndNxt uint32) {
	if c.inRecovery {
		return
	}
	c.ssthresh = c.floorMSS(c.cwnd / 2)
	c.cwnd = c.ssthresh + 3*c.mss
	c.enterRecovery(sndNxt)
}

// OnRetransmissionTimeout restarts slow start from a single segment. The
// transition applies whether or not the controller is in recovery; if it is
// not, recovery is entered at sndNxt.
func (c *CongestionController) OnRetransmissionTimeout(sndNxt uint32) {
	if !c.inRecovery {
		c.enterRecovery(sndNxt)
	}
	c.ssthresh = c.floorMSS(c.cwnd / 2)
	c.cwnd = c.mss
}

// MaybeLeaveRecovery clears the recovery state once ack reaches the
// recovery point. Returns true if recovery was left.
func (c *CongestionController) MaybeLeaveRecovery(ack uint32) bool {
	if !c.inRecovery || isLess(ack, c.recoveryPoint) {
		return false
	}
	c.inRecovery = false
	log.Println("Leaving recovery mode")
	return true
}

func (c *CongestionController) enterRecovery(sndNxt uint32) {
	c.inRecovery = true
	c.recoveryPoint = sndNxt
	log.Println("Entering recovery mode with recovery point", c.recoveryPoint)
}

func (c *CongestionController) floorMSS(v uint32) uint32 {
	if v < c.mss {
		return c.mss
	}
	return v
}

func (c *CongestionController) Cwnd() uint32 {
	return c.cwnd
}

func (c *CongestionController) Ssthresh() uint32 {
	return c.ssthresh
}

func (c *CongestionController) InRecovery() bool {
	return c.inRecovery
}

func (c *CongestionController) RecoveryPoint() uint32 {
	return c.recoveryPoint
}
