package lib

// RttEstimator keeps the smoothed round-trip time and its variance and
// derives the retransmission timeout from them (Jacobson/Karels). The
// gain terms are arithmetic right shifts, not rounded divisions, to keep
// the integer truncation behavior of the classic implementation.
type RttEstimator struct {
	srtt   uint32 // smoothed RTT, milliseconds
	rttvar uint32 // RTT variance, milliseconds
	rto    uint32 // retransmission timeout, milliseconds
	rtoMin uint32
	rtoMax uint32
}

func NewRttEstimator(initialSRTT, initialRTTVar, rtoMin, rtoMax uint32) *RttEstimator {
	if rtoMin == 0 {
		rtoMin = DefaultRtoMin
	}
	if rtoMax == 0 {
		rtoMax = DefaultRtoMax
	}
	return &RttEstimator{
		srtt:   initialSRTT,
		rttvar: initialRTTVar,
		rto:    rtoMin,
		rtoMin: rtoMin,
		rtoMax: rtoMax,
	}
}

// Sample feeds one round-trip measurement into the estimator:
//
//	srtt   += (rtt - srtt) >> 3
//	rttvar += (|rtt - srtt| - rttvar) >> 2
//	rto     = srtt + 4*rttvar, clamped to [rtoMin, rtoMax]
//
// Only measurements from segments that were never retransmitted may be fed
// in (Karn's rule); enforcing that is the caller's job since only it knows
// the segment's retransmission history.
func (e *RttEstimator) Sample(rttMs uint32) {
	err := int32(rttMs) - int32(e.srtt)

	e.srtt = uint32(int32(e.srtt) + (err >> 3)) // srtt = 7/8 srtt + 1/8 rtt
	if err < 0 {
		err = -err
	}
	e.rttvar = uint32(int32(e.rttvar) + ((err - int32(e.rttvar)) >> 2)) // rttvar = 3/4 rttvar + 1/4 |err|

	e.rto = e.srtt + e.rttvar<<2
	if e.rto < e.rtoMin {
		e.rto = e.rtoMin
	}
	if e.rto > e.rtoMax {
		e.rto = e.rtoMax
	}
}

// Backoff doubles the RTO up to the upper bound. Called once per timeout
// burst; the next real sample recomputes the RTO from the estimate again.
func (e *RttEstimator) Backoff() {
	if e.rto*2 < e.rtoMax {
		e.rto = e.rto * 2
	} else {
		e.rto = e.rtoMax
	}
}

func (e *RttEstimator) SRTT() uint32 {
	return e.srtt
}

func (e *RttEstimator) RTTVar() uint32 {
	return e.rttvar
}

func (e *RttEstimator) RTO() uint32 {
	return e.rto
}
