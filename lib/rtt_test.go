package lib

import (
	"testing"
)

func TestRttSample(t *testing.T) {
	testCases := []struct {
		name           string
		srtt, rttvar   uint32
		sample         uint32
		expectedSrtt   uint32
		expectedRttvar uint32
		expectedRto    uint32
	}{
		{
			// steady state: sample equals the estimate
			name: "steady", srtt: 100, rttvar: 50, sample: 100,
			// err=0, srtt stays 100; rttvar += (0-50)>>2 = -13 -> 37
			expectedSrtt: 100, expectedRttvar: 37, expectedRto: 1000, // 100+4*37=248 clamps to RtoMin
		},
		{
			// big jump upward
			name: "spike", srtt: 100, rttvar: 50, sample: 900,
			// err=800, srtt += 800>>3 = 100 -> 200; rttvar += (800-50)>>2 = 187 -> 237
			expectedSrtt: 200, expectedRttvar: 237, expectedRto: 1148, // 200+4*237
		},
		{
			// sample below the estimate, negative error truncates toward
			// negative infinity like a C right shift
			name: "drop", srtt: 100, rttvar: 50, sample: 10,
			// err=-90, srtt += -90>>3 = -12 -> 88; rttvar += (90-50)>>2 = 10 -> 60
			expectedSrtt: 88, expectedRttvar: 60, expectedRto: 1000, // 88+240=328 clamps to RtoMin
		},
	}

	for _, tc := range testCases {
		e := NewRttEstimator(tc.srtt, tc.rttvar, 1000, 120000)
		e.Sample(tc.sample)
		if e.SRTT() != tc.expectedSrtt {
			t.Errorf("%s: expected srtt %d, got %d", tc.name, tc.expectedSrtt, e.SRTT())
		}
		if e.RTTVar() != tc.expectedRttvar {
			t.Errorf("%s: expected rttvar %d, got %d", tc.name, tc.expectedRttvar, e.RTTVar())
		}
		if e.RTO() != tc.expectedRto {
			t.Errorf("%s: expected rto %d, got %d", tc.name, tc.expectedRto, e.RTO())
		}
	}
}

func TestRttRtoUpperClamp(t *testing.T) {
	e := NewRttEstimator(100000, 20000, 1000, 120000)
	e.Sample(200000)
	// srtt = 100000 + (100000>>3) = 112500, rttvar = 20000 + (80000>>2) = 40000
	// raw rto = 112500 + 160000 far beyond the cap
	if e.RTO() != 120000 {
		t.Errorf("expected rto clamped to 120000, got %d", e.RTO())
	}
}

func TestRttBackoffBound(t *testing.T) {
	// repeated backoff without a fresh sample doubles RTO up to the cap:
	// 1000, 2000, ..., 64000, then 128000 would exceed the cap
	e := NewRttEstimator(100, 50, 1000, 120000)
	expected := []uint32{2000, 4000, 8000, 16000, 32000, 64000, 120000, 120000}
	for i, want := range expected {
		e.Backoff()
		if e.RTO() != want {
			t.Errorf("after %d backoffs, expected rto %d, got %d", i+1, want, e.RTO())
		}
	}
}

func TestRttSampleResetsBackoff(t *testing.T) {
	e := NewRttEstimator(100, 50, 1000, 120000)
	for i := 0; i < 5; i++ {
		e.Backoff()
	}
	e.Sample(100)
	if e.RTO() != 1000 {
		t.Errorf("expected rto back at RtoMin after a fresh sample, got %d", e.RTO())
	}
}
