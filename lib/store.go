package lib

import (
	"sync"

	rp "github.com/Clouded-Sabre/ringpool/lib"
	"github.com/google/btree"
	"github.com/pkg/errors"
)

// SegmentStore holds the sent but not yet acknowledged segments of one
// connection, ordered by sequence number. It has a fixed capacity; a full
// store is the back-pressure signal that stops the transmit scheduler.
type SegmentStore struct {
	mutex       sync.Mutex
	tree        *btree.BTreeG[*Segment]
	maxSegments int
	totalBytes  int
}

func NewSegmentStore(maxSegments int) *SegmentStore {
	if maxSegments <= 0 {
		maxSegments = DefaultMaxSegments
	}
	return &SegmentStore{
		tree: btree.NewG(2, func(a, b *Segment) bool {
			return a.SequenceNumber < b.SequenceNumber
		}),
		maxSegments: maxSegments,
	}
}

// Track inserts a newly transmitted segment into the store.
func (s *SegmentStore) Track(seg *Segment) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.tree.Len() >= s.maxSegments {
		return errors.Wrapf(ErrCapacityExceeded, "segment with SEQ %d rejected, %d segments outstanding", seg.SequenceNumber, s.tree.Len())
	}
	s.tree.ReplaceOrInsert(seg)
	s.totalBytes += seg.Length
	return nil
}

// Prune removes every segment fully covered by ack (SEQ + length <= ack) in
// ascending SEQ order and returns the removed segments. Segments only
// partially covered are left untouched; removal is all-or-nothing per
// segment. The returned segments still own their payload chunks so the
// caller can inspect them before calling ReturnChunks.
func (s *SegmentStore) Prune(ack uint32) []*Segment {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var removed []*Segment
	s.tree.Ascend(func(seg *Segment) bool {
		if isLessOrEqual(seg.endSeq(), ack) {
			removed = append(removed, seg)
			return true
		}
		return false // segments are SEQ ordered, nothing further is covered
	})

	var fp int
	for _, seg := range removed {
		if rp.Debug && seg.GetChunkReference() != nil {
			fp = seg.AddFootPrint("SegmentStore.Prune")
		}
		s.tree.Delete(seg)
		s.totalBytes -= seg.Length
		if rp.Debug && seg.GetChunkReference() != nil {
			seg.TickFootPrint(fp)
		}
	}
	return removed
}

// AscendUnacked walks the outstanding segments with SEQ below seqLimit in
// ascending order, calling fn for each until fn returns false or the limit
// is reached. Each call restarts the walk from the lowest SEQ.
func (s *SegmentStore) AscendUnacked(seqLimit uint32, fn func(seg *Segment) bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tree.Ascend(func(seg *Segment) bool {
		if !isLess(seg.SequenceNumber, seqLimit) {
			return false
		}
		return fn(seg)
	})
}

func (s *SegmentStore) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.tree.Len()
}

// OutstandingBytes is the total payload byte count currently tracked.
func (s *SegmentStore) OutstandingBytes() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.totalBytes
}

// Reset discards all tracked segments and returns their payload chunks to
// the pool. Used at connection teardown.
func (s *SegmentStore) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tree.Ascend(func(seg *Segment) bool {
		seg.ReturnChunk()
		return true
	})
	s.tree.Clear(false)
	s.totalBytes = 0
}

// ReturnChunks hands the payload chunks of pruned segments back to the pool.
func ReturnChunks(segments []*Segment) {
	for _, seg := range segments {
		seg.ReturnChunk()
	}
}
