package capture

import "testing"

func TestPendingRecordReconcile(t *testing.T) {
	p := newPendingFrames()

	p.record(1000, frameMeta{frameNumber: 1, frameType: 0, receiveTimeMS: 50, enqueueTimeMS: 80})
	p.record(2000, frameMeta{frameNumber: 2, frameType: 1, receiveTimeMS: 90, enqueueTimeMS: 95})

	m, ok := p.reconcile(1000)
	if !ok {
		t.Fatal("reconcile(1000) not found")
	}
	if m.frameNumber != 1 || m.queueDelayMS() != 30 {
		t.Errorf("got frame %d delay %d, want frame 1 delay 30", m.frameNumber, m.queueDelayMS())
	}

	// Removal is part of reconcile.
	if _, ok := p.reconcile(1000); ok {
		t.Error("reconcile(1000) succeeded twice")
	}
	if p.size() != 1 {
		t.Errorf("size = %d, want 1", p.size())
	}
}

func TestPendingUnknownTimestamp(t *testing.T) {
	p := newPendingFrames()
	if _, ok := p.reconcile(42); ok {
		t.Error("reconcile on empty table succeeded")
	}
}

func TestPendingOverwriteOnCollision(t *testing.T) {
	p := newPendingFrames()
	p.record(500, frameMeta{frameNumber: 10})
	p.record(500, frameMeta{frameNumber: 11})

	m, ok := p.reconcile(500)
	if !ok || m.frameNumber != 11 {
		t.Errorf("got (%v, %v), want frame 11", m.frameNumber, ok)
	}
	if p.size() != 0 {
		t.Errorf("size = %d, want 0", p.size())
	}
}

func TestQueueDelayClampsNegative(t *testing.T) {
	m := frameMeta{receiveTimeMS: 100, enqueueTimeMS: 60}
	if d := m.queueDelayMS(); d != 0 {
		t.Errorf("queueDelayMS = %d, want 0", d)
	}
}
