package capture

// frameMeta is the ingest-time metadata kept for a picture-data unit until
// the matching decode-completion callback arrives.
type frameMeta struct {
	frameNumber   int
	frameType     int
	receiveTimeMS int64
	enqueueTimeMS int64
}

func (m frameMeta) queueDelayMS() int64 {
	d := m.enqueueTimeMS - m.receiveTimeMS
	if d < 0 {
		return 0
	}
	return d
}

// pendingFrames correlates decode-completion events with their ingest-time
// metadata, keyed by presentation timestamp. Entries that never get
// reconciled stay in the table until the session is discarded; the decode
// pipeline's outstanding-frame depth keeps the table small in practice.
type pendingFrames struct {
	byPTS map[int64]frameMeta
}

func newPendingFrames() *pendingFrames {
	return &pendingFrames{byPTS: make(map[int64]frameMeta)}
}

// record inserts or overwrites the entry for the given presentation
// timestamp. Timestamps are assumed unique per frame.
func (p *pendingFrames) record(ptsUS int64, m frameMeta) {
	p.byPTS[ptsUS] = m
}

// reconcile removes and returns the entry for the given presentation
// timestamp, if present.
func (p *pendingFrames) reconcile(ptsUS int64) (frameMeta, bool) {
	m, ok := p.byPTS[ptsUS]
	if ok {
		delete(p.byPTS, ptsUS)
	}
	return m, ok
}

func (p *pendingFrames) size() int {
	return len(p.byPTS)
}
