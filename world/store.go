package world

// ChunkStore owns the resident chunks and the queue of coordinates waiting
// to be generated. It is not safe for concurrent use; only the goroutine
// driving the Region touches it.
type ChunkStore struct {
	chunks map[ChunkCoord]*Chunk

	queue  []ChunkCoord
	queued map[ChunkCoord]struct{}
}

func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkCoord]*Chunk),
		queued: make(map[ChunkCoord]struct{}),
	}
}

func (s *ChunkStore) Get(c ChunkCoord) (*Chunk, bool) {
	ch, ok := s.chunks[c]
	return ch, ok
}

func (s *ChunkStore) Has(c ChunkCoord) bool {
	_, ok := s.chunks[c]
	return ok
}

// Insert makes ch resident. It returns false if the coordinate already is,
// leaving the store unchanged. The coordinate is dropped from the queue.
func (s *ChunkStore) Insert(ch *Chunk) bool {
	if s.Has(ch.coord) {
		return false
	}
	s.chunks[ch.coord] = ch
	if _, ok := s.queued[ch.coord]; ok {
		delete(s.queued, ch.coord)
		for i, c := range s.queue {
			if c == ch.coord {
				s.queue = append(s.queue[:i], s.queue[i+1:]...)
				break
			}
		}
	}
	return true
}

func (s *ChunkStore) Remove(c ChunkCoord) {
	delete(s.chunks, c)
}

// Len is the number of resident chunks.
func (s *ChunkStore) Len() int {
	return len(s.chunks)
}

// Range calls fn for every resident chunk until fn returns false. fn may
// remove the chunk it was given.
func (s *ChunkStore) Range(fn func(*Chunk) bool) {
	for _, ch := range s.chunks {
		if !fn(ch) {
			return
		}
	}
}

// ResetQueue replaces the queue with coords, keeping their order and
// skipping resident and repeated coordinates.
func (s *ChunkStore) ResetQueue(coords []ChunkCoord) {
	s.queue = s.queue[:0]
	clear(s.queued)
	for _, c := range coords {
		s.Enqueue(c)
	}
}

// Enqueue appends c unless it is resident or already queued.
func (s *ChunkStore) Enqueue(c ChunkCoord) bool {
	if s.Has(c) {
		return false
	}
	if _, ok := s.queued[c]; ok {
		return false
	}
	s.queued[c] = struct{}{}
	s.queue = append(s.queue, c)
	return true
}

// Peek returns the head of the queue without removing it.
func (s *ChunkStore) Peek() (ChunkCoord, bool) {
	if len(s.queue) == 0 {
		return ChunkCoord{}, false
	}
	return s.queue[0], true
}

// Pop removes and returns the head of the queue.
func (s *ChunkStore) Pop() (ChunkCoord, bool) {
	c, ok := s.Peek()
	if !ok {
		return c, false
	}
	s.queue = s.queue[1:]
	delete(s.queued, c)
	return c, true
}

func (s *ChunkStore) QueueLen() int {
	return len(s.queue)
}

func (s *ChunkStore) IsQueued(c ChunkCoord) bool {
	_, ok := s.queued[c]
	return ok
}

// Queue returns a copy of the pending coordinates in order.
func (s *ChunkStore) Queue() []ChunkCoord {
	return append([]ChunkCoord(nil), s.queue...)
}
