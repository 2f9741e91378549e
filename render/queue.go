package render

import "sync"

// CommandQueue collects deferred draw commands. Submit may be called from any
// goroutine; Flush runs them in submission order on the caller's goroutine.
type CommandQueue struct {
	mu   sync.Mutex
	cmds []func()
}

func (q *CommandQueue) Submit(cmd func()) {
	if cmd == nil {
		return
	}
	q.mu.Lock()
	q.cmds = append(q.cmds, cmd)
	q.mu.Unlock()
}

// Flush runs and clears every queued command. Commands submitted while
// flushing are kept for the next flush.
func (q *CommandQueue) Flush() int {
	q.mu.Lock()
	cmds := q.cmds
	q.cmds = nil
	q.mu.Unlock()

	for _, cmd := range cmds {
		cmd()
	}
	return len(cmds)
}

func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cmds)
}
