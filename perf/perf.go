// Package perf tracks frame rate and process resource usage for the HUD.
package perf

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// FrameCounter averages the frame rate over a fixed window.
type FrameCounter struct {
	window time.Duration

	frames  int
	elapsed time.Duration

	fps       float64
	frameTime time.Duration
}

func NewFrameCounter(window time.Duration) *FrameCounter {
	if window <= 0 {
		window = 100 * time.Millisecond
	}
	return &FrameCounter{window: window}
}

// Frame records one frame that took dt. It reports whether the average was
// refreshed.
func (f *FrameCounter) Frame(dt time.Duration) bool {
	f.frameTime = dt
	f.frames++
	f.elapsed += dt
	if f.elapsed < f.window {
		return false
	}
	f.fps = float64(f.frames) / f.elapsed.Seconds()
	f.frames = 0
	f.elapsed = 0
	return true
}

func (f *FrameCounter) FPS() float64 {
	return f.fps
}

// FrameTime is the duration of the last recorded frame.
func (f *FrameCounter) FrameTime() time.Duration {
	return f.frameTime
}

// Usage is a sample of the process resource consumption.
type Usage struct {
	CPUPercent float64
	RSS        uint64
	Goroutines int
	SampledAt  time.Time
}

func (u Usage) RSSMegabytes() float64 {
	return float64(u.RSS) / 1024 / 1024
}

func (u Usage) String() string {
	return fmt.Sprintf("CPU: %.1f%%  RSS: %.1f MB  Goroutines: %d", u.CPUPercent, u.RSSMegabytes(), u.Goroutines)
}

// Sampler polls the current process in the background.
type Sampler struct {
	proc *process.Process

	mu   sync.RWMutex
	last Usage
}

// NewSampler opens the current process for sampling.
func NewSampler() (*Sampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open process: %w", err)
	}
	return &Sampler{proc: proc}, nil
}

// Sample reads CPU and memory usage now and stores the result.
func (s *Sampler) Sample() (Usage, error) {
	u := Usage{Goroutines: runtime.NumGoroutine(), SampledAt: time.Now()}

	cpu, err := s.proc.CPUPercent()
	if err != nil {
		return u, fmt.Errorf("cpu percent: %w", err)
	}
	u.CPUPercent = cpu

	mem, err := s.proc.MemoryInfo()
	if err != nil {
		return u, fmt.Errorf("memory info: %w", err)
	}
	u.RSS = mem.RSS

	s.mu.Lock()
	s.last = u
	s.mu.Unlock()
	return u, nil
}

// Last returns the most recent successful sample.
func (s *Sampler) Last() Usage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Run samples every interval until ctx is done. Errors are passed to
// onError, which may be nil.
func (s *Sampler) Run(ctx context.Context, interval time.Duration, onError func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Sample(); err != nil && onError != nil {
			onError(err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
