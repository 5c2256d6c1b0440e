package pop

import (
	"sync"
	"time"
)

// frameTimer abstracts the per-refresh timer source.
type frameTimer interface {
	Pause()
	Resume()
	IsPaused() bool
	Stop()
}

// displayLink drives ticks off a wall-clock ticker on its own goroutine.
// It starts paused; the animator resumes it once there is work.
type displayLink struct {
	mu     sync.Mutex
	paused bool
	wake   chan struct{}
	stop   chan struct{}

	interval time.Duration
	onTick   func(now float64)
}

func newDisplayLink(interval time.Duration, onTick func(now float64)) *displayLink {
	d := &displayLink{
		paused:   true,
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		interval: interval,
		onTick:   onTick,
	}
	go d.run()
	return d
}

func (d *displayLink) run() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if d.IsPaused() {
			ticker.Stop()
			select {
			case <-d.wake:
				ticker.Reset(d.interval)
			case <-d.stop:
				return
			}
			continue
		}

		select {
		case <-ticker.C:
			d.onTick(Now())
		case <-d.wake:
		case <-d.stop:
			return
		}
	}
}

func (d *displayLink) Pause() {
	d.mu.Lock()
	d.paused = true
	d.mu.Unlock()
}

func (d *displayLink) Resume() {
	d.mu.Lock()
	was := d.paused
	d.paused = false
	d.mu.Unlock()

	if was {
		select {
		case d.wake <- struct{}{}:
		default:
		}
	}
}

func (d *displayLink) IsPaused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

func (d *displayLink) Stop() {
	close(d.stop)
}

// tick receives timer callouts, possibly off the render goroutine. At most
// one hand-off is in flight at a time; extra ticks are dropped, not
// queued, because only the most recent time reading matters.
func (a *Animator) tick(now float64) {
	if a.coalescingDisabled {
		select {
		case a.frames <- now:
		case <-a.closed:
		}
		return
	}

	if a.enqueued.Add(1) == 1 {
		select {
		case a.frames <- now:
		case <-a.closed:
			a.enqueued.Add(-1)
		}
	} else {
		a.enqueued.Add(-1)
	}
}

// loop is the primary execution context: all frame application and every
// observer/delegate callout happens here. Drains win over frames when both
// are ready so new registrations land before the next commit.
func (a *Animator) loop() {
	for {
		select {
		case <-a.drainCh:
			a.drainPending()
			continue
		case <-a.closed:
			return
		default:
		}

		select {
		case <-a.drainCh:
			a.drainPending()
		case now := <-a.frames:
			if !a.coalescingDisabled {
				a.enqueued.Add(-1)
			}
			a.renderPass(now, a.snapshotItems())
		case <-a.closed:
			return
		}
	}
}

var processStart = time.Now()

// Now returns the animator clock reading: monotonic seconds since process
// start.
func Now() float64 {
	return time.Since(processStart).Seconds()
}
