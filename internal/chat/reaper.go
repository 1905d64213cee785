package chat

import (
	"sync"
	"time"
)

type reapTask struct {
	timer      *time.Timer
	generation uint64
}

// Reaper runs one deferred check per username after its connection drops.
// Scheduling again for the same username replaces the pending check.
type Reaper struct {
	mu      sync.Mutex
	tasks   map[string]reapTask
	stopped bool
}

// NewReaper returns an idle reaper.
func NewReaper() *Reaper {
	return &Reaper{tasks: make(map[string]reapTask)}
}

// Schedule runs fn after delay unless the task for username is cancelled or
// replaced first.
func (r *Reaper) Schedule(username string, generation uint64, delay time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	if prev, ok := r.tasks[username]; ok {
		prev.timer.Stop()
	}
	r.tasks[username] = reapTask{
		generation: generation,
		timer: time.AfterFunc(delay, func() {
			if r.claim(username, generation) {
				fn()
			}
		}),
	}
}

// claim removes the task if it is still the current one for username.
func (r *Reaper) claim(username string, generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[username]
	if !ok || task.generation != generation {
		return false
	}
	delete(r.tasks, username)
	return true
}

// Cancel drops the pending task for username and reports whether one existed.
func (r *Reaper) Cancel(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[username]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(r.tasks, username)
	return true
}

// Pending reports how many checks are scheduled.
func (r *Reaper) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Stop cancels every pending task. Later calls to Schedule are ignored.
func (r *Reaper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped = true
	for username, task := range r.tasks {
		task.timer.Stop()
		delete(r.tasks, username)
	}
}
