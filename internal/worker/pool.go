package worker

import (
	"log"
	"sync"
)

// Task is a unit of background work, e.g. sending a mail or indexing a game.
type Task func()

// Pool runs tasks off the request path.
type Pool interface {
	Submit(Task)
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task, n)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				run(job)
			}
		}()
	}
	return p
}

type pool struct {
	mu      sync.RWMutex
	stopped bool
	jobs    chan Task
	wg      sync.WaitGroup
}

// run 執行單一任務，panic 不會拖垮 worker
func run(job Task) {
	if job == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker: task panicked: %v", r)
		}
	}()
	job()
}

// Submit 在 Stop 之後呼叫會直接丟棄任務
func (p *pool) Submit(t Task) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		log.Printf("worker: pool stopped, dropping task")
		return
	}
	p.jobs <- t
}

// Stop waits for queued tasks to finish. Calling it twice is safe.
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// FakePool runs tasks inline unless SubmitFn is set.
type FakePool struct {
	SubmitFn func(Task)
	StopFn   func()
}

func (f *FakePool) Submit(t Task) {
	if f.SubmitFn != nil {
		f.SubmitFn(t)
		return
	}
	run(t)
}

func (f *FakePool) Stop() {
	if f.StopFn != nil {
		f.StopFn()
	}
}
