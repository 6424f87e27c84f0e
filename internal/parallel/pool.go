// Package parallel runs independent jobs on a fixed set of goroutines.
//
// facedump uses it to open many faces against one shared fontface.Library;
// the library mutex serializes the engine calls, the pool bounds how many
// goroutines wait on it.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines, each with its own queue.
// An idle worker steals from the other queues before blocking on its own.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case job := <-own:
			run(job)
		default:
			if job := p.steal(id); job != nil {
				run(job)
				continue
			}
			select {
			case <-p.done:
				drain(own)
				return
			case job := <-own:
				run(job)
			}
		}
	}
}

func run(job func()) {
	if job != nil {
		job()
	}
}

// drain runs what is left in queue without blocking.
func drain(queue chan func()) {
	for {
		select {
		case job := <-queue:
			run(job)
		default:
			return
		}
	}
}

// steal takes one job from another worker's queue, or returns nil.
func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

// Map calls fn(i) for every i in [0, n) on the pool and waits for all calls
// to return. Results are collected by fn itself, typically into a slice
// indexed by i. After Close, Map runs nothing.
func (p *Pool) Map(n int, fn func(i int)) {
	if n <= 0 || !p.running.Load() {
		return
	}

	var pending sync.WaitGroup
	pending.Add(n)
	for i := range n {
		job := func() {
			defer pending.Done()
			fn(i)
		}
		select {
		case p.queues[i%p.workers] <- job:
		case <-p.done:
			pending.Done()
		}
	}
	pending.Wait()
}

// Submit queues a single job on the shortest queue. After Close it is a no-op.
func (p *Pool) Submit(job func()) {
	if job == nil || !p.running.Load() {
		return
	}

	shortest := 0
	for i := 1; i < p.workers; i++ {
		if len(p.queues[i]) < len(p.queues[shortest]) {
			shortest = i
		}
	}
	select {
	case p.queues[shortest] <- job:
	case <-p.done:
	}
}

// Close stops accepting work, runs what is already queued and waits for the
// workers to exit. Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *Pool) Workers() int { return p.workers }

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool { return p.running.Load() }
