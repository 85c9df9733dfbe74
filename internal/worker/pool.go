package worker

import (
	"sync"

	"github.com/nickcheng/taskapp-backend/internal/metrics"
)

type task func()

// Pool runs CPU-bound and fire-and-forget jobs (image re-encoding, mail
// dispatch) on a fixed number of goroutines so they cannot saturate the
// request-accept path.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan task
}

func NewPool(n int) *Pool {
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
				metrics.WorkerQueueDepth.Dec()
			}
		}()
	}
	return p
}

func (p *Pool) Submit(f task) {
	metrics.WorkerQueueDepth.Inc()
	p.jobs <- f
}

// SubmitWait runs f on the pool and blocks until it finishes. Used for work
// whose result the request still needs, like image re-encoding.
func (p *Pool) SubmitWait(f func()) {
	done := make(chan struct{})
	p.Submit(func() {
		defer close(done)
		f()
	})
	<-done
}

func (p *Pool) Stop() { close(p.jobs); p.wg.Wait() }
