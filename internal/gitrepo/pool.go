package gitrepo

import "sync"

// Pool fans repository specs out across a bounded set of workers. Results
// arrive in completion order; callers must not rely on input order.
type Pool struct {
	Workers int
	Process func(RepoSpec) Outcome
	// OnDone is invoked once per finished unit, from the worker goroutine.
	OnDone func(Outcome)
}

// Run processes every spec and collects the outcomes. Workers run their
// units to completion independently; a failed unit never cancels siblings.
func (p *Pool) Run(specs []RepoSpec) []Outcome {
	work := make(chan RepoSpec)
	results := make(chan Outcome)

	workerWaitGroup := sync.WaitGroup{}
	for i := 0; i < p.Workers; i++ {
		workerWaitGroup.Add(1)
		go func() {
			defer workerWaitGroup.Done()
			for spec := range work {
				outcome := p.Process(spec)
				if p.OnDone != nil {
					p.OnDone(outcome)
				}
				results <- outcome
			}
		}()
	}

	go func() {
		for _, spec := range specs {
			work <- spec
		}
		close(work)
	}()

	go func() {
		workerWaitGroup.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, 0, len(specs))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
