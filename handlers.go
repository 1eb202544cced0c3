package taskpool

// reportInternalError reports a non-task failure such as a worker
// setup issue. If no handler is registered, the error is dropped.
func (p *Pool[T, R]) reportInternalError(err error) {
	if p.onInternalError != nil {
		p.onInternalError(err)
	}
}

// reportJobError reports an error returned by a task body or produced
// by panic recovery. Task errors do not stop worker execution.
func (p *Pool[T, R]) reportJobError(err error) {
	if p.onJobError != nil {
		p.onJobError(err)
	}
}

func (s *StealingScheduler[T]) reportInternalError(err error) {
	if s.onInternalError != nil {
		s.onInternalError(err)
	}
}

func (s *StealingScheduler[T]) reportJobError(err error) {
	if s.onJobError != nil {
		s.onJobError(err)
	}
}
