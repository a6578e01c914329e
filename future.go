package vignette

// Future is a value that settles exactly once, either resolved with a value
// or rejected with an error. Futures are loop-bound: settle them only from the
// loop goroutine (background work hands results back through Loop.Post).
type Future[T any] struct {
	settled bool
	value   T
	err     error
	waiters []func(T, error)
}

// NewFuture returns an unsettled future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{}
}

// Resolved returns a future already resolved with v.
func Resolved[T any](v T) *Future[T] {
	return &Future[T]{settled: true, value: v}
}

// Rejected returns a future already rejected with err.
func Rejected[T any](err error) *Future[T] {
	return &Future[T]{settled: true, err: err}
}

// Resolve settles the future with v. Later calls to Resolve or Reject are
// ignored.
func (f *Future[T]) Resolve(v T) {
	f.settle(v, nil)
}

// Reject settles the future with err.
func (f *Future[T]) Reject(err error) {
	var zero T
	f.settle(zero, err)
}

func (f *Future[T]) settle(v T, err error) {
	if f.settled {
		return
	}
	f.settled = true
	f.value = v
	f.err = err
	waiters := f.waiters
	f.waiters = nil
	for _, fn := range waiters {
		fn(v, err)
	}
}

// Then registers fn to run when the future settles. If it already has, fn
// runs immediately.
func (f *Future[T]) Then(fn func(T, error)) {
	if f.settled {
		fn(f.value, f.err)
		return
	}
	f.waiters = append(f.waiters, fn)
}

// Settled reports whether the future has resolved or rejected.
func (f *Future[T]) Settled() bool {
	return f.settled
}

// Result returns the settled value and error. Both are zero while pending.
func (f *Future[T]) Result() (T, error) {
	return f.value, f.err
}

// Err returns the rejection error, or nil.
func (f *Future[T]) Err() error {
	return f.err
}
