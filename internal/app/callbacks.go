package app

import "sync"

// releaser is satisfied by js.Func.
type releaser interface {
	Release()
}

// releaseOnce returns a func that releases every callback on its first call
// and does nothing afterwards.
func releaseOnce(fns ...releaser) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, fn := range fns {
				fn.Release()
			}
		})
	}
}
