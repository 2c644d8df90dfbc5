package perf

import (
	"sync"
	"time"
)

// Debounce wraps fn so that bursts of calls collapse into one trailing
// invocation: each call resets a single pending timer, and only the
// last call's argument is delivered after wait of silence. Every
// Debounce call owns an independent timer slot.
func Debounce[T any](fn func(T), wait time.Duration) func(T) {
	var mu sync.Mutex
	var timer *time.Timer

	return func(arg T) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, func() { fn(arg) })
	}
}

// Throttle wraps fn so that it fires at most once per limit window.
// The first call in a window fires immediately; calls during the
// cooldown are dropped, not queued. The next call after the cooldown
// fires immediately and starts a new window.
func Throttle[T any](fn func(T), limit time.Duration) func(T) {
	var mu sync.Mutex
	var last time.Time

	return func(arg T) {
		mu.Lock()
		now := time.Now()
		if !last.IsZero() && now.Sub(last) < limit {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()

		fn(arg)
	}
}
