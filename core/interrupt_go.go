//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// interruptLock stands in for the global interrupt flag on regular Go.
// Host tick sources hold it while ticking so main-loop writers see the
// same exclusion the hardware gives them. Not reentrant.
var interruptLock sync.Mutex

// DisableInterrupts blocks tick delivery until RestoreInterrupts
func DisableInterrupts() State {
	interruptLock.Lock()
	return 0
}

// RestoreInterrupts re-enables tick delivery
func RestoreInterrupts(state State) {
	interruptLock.Unlock()
}
