package core

// Critical runs fn with interrupts disabled. Host harnesses use it to call
// interrupt entry points with the same exclusion the hardware provides.
func Critical(fn func()) {
	state := DisableInterrupts()
	defer RestoreInterrupts(state)
	fn()
}
