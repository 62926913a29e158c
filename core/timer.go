package core

import "sync/atomic"

// TimeSource reports monotonic milliseconds since boot
type TimeSource interface {
	Millis() uint32
}

// ManualTime is a TimeSource that only moves when told to.
// Tests drive it directly; the simulator advances it from a ticker.
type ManualTime struct {
	ms atomic.Uint32
}

// Millis returns the current time
func (m *ManualTime) Millis() uint32 {
	return m.ms.Load()
}

// Set sets the current time
func (m *ManualTime) Set(ms uint32) {
	m.ms.Store(ms)
}

// Advance moves time forward by ms milliseconds
func (m *ManualTime) Advance(ms uint32) uint32 {
	return m.ms.Add(ms)
}

// TicksToMillis converts a tick count at tickRate Hz to milliseconds
func TicksToMillis(ticks uint64, tickRate uint32) uint32 {
	if tickRate == 0 {
		return 0
	}
	return uint32(ticks * 1000 / uint64(tickRate))
}
