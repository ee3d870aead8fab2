package clocks

import "time"

const Mhz = 1000000

// clock speeds of the target microcontroller
const (
	CPU = 240 * Mhz
	APB = 80 * Mhz
)

// Cycles converts a duration into the number of CPU cycles that would have
// elapsed in that time
func Cycles(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d.Nanoseconds()) * (CPU / Mhz) / 1000
}

// Duration converts a count of CPU cycles into a duration
func Duration(cycles uint64) time.Duration {
	return time.Duration(cycles * 1000 / (CPU / Mhz))
}
