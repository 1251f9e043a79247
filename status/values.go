package status

import (
	"math"
	"sync/atomic"
)

// MaxStringLen bounds stored strings; longer values keep their prefix
const MaxStringLen = 48

// AtomicString holds a short label, such as the last failing entry point.
// The zero value reads as "".
type AtomicString struct {
	ptr atomic.Pointer[string]
}

func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

// AtomicFloat accumulates durations and rates. The zero value reads as 0.
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add applies delta with a CAS loop and returns the new total
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}
