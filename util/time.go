package util

import (
	"time"

	metrics "github.com/rcrowley/go-metrics"
)

// NowMS is the current wall clock in milliseconds.
func NowMS() int64 {
	return (time.Now().UnixNano() / (1000 * 1000))
}

// Time records the elapsed time of an operation under name in the shared
// metrics registry. Defer the returned closure at the top of the operation.
func Time(name string) func() {
	beginTSInMS := NowMS()
	return func() {
		interval := time.Duration(NowMS()-beginTSInMS) * time.Millisecond
		t := metrics.GetOrRegisterTimer(name, metrics.DefaultRegistry)
		t.Update(interval)
	}
}
