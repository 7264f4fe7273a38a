package assert

import (
	"fmt"
	"sync"
)

var (
	mu    sync.Mutex
	depth int
)

// NotCircular guards singleton construction against re-entrant init cycles.
func NotCircular() {
	mu.Lock()
	defer mu.Unlock()
	depth++
	if depth > 100 {
		panic("circular singleton initialization detected")
	}
}

// NotNil panics when a required singleton came back nil.
func NotNil(v interface{}) {
	if v == nil {
		panic(fmt.Sprintf("required component is nil: %T", v))
	}
}
