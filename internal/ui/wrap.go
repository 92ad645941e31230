package ui

import "sync/atomic"

var wrapWidth atomic.Int64

// SetWrapWidth sets the column at which Renderer wraps bullet text. Zero or less is ignored.
func SetWrapWidth(width int) {
	if width <= 0 {
		return
	}
	wrapWidth.Store(int64(width))
}

func resetWrapWidth() {
	wrapWidth.Store(0)
}

func currentWrapWidth() int {
	return int(wrapWidth.Load())
}
