package main

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		stopped bool
	}{
		{name: "q", input: "q\n", stopped: true},
		{name: "upper q with spaces", input: "  Q \n", stopped: true},
		{name: "escape", input: "\x1b\n", stopped: true},
		{name: "after other input", input: "hello\nquit\nq\n", stopped: true},
		{name: "other keys", input: "w\nquit\n", stopped: false},
		{name: "end of input", input: "", stopped: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var calls atomic.Int32
			watchKeys(strings.NewReader(tt.input), func() { calls.Add(1) })
			if tt.stopped {
				assert.Equal(t, int32(1), calls.Load())
			} else {
				assert.Zero(t, calls.Load())
			}
		})
	}
}
