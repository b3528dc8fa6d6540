package main

import (
	"bufio"
	"io"
	"strings"
)

const keyEscape = "\x1b"

// watchKeys calls stop when the operator enters q or ESC. Terminals deliver input per
// line, so the key must be followed by Enter. End of input does not stop the broadcast;
// a detached process has no operator.
func watchKeys(r io.Reader, stop func()) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if isStopKey(scanner.Text()) {
			stop()
			return
		}
	}
}

func isStopKey(line string) bool {
	line = strings.TrimSpace(line)
	return strings.EqualFold(line, "q") || strings.Contains(line, keyEscape)
}
