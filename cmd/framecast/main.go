// Command framecast captures frames, scales them to a fixed height and streams them as
// JPEG binary messages to every connected WebSocket viewer.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "framecast:", err)
		os.Exit(1)
	}
}
