package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"mediadup/internal/scan"
)

const (
	progressInterval = 500 * time.Millisecond
	elapsedRounding  = time.Millisecond
)

// startProgress polls the coordinator's counters and redraws a single status
// line on stderr. It is a no-op when stderr is not a terminal or when the
// command emits JSON. The returned stop function clears the line.
func startProgress(c *scan.Coordinator, jsonOut bool) (stop func()) {
	if jsonOut || !stderrIsTerminal() {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				fmt.Fprint(os.Stderr, "\r\033[K")
				return
			case <-ticker.C:
				snap := c.Snapshot()
				fmt.Fprintf(os.Stderr, "\r\033[K%s: files=%d hashed=%d groups=%d errors=%d",
					snap.Status, snap.FilesSeen, snap.FilesHashed, snap.GroupsFound, snap.ErrorCount)
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
