//go:build !windows

// Package stderr captures output that C audio backends (ALSA via oto)
// write straight to file descriptor 2, so it lands in the log instead of
// corrupting the TUI.
package stderr

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
)

var (
	mu         sync.Mutex
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	done       chan struct{}
)

// Start redirects fd 2 into l at warn level. Call it early in main, before
// the audio backend initializes. On error stderr is left untouched.
func Start(l zerolog.Logger) error {
	mu.Lock()
	defer mu.Unlock()
	if origStderr >= 0 {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return err
	}

	origStderr = orig
	pipeRead = r
	pipeWrite = w
	done = make(chan struct{})

	go forward(r, l, done)
	return nil
}

// forward logs each non-empty line read from r.
func forward(r io.Reader, l zerolog.Logger, done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			l.Warn().Str("source", "stderr").Msg(line)
		}
	}
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Useful for fatal errors that must be visible even if TUI is running.
func WriteOriginal(msg string) {
	mu.Lock()
	fd := origStderr
	mu.Unlock()
	if fd < 0 {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = syscall.Write(fd, []byte(msg))
}

// Stop restores the original stderr and waits for buffered lines to be
// logged.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if origStderr < 0 {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)
	origStderr = -1

	pipeWrite.Close()
	<-done
	pipeRead.Close()
}
