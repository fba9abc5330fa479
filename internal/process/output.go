package process

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
)

// lineBuffer accumulates a child's standard output as lines. It is written by
// a single drain goroutine and read by the Handle owner, so all access goes
// through mu.
type lineBuffer struct {
	mu    sync.Mutex
	lines []string
	bytes int64
}

// snapshot returns a copy of the lines captured so far.
func (b *lineBuffer) snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// size returns the number of bytes captured so far, line terminators included.
func (b *lineBuffer) size() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bytes
}

func (b *lineBuffer) append(line string, n int) {
	b.mu.Lock()
	b.lines = append(b.lines, line)
	b.bytes += int64(n)
	b.mu.Unlock()
}

// drain reads r until EOF, appending each line as it arrives, and closes r.
// The returned channel is closed once r hits EOF or fails. A trailing line
// without a newline is captured at EOF.
//
// bufio.Reader is used instead of bufio.Scanner so that a single line larger
// than the scanner's token limit is still captured whole.
func (b *lineBuffer) drain(r io.ReadCloser, log *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer r.Close() //nolint:errcheck // read side only; nothing to flush

		br := bufio.NewReaderSize(r, 64*1024)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				b.append(strings.TrimRight(line, "\r\n"), len(line))
			}
			if err == nil {
				continue
			}
			// Close from Handle.Close surfaces as fs.ErrClosed; that is an
			// intentional stop, not a read failure.
			if !errors.Is(err, io.EOF) && !errors.Is(err, fs.ErrClosed) {
				log.Debug("stdout drain stopped", "error", err)
			}
			return
		}
	}()
	return done
}
