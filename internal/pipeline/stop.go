package pipeline

import (
	"bufio"
	"io"
)

// StopOnEnter returns a channel closed when a line (or EOF) is read from r.
// The reading goroutine lives until then.
func StopOnEnter(r io.Reader) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		_, _ = bufio.NewReader(r).ReadString('\n')
	}()
	return ch
}
