//go:build unix

package ipc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// PipeLink carries records over an OS pipe. Records are smaller than
// PIPE_BUF, so each write lands atomically.
type PipeLink struct {
	r, w   *os.File
	rc, wc syscall.RawConn

	rmu, wmu sync.Mutex
	once     sync.Once
}

// NewPipeLink opens a pipe. Both ends are in non-blocking mode under the Go
// runtime poller.
func NewPipeLink() (*PipeLink, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("ipc: pipe: %w", err)
	}
	rc, err := r.SyscallConn()
	if err != nil {
		r.Close()
		w.Close()
		return nil, fmt.Errorf("ipc: pipe read end: %w", err)
	}
	wc, err := w.SyscallConn()
	if err != nil {
		r.Close()
		w.Close()
		return nil, fmt.Errorf("ipc: pipe write end: %w", err)
	}
	return &PipeLink{r: r, w: w, rc: rc, wc: wc}, nil
}

// Send writes one record without waiting for pipe space.
func (l *PipeLink) Send(m Message) error {
	rec := m.Encode()

	l.wmu.Lock()
	defer l.wmu.Unlock()

	var n int
	var werr error
	err := l.wc.Write(func(fd uintptr) bool {
		n, werr = unix.Write(int(fd), rec[:])
		return true
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	switch {
	case errors.Is(werr, unix.EAGAIN):
		return ErrDropped
	case errors.Is(werr, unix.EPIPE):
		return ErrClosed
	case werr != nil:
		return fmt.Errorf("ipc: pipe write: %w", werr)
	case n < RecordSize:
		return ErrShortWrite
	}
	return nil
}

// ready polls the read end with a zero timeout.
func (l *PipeLink) ready() bool {
	var n int
	var perr error
	err := l.rc.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, perr = unix.Poll(fds, 0)
	})
	return err == nil && perr == nil && n > 0
}

// TryRecv reads one record if the pipe has data.
func (l *PipeLink) TryRecv() (Message, bool) {
	l.rmu.Lock()
	defer l.rmu.Unlock()

	if !l.ready() {
		return Message{}, false
	}
	var rec [RecordSize]byte
	if _, err := io.ReadFull(l.r, rec[:]); err != nil {
		return Message{}, false
	}
	m, err := Decode(rec[:])
	return m, err == nil
}

// CloseWrite closes the write end. Readers see end of stream after draining.
func (l *PipeLink) CloseWrite() error {
	return l.w.Close()
}

// Close closes both ends. Only the first call has an effect.
func (l *PipeLink) Close() error {
	var err error
	l.once.Do(func() {
		err = errors.Join(ignoreClosed(l.w.Close()), ignoreClosed(l.r.Close()))
	})
	return err
}

func ignoreClosed(err error) error {
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
