//go:build !unix

package ipc

import "errors"

// PipeLink is only available on unix systems.
type PipeLink struct{}

// NewPipeLink reports that the pipe transport is unsupported.
func NewPipeLink() (*PipeLink, error) {
	return nil, errors.New("ipc: pipe transport requires a unix system")
}

func (l *PipeLink) Send(Message) error        { return ErrClosed }
func (l *PipeLink) TryRecv() (Message, bool) { return Message{}, false }
func (l *PipeLink) CloseWrite() error         { return nil }
func (l *PipeLink) Close() error              { return nil }
