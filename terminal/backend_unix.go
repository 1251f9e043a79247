//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type unixBackend struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State

	sigCh chan os.Signal
}

// NewBackend creates a backend over the given tty files
func NewBackend(in, out *os.File) Backend {
	b := &unixBackend{
		in:    in,
		out:   out,
		inFd:  int(in.Fd()),
		outFd: int(out.Fd()),
		sigCh: make(chan os.Signal, 1),
	}
	signal.Notify(b.sigCh, syscall.SIGWINCH)
	return b
}

// NewStdBackend creates a backend over stdin and stdout
func NewStdBackend() Backend {
	return NewBackend(os.Stdin, os.Stdout)
}

func (b *unixBackend) EnableRawMode() error {
	if b.oldTerm != nil {
		return nil
	}
	if !term.IsTerminal(b.inFd) {
		return ErrNotTerminal
	}
	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return err
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) DisableRawMode() error {
	if b.oldTerm == nil {
		return nil
	}
	if err := term.Restore(b.inFd, b.oldTerm); err != nil {
		return err
	}
	b.oldTerm = nil
	return nil
}

func (b *unixBackend) IsRawMode() bool {
	return b.oldTerm != nil
}

func (b *unixBackend) Size() (uint16, uint16, error) {
	ws, err := unix.IoctlGetWinsize(b.outFd, unix.TIOCGWINSZ)
	if err != nil {
		// stdout may be redirected, fall back to the input side
		ws, err = unix.IoctlGetWinsize(b.inFd, unix.TIOCGWINSZ)
		if err != nil {
			return 0, 0, fmt.Errorf("terminal size: %w", err)
		}
	}
	return ws.Col, ws.Row, nil
}

func (b *unixBackend) Read(p []byte, timeout time.Duration) (int, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		ms := -1
		if timeout >= 0 {
			ms = 0
			if remaining := time.Until(deadline); timeout > 0 && remaining > 0 {
				ms = int((remaining + time.Millisecond - 1) / time.Millisecond)
			}
		}

		fds := []unix.PollFd{
			{Fd: int32(b.inFd), Events: unix.POLLIN},
		}
		n, err := unix.Poll(fds, ms)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				if timeout > 0 && !time.Now().Before(deadline) {
					return 0, nil
				}
				continue
			}
			return 0, err
		}
		if n == 0 {
			return 0, nil // Timeout
		}
		if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 && fds[0].Revents&unix.POLLIN == 0 {
			return 0, fmt.Errorf("terminal input closed")
		}

		rn, err := unix.Read(b.inFd, p)
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return 0, err
		}
		if rn == 0 {
			return 0, fmt.Errorf("terminal input closed")
		}
		return rn, nil
	}
}

func (b *unixBackend) Write(p []byte) (int, error) {
	return b.out.Write(p)
}

func (b *unixBackend) Resized() bool {
	select {
	case <-b.sigCh:
		return true
	default:
		return false
	}
}

func (b *unixBackend) Close() error {
	signal.Stop(b.sigCh)
	return b.DisableRawMode()
}
