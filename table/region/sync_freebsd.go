//go:build freebsd

package region

import "golang.org/x/sys/unix"

func (m *Mapped) sync() error {
	return unix.Fsync(int(m.f.Fd()))
}
