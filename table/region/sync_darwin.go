//go:build darwin

package region

import "golang.org/x/sys/unix"

// sync uses F_FULLFSYNC so data reaches the physical disk, not just the
// drive cache.
func (m *Mapped) sync() error {
	_, err := unix.FcntlInt(m.f.Fd(), unix.F_FULLFSYNC, 0)
	return err
}
