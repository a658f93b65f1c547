//go:build linux

package region

import "golang.org/x/sys/unix"

// sync performs fdatasync; metadata other than size is not needed to read
// the region back.
func (m *Mapped) sync() error {
	return unix.Fdatasync(int(m.f.Fd()))
}
