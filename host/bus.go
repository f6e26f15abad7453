package host

import "github.com/intuitionamiga/z80engine/z80"

// Device is a port-mapped peripheral.
type Device interface {
	In(port uint16) byte
	Out(port uint16, value byte)
}

// Bus decodes the low byte of the port address to a device and carries the
// interrupt latch. Unmapped ports read 0xFF and ignore writes.
type Bus struct {
	z80.Signals

	devices  [256]Device
	watchers []func(port uint16, value byte)
}

func NewBus() *Bus {
	return &Bus{}
}

// Map attaches d to the given low port byte, replacing any previous device.
func (b *Bus) Map(port byte, d Device) {
	b.devices[port] = d
}

// Watch registers fn to see every port write before it reaches the device.
func (b *Bus) Watch(fn func(port uint16, value byte)) {
	b.watchers = append(b.watchers, fn)
}

func (b *Bus) In(port uint16) byte {
	if d := b.devices[byte(port)]; d != nil {
		return d.In(port)
	}
	return 0xFF
}

func (b *Bus) Out(port uint16, value byte) {
	for _, fn := range b.watchers {
		fn(port, value)
	}
	if d := b.devices[byte(port)]; d != nil {
		d.Out(port, value)
	}
}
