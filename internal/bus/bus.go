// Package bus provides the two-register transport used to talk to the
// display controller.
//
// Every transaction starts with a one-byte control prefix selecting the
// target register:
//
//   - [ControlCommand] (0x00): a single controller command byte
//   - [ControlData] (0x40): display RAM bytes, at most [MaxChunk] per transaction
//
// Two implementations are provided: [I2C] drives real hardware through
// periph.io, and [Emulator] interprets the same byte stream in memory.
package bus

const (
	ControlCommand byte = 0x00
	ControlData    byte = 0x40

	// MaxChunk is the largest data payload the transport moves atomically.
	MaxChunk = 32
)

// Bus is an exclusively owned connection to a display controller.
type Bus interface {
	// Command writes one byte to the command register.
	Command(b byte) error
	// Data writes p to the data register in a single transaction.
	Data(p []byte) error
	// Close releases the underlying handle.
	Close() error
}
