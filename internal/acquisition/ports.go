package acquisition

import (
	"io"

	"go.bug.st/serial"
)

const DefaultBaudRate = 9600

// ListPorts returns the serial port names present on the machine.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

// OpenPort opens a serial port for reading gauge output. The returned
// stream is what Stream consumes; closing it ends the stream.
func OpenPort(name string, baudRate int) (io.ReadCloser, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	return serial.Open(name, &serial.Mode{BaudRate: baudRate})
}
