// Package gpio provides the physical controls with hardware abstraction:
// a push button that starts and stops sessions and an LED that follows the
// breath phase. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the button input.
type Reader interface {
	// Read returns true while the button is held down.
	// The raw line is active-low: raw 0 = pressed.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Indicator drives the phase LED.
type Indicator interface {
	// Set switches the LED on or off.
	Set(on bool) error

	// Close turns the LED off and releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	PinButton = 17
	PinLED    = 27
)

const chipName = "gpiochip0"
