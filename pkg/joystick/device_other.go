// +build !linux

package joystick

// Open always fails on this platform.
func Open(index int) (Device, error) {
	return nil, ErrUnsupported
}

// DetectAndOpen always fails on this platform.
func DetectAndOpen(startIndex int) (Device, error) {
	return nil, ErrUnsupported
}
