package device

import "errors"

// Sentinel errors returned by the registry. Match with errors.Is:
//
//	if errors.Is(err, device.ErrDeviceNotFound) { ... }
var (
	// ErrDeviceNotFound: no device with the given ID.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrInvalidDeviceType: type string outside the known set.
	ErrInvalidDeviceType = errors.New("device: invalid type")

	// ErrInvalidValue: control value could not be decoded.
	ErrInvalidValue = errors.New("device: invalid value")

	// ErrInvalidDevice: device failed validation on Replace.
	ErrInvalidDevice = errors.New("device: invalid")
)
