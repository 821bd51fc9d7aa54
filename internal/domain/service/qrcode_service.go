package service

import "pfm/internal/domain/entity"

// QRCodeService renders and parses the pairing QR codes printed on the
// feeder packaging. A scanned payload feeds straight into device
// registration.
type QRCodeService interface {
	// GeneratePairingQR renders a pairing QR code PNG for a device.
	GeneratePairingQR(deviceID entity.DeviceID) ([]byte, error)

	// ParsePairingQR parses a decoded QR payload into a device ID.
	ParsePairingQR(payload string) (entity.DeviceID, error)
}
