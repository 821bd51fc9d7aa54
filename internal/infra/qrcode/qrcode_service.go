// Package qrcode renders and parses device pairing QR codes.
package qrcode

import (
	"encoding/json"

	"pfm/internal/domain/entity"
	"pfm/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// PairingData is the QR payload printed on feeder packaging. A scanner
// hands the decoded JSON straight to device registration.
type PairingData struct {
	DeviceID string `json:"device_id"`
	Type     string `json:"type"`
}

const pairingType = "pairing"

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GeneratePairingQR renders a pairing QR code PNG for a device.
func (s *qrcodeService) GeneratePairingQR(deviceID entity.DeviceID) ([]byte, error) {
	data := PairingData{
		DeviceID: deviceID.String(),
		Type:     pairingType,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal pairing data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParsePairingQR parses a decoded QR payload into a device ID. Raw
// device identifiers are accepted too, for labels that print the ID as
// a bare code instead of a JSON payload.
func (s *qrcodeService) ParsePairingQR(payload string) (entity.DeviceID, error) {
	var data PairingData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		// Not JSON; try the payload as a bare device ID.
		return entity.ParseDeviceID(payload)
	}

	if data.Type != pairingType {
		return "", errors.Errorf("invalid QR code type: %s", data.Type)
	}

	return entity.ParseDeviceID(data.DeviceID)
}
