package qrcode

import (
	"bytes"
	"encoding/json"
	"testing"

	"pfm/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePairingQR_ProducesPNG(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	png, err := svc.GeneratePairingQR(entity.DeviceID("PFM-AB12-CD34-EF56"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestParsePairingQR_JSONPayload(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	payload, err := json.Marshal(PairingData{DeviceID: "PFM-AB12-CD34-EF56", Type: "pairing"})
	require.NoError(t, err)

	id, err := svc.ParsePairingQR(string(payload))
	require.NoError(t, err)
	assert.Equal(t, entity.DeviceID("PFM-AB12-CD34-EF56"), id)
}

func TestParsePairingQR_BareDeviceID(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	id, err := svc.ParsePairingQR("PFM-0000-1111-2222")
	require.NoError(t, err)
	assert.Equal(t, entity.DeviceID("PFM-0000-1111-2222"), id)
}

func TestParsePairingQR_RejectsWrongType(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	_, err := svc.ParsePairingQR(`{"device_id":"PFM-AB12-CD34-EF56","type":"subscription"}`)
	assert.Error(t, err)
}

func TestParsePairingQR_RejectsMalformedID(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	_, err := svc.ParsePairingQR(`{"device_id":"pfm-ab12-cd34-ef56","type":"pairing"}`)
	assert.ErrorIs(t, err, entity.ErrInvalidDeviceID)
}
