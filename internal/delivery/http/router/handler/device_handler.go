package handler

import (
	"log/slog"
	"net/http"

	"pfm/internal/delivery/http/response"
	"pfm/internal/domain/entity"
	domainerrors "pfm/internal/domain/errors"
	"pfm/internal/domain/repository"
	"pfm/internal/domain/service"
	"pfm/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DeviceHandlerParams holds dependencies for DeviceHandler, injected by Fx.
type DeviceHandlerParams struct {
	fx.In

	Stores  usecase.StoreManager
	Control usecase.ControlManager
	QRCode  service.QRCodeService
	Logger  *slog.Logger
}

// DeviceHandler holds dependencies for device-related handlers
type DeviceHandler struct {
	stores  usecase.StoreManager
	control usecase.ControlManager
	qrcode  service.QRCodeService
	logger  *slog.Logger
}

// NewDeviceHandler is the constructor for DeviceHandler
func NewDeviceHandler(params DeviceHandlerParams) *DeviceHandler {
	return &DeviceHandler{
		stores:  params.Stores,
		control: params.Control,
		qrcode:  params.QRCode,
		logger:  params.Logger,
	}
}

// RegisterDeviceRequest represents the request body for registering a device
type RegisterDeviceRequest struct {
	DeviceID string `json:"device_id" validate:"required"`
	Name     string `json:"name" validate:"omitempty,max=64"`
}

// PairDeviceRequest carries the raw payload decoded from a pairing QR code
type PairDeviceRequest struct {
	Payload string `json:"payload" validate:"required"`
	Name    string `json:"name" validate:"omitempty,max=64"`
}

// UpdateSettingsRequest is a partial settings patch; absent fields are
// left untouched
type UpdateSettingsRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=64"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
	TouchControl *bool   `json:"touch_control"`
}

// TouchControlRequest toggles the touch-lock
type TouchControlRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// StartTimerRequest starts a feeding countdown
type StartTimerRequest struct {
	Minutes int `json:"minutes"`
}

// AddScheduleRequest adds a weekly feeding slot. Time accepts both
// 24-hour ("18:30") and 12-hour ("6:30 PM") forms.
type AddScheduleRequest struct {
	Day             string `json:"day" validate:"required"`
	Time            string `json:"time" validate:"required"`
	DurationSeconds int    `json:"duration_seconds" validate:"required"`
}

// DeviceListData is the payload of a device list response. Missing
// holds referenced device IDs whose documents no longer exist.
type DeviceListData struct {
	Devices []*entity.Device  `json:"devices"`
	Missing []entity.DeviceID `json:"missing,omitempty"`
}

// ListDevices returns the caller's devices. The cache is used when
// warm; pass ?refresh=true to force a reload from the remote store.
func (h *DeviceHandler) ListDevices(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	store := h.stores.StoreFor(userID)
	refresh := c.QueryParam("refresh") == "true"

	devices := store.Devices()
	if refresh || len(devices) == 0 {
		var missing []entity.DeviceID
		devices, missing, err = store.LoadDevices(c.Request().Context())
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, DeviceListData{Devices: devices, Missing: missing}, "Devices loaded successfully")
	}

	return response.Success(c, http.StatusOK, DeviceListData{Devices: devices}, "Devices retrieved successfully")
}

// RegisterDevice registers a device by its printed identifier.
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid device input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	device, err := h.stores.StoreFor(userID).RegisterDevice(c.Request().Context(), req.DeviceID, req.Name)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, device, "Device registered successfully")
}

// PairDevice registers a device from a scanned pairing QR payload.
func (h *DeviceHandler) PairDevice(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req PairDeviceRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid pairing input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	deviceID, err := h.qrcode.ParsePairingQR(req.Payload)
	if err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidDeviceID)
	}

	device, err := h.stores.StoreFor(userID).RegisterDevice(c.Request().Context(), deviceID.String(), req.Name)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, device, "Device paired successfully")
}

// PairingQR renders the pairing QR code PNG for one of the caller's devices.
func (h *DeviceHandler) PairingQR(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	deviceID, err := h.ownedDeviceID(c, userID)
	if err != nil {
		return err
	}

	png, err := h.qrcode.GeneratePairingQR(deviceID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// UpdateSettings applies a partial settings patch to a device.
func (h *DeviceHandler) UpdateSettings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	deviceID, err := h.ownedDeviceID(c, userID)
	if err != nil {
		return err
	}

	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid settings input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	patch := repository.SettingsPatch{
		Name:         req.Name,
		TouchControl: req.TouchControl,
	}
	if req.Status != nil {
		status := entity.DeviceStatus(*req.Status)
		patch.Status = &status
	}

	device, err := h.stores.StoreFor(userID).UpdateDeviceSettings(c.Request().Context(), deviceID, patch)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, device, "Settings updated successfully")
}

// SetTouchControl toggles the touch-lock through the control session.
func (h *DeviceHandler) SetTouchControl(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}

	var req TouchControlRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid touch control input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := session.SetTouchControl(c.Request().Context(), *req.Enabled); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Touch control updated successfully")
}

// StartTimer begins a feeding countdown on the device.
func (h *DeviceHandler) StartTimer(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}

	var req StartTimerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid timer input")
	}

	if err := session.StartTimer(c.Request().Context(), req.Minutes); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, session.TimerStatus(), "Timer updated successfully")
}

// StopTimer cancels the countdown.
func (h *DeviceHandler) StopTimer(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}

	if err := session.StopTimer(c.Request().Context()); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, session.TimerStatus(), "Timer stopped successfully")
}

// TimerStatus reports the countdown state.
func (h *DeviceHandler) TimerStatus(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, session.TimerStatus(), "Timer status retrieved successfully")
}

// AddSchedule appends a weekly feeding slot.
func (h *DeviceHandler) AddSchedule(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}

	var req AddScheduleRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid schedule input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	day, err := entity.ParseWeekday(req.Day)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "Day must be a full weekday name")
	}

	at, err := entity.ParseTime24(req.Time)
	if err != nil {
		at, err = entity.ParseTime12(req.Time)
	}
	if err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidTimeOfDay)
	}

	schedule, err := session.AddSchedule(c.Request().Context(), day, at, req.DurationSeconds)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, schedule, "Schedule added successfully")
}

// RemoveSchedule deletes a feeding slot by ID.
func (h *DeviceHandler) RemoveSchedule(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}

	if err := session.RemoveSchedule(c.Request().Context(), c.Param("sid")); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Schedule removed successfully")
}

// ToggleSchedule flips a feeding slot's enabled flag by ID.
func (h *DeviceHandler) ToggleSchedule(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}

	if err := session.ToggleSchedule(c.Request().Context(), c.Param("sid")); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Schedule toggled successfully")
}

// sessionFor resolves the control session for the device in the path.
func (h *DeviceHandler) sessionFor(c echo.Context) (usecase.ControlSession, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, err
	}

	deviceID, err := entity.ParseDeviceID(c.Param("id"))
	if err != nil {
		return nil, response.HandleAppError(c, domainerrors.ErrInvalidDeviceID)
	}

	session, err := h.control.SessionFor(c.Request().Context(), userID, deviceID)
	if err != nil {
		return nil, response.HandleAppError(c, err)
	}

	return session, nil
}

// ownedDeviceID parses the path device ID and checks it belongs to the
// caller, refreshing the store once before giving up.
func (h *DeviceHandler) ownedDeviceID(c echo.Context, userID string) (entity.DeviceID, error) {
	deviceID, err := entity.ParseDeviceID(c.Param("id"))
	if err != nil {
		return "", response.HandleAppError(c, domainerrors.ErrInvalidDeviceID)
	}

	store := h.stores.StoreFor(userID)
	if _, ok := store.Device(deviceID); !ok {
		if _, _, err := store.LoadDevices(c.Request().Context()); err != nil {
			return "", response.HandleAppError(c, err)
		}
		if _, ok := store.Device(deviceID); !ok {
			return "", response.HandleAppError(c, domainerrors.ErrDeviceNotLinked)
		}
	}

	return deviceID, nil
}
