package impl

import (
	"context"
	"testing"
	"time"

	"pfm/internal/domain/constants"
	"pfm/internal/domain/entity"
	domainerrors "pfm/internal/domain/errors"
	"pfm/internal/domain/repository"
	"pfm/internal/domain/service"
	"pfm/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTick = 10 * time.Millisecond

type controlSessionFixtures struct {
	session    *controlSession
	store      *deviceStore
	deviceRepo *mockDeviceRepository
	userRepo   *mockUserRepository
	publisher  *mockEventPublisher
}

func createTestSession(t *testing.T, device *entity.Device) controlSessionFixtures {
	t.Helper()

	deviceRepo := new(mockDeviceRepository)
	userRepo := new(mockUserRepository)
	publisher := new(mockEventPublisher)
	store := newDeviceStore(testUserID, deviceRepo, userRepo, testLogger())

	userRepo.On("Get", mock.Anything, testUserID).Return(&entity.User{
		ID: testUserID, Devices: []entity.DeviceID{device.ID},
	}, nil).Once()
	deviceRepo.On("Get", mock.Anything, device.ID).Return(device, nil).Once()
	_, _, err := store.LoadDevices(context.Background())
	require.NoError(t, err)

	session := newControlSession(testUserID, device, store, publisher, testLogger(), testTick)
	t.Cleanup(session.Close)

	return controlSessionFixtures{
		session:    session,
		store:      store,
		deviceRepo: deviceRepo,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

func timerPatchWith(active bool) func(repository.SettingsPatch) bool {
	return func(p repository.SettingsPatch) bool {
		return p.Timer != nil && p.Timer.Active == active
	}
}

func TestControlSession_StartTimer_CountdownStartsImmediately(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(timerPatchWith(true))).Return(nil).Once()

	require.NoError(t, fx.session.StartTimer(context.Background(), 10))

	status := fx.session.TimerStatus()
	assert.Equal(t, usecase.TimerRunning, status.State)
	assert.Equal(t, 10, status.Minutes)
	assert.LessOrEqual(t, status.RemainingSeconds, 600)
	assert.Greater(t, status.RemainingSeconds, 595)

	// The write lands in the background and the cache picks it up.
	require.Eventually(t, func() bool {
		device, ok := fx.store.Device(id)

		return ok && device.Timer.Active && device.Timer.Minutes == 10
	}, time.Second, time.Millisecond)
}

func TestControlSession_StartTimer_NonPositiveMinutesIgnored(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	require.NoError(t, fx.session.StartTimer(context.Background(), 0))
	require.NoError(t, fx.session.StartTimer(context.Background(), -5))

	status := fx.session.TimerStatus()
	assert.Equal(t, usecase.TimerIdle, status.State)
	assert.Zero(t, status.RemainingSeconds)
	fx.deviceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestControlSession_StartTimer_RejectsExcessiveMinutes(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	err := fx.session.StartTimer(context.Background(), entity.MaxTimerMinutes+1)
	assert.ErrorIs(t, err, domainerrors.ErrTimerMinutes)
	assert.Equal(t, usecase.TimerIdle, fx.session.TimerStatus().State)
}

func TestControlSession_StartTimer_RollsBackWhenPersistFails(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(timerPatchWith(true))).
		Return(errors.New("write failed")).Once()

	require.NoError(t, fx.session.StartTimer(context.Background(), 10))

	require.Eventually(t, func() bool {
		status := fx.session.TimerStatus()

		return status.State == usecase.TimerIdle && status.RemainingSeconds == 0
	}, time.Second, time.Millisecond)
}

func TestControlSession_TimerTicksDown(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(timerPatchWith(true))).Return(nil).Once()

	require.NoError(t, fx.session.StartTimer(context.Background(), 10))

	require.Eventually(t, func() bool {
		return fx.session.TimerStatus().RemainingSeconds < 600
	}, time.Second, time.Millisecond)
	assert.Equal(t, usecase.TimerRunning, fx.session.TimerStatus().State)
}

func TestControlSession_TimerExpiresAtZero(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	device := testDevice(id)

	// A session created mid-countdown resumes with the remaining time.
	start := time.Now().Add(-time.Duration(10*60-2) * time.Second)
	device.Timer = entity.TimerSettings{Minutes: 10, Active: true, StartTime: &start}

	fx := createTestSession(t, device)

	status := fx.session.TimerStatus()
	assert.Equal(t, usecase.TimerRunning, status.State)
	assert.LessOrEqual(t, status.RemainingSeconds, 2)

	require.Eventually(t, func() bool {
		s := fx.session.TimerStatus()

		return s.State == usecase.TimerExpired && s.RemainingSeconds == 0
	}, time.Second, time.Millisecond)

	// Expiry is local only; the remote timer stays active until a stop.
	fx.deviceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestControlSession_ResumeAlreadyElapsedTimerIsExpired(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	device := testDevice(id)

	start := time.Now().Add(-11 * time.Minute)
	device.Timer = entity.TimerSettings{Minutes: 10, Active: true, StartTime: &start}

	fx := createTestSession(t, device)

	status := fx.session.TimerStatus()
	assert.Equal(t, usecase.TimerExpired, status.State)
	assert.Zero(t, status.RemainingSeconds)
}

func TestControlSession_StopTimer_PersistsInactiveKeepingMinutes(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(timerPatchWith(true))).Return(nil).Once()
	require.NoError(t, fx.session.StartTimer(context.Background(), 10))

	require.Eventually(t, func() bool {
		device, ok := fx.store.Device(id)

		return ok && device.Timer.Active
	}, time.Second, time.Millisecond)

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(func(p repository.SettingsPatch) bool {
		return p.Timer != nil && !p.Timer.Active && p.Timer.Minutes == 10
	})).Return(nil).Once()

	require.NoError(t, fx.session.StopTimer(context.Background()))

	status := fx.session.TimerStatus()
	assert.Equal(t, usecase.TimerIdle, status.State)
	assert.Zero(t, status.RemainingSeconds)
	assert.Equal(t, 10, status.Minutes)
}

func TestControlSession_StopTimer_RestoresStateWhenPersistFails(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(timerPatchWith(true))).Return(nil).Once()
	require.NoError(t, fx.session.StartTimer(context.Background(), 10))

	require.Eventually(t, func() bool {
		device, ok := fx.store.Device(id)

		return ok && device.Timer.Active
	}, time.Second, time.Millisecond)

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(timerPatchWith(false))).
		Return(errors.New("write failed")).Once()

	err := fx.session.StopTimer(context.Background())
	require.Error(t, err)

	status := fx.session.TimerStatus()
	assert.Equal(t, usecase.TimerRunning, status.State)
	assert.Positive(t, status.RemainingSeconds)
}

func TestControlSession_SetTouchControl_EnableDoesNotRecordFeeding(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(func(p repository.SettingsPatch) bool {
		return p.TouchControl != nil && *p.TouchControl && p.LastFed == nil
	})).Return(nil).Once()

	require.NoError(t, fx.session.SetTouchControl(context.Background(), true))

	device, ok := fx.store.Device(id)
	require.True(t, ok)
	assert.True(t, device.TouchControl)
	assert.Nil(t, device.LastFed)
	fx.publisher.AssertNotCalled(t, "PublishFeedingEvent", mock.Anything, mock.Anything)
}

func TestControlSession_SetTouchControl_DisableStampsLastFedAndPublishes(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	device := testDevice(id)
	device.TouchControl = true

	fx := createTestSession(t, device)

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(func(p repository.SettingsPatch) bool {
		return p.TouchControl != nil && !*p.TouchControl && p.LastFed != nil
	})).Return(nil).Once()
	fx.publisher.On("PublishFeedingEvent", mock.Anything, mock.MatchedBy(func(e *service.FeedingEvent) bool {
		return e.DeviceID == id.String() && e.UserID == testUserID && e.Source == constants.FeedSourceTouch
	})).Return(nil).Once()

	require.NoError(t, fx.session.SetTouchControl(context.Background(), false))

	cached, ok := fx.store.Device(id)
	require.True(t, ok)
	assert.False(t, cached.TouchControl)
	assert.NotNil(t, cached.LastFed)
}

func TestControlSession_SetTouchControl_SameValueIsNoOp(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	require.NoError(t, fx.session.SetTouchControl(context.Background(), false))
	fx.deviceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestControlSession_SetTouchControl_RevertsOnFailure(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.Anything).Return(errors.New("write failed")).Once()

	err := fx.session.SetTouchControl(context.Background(), true)
	require.Error(t, err)
	assert.False(t, fx.session.touch)

	cached, ok := fx.store.Device(id)
	require.True(t, ok)
	assert.False(t, cached.TouchControl)
	fx.publisher.AssertNotCalled(t, "PublishFeedingEvent", mock.Anything, mock.Anything)
}

func TestControlSession_AddSchedule_AppendsLast(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(func(p repository.SettingsPatch) bool {
		return p.Schedules != nil
	})).Return(nil).Twice()

	first, err := fx.session.AddSchedule(context.Background(), entity.Monday, entity.TimeOfDay{Hour: 8}, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.True(t, first.Enabled)

	second, err := fx.session.AddSchedule(context.Background(), entity.Friday, entity.TimeOfDay{Hour: 18, Minute: 30}, 5)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	cached, ok := fx.store.Device(id)
	require.True(t, ok)
	require.Len(t, cached.Schedules, 2)
	assert.Equal(t, second.ID, cached.Schedules[1].ID)
}

func TestControlSession_AddSchedule_RejectsDurationOutOfRange(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	for _, duration := range []int{0, -1, entity.MaxScheduleDuration + 1} {
		_, err := fx.session.AddSchedule(context.Background(), entity.Monday, entity.TimeOfDay{Hour: 8}, duration)
		assert.ErrorIs(t, err, domainerrors.ErrScheduleDuration, "duration=%d", duration)
	}

	fx.deviceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestControlSession_AddSchedule_NotAppliedLocallyOnFailure(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.Anything).Return(errors.New("write failed")).Once()

	_, err := fx.session.AddSchedule(context.Background(), entity.Monday, entity.TimeOfDay{Hour: 8}, 10)
	require.Error(t, err)

	cached, ok := fx.store.Device(id)
	require.True(t, ok)
	assert.Empty(t, cached.Schedules)
}

func TestControlSession_RemoveSchedule_ByID(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.Anything).Return(nil).Twice()

	schedule, err := fx.session.AddSchedule(context.Background(), entity.Monday, entity.TimeOfDay{Hour: 8}, 10)
	require.NoError(t, err)

	require.NoError(t, fx.session.RemoveSchedule(context.Background(), schedule.ID))

	cached, ok := fx.store.Device(id)
	require.True(t, ok)
	assert.Empty(t, cached.Schedules)
}

func TestControlSession_RemoveSchedule_UnknownID(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	err := fx.session.RemoveSchedule(context.Background(), "no-such-schedule")
	assert.ErrorIs(t, err, domainerrors.ErrScheduleNotFound)
}

func TestControlSession_ToggleSchedule_FlipsEnabled(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.Anything).Return(nil).Times(3)

	schedule, err := fx.session.AddSchedule(context.Background(), entity.Monday, entity.TimeOfDay{Hour: 8}, 10)
	require.NoError(t, err)

	require.NoError(t, fx.session.ToggleSchedule(context.Background(), schedule.ID))
	cached, _ := fx.store.Device(id)
	require.Len(t, cached.Schedules, 1)
	assert.False(t, cached.Schedules[0].Enabled)

	require.NoError(t, fx.session.ToggleSchedule(context.Background(), schedule.ID))
	cached, _ = fx.store.Device(id)
	assert.True(t, cached.Schedules[0].Enabled)
}

func TestControlSession_Close_StopsTicker(t *testing.T) {
	id := entity.DeviceID("PFM-AB12-CD34-EF56")
	fx := createTestSession(t, testDevice(id))

	fx.deviceRepo.On("Update", mock.Anything, id, mock.MatchedBy(timerPatchWith(true))).Return(nil).Once()
	require.NoError(t, fx.session.StartTimer(context.Background(), 10))

	fx.session.Close()

	remaining := fx.session.TimerStatus().RemainingSeconds
	time.Sleep(5 * testTick)
	assert.Equal(t, remaining, fx.session.TimerStatus().RemainingSeconds)
}
