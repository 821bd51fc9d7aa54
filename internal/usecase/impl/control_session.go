package impl

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"pfm/internal/domain/constants"
	"pfm/internal/domain/entity"
	domainerrors "pfm/internal/domain/errors"
	"pfm/internal/domain/repository"
	"pfm/internal/domain/service"
	"pfm/internal/errors"
	"pfm/internal/usecase"

	"github.com/google/uuid"
)

// controlSession holds the interactive state for one user operating one
// device. The timer and touch-lock are optimistic: the local state
// changes first and is rolled back to the exact prior snapshot if the
// remote write fails. Schedule edits only land after the remote write
// is acknowledged.
type controlSession struct {
	userID       string
	deviceID     entity.DeviceID
	store        usecase.DeviceStore
	publisher    service.EventPublisher
	logger       *slog.Logger
	now          func() time.Time
	tickInterval time.Duration

	mu         sync.Mutex
	state      usecase.TimerState
	minutes    int
	remaining  int
	touch      bool
	cancelTick context.CancelFunc
	closed     bool
}

// timerSnapshot captures the countdown state before an optimistic
// transition, so a failed persist can put everything back exactly.
type timerSnapshot struct {
	state     usecase.TimerState
	minutes   int
	remaining int
}

func newControlSession(userID string, device *entity.Device, store usecase.DeviceStore, publisher service.EventPublisher, logger *slog.Logger, tickInterval time.Duration) *controlSession {
	s := &controlSession{
		userID:       userID,
		deviceID:     device.ID,
		store:        store,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
		tickInterval: tickInterval,
		state:        usecase.TimerIdle,
		touch:        device.TouchControl,
	}

	s.resumeFrom(device.Timer)

	return s
}

// resumeFrom derives the countdown from the persisted timer settings,
// so a session created mid-countdown picks up where the device left
// off instead of restarting it.
func (s *controlSession) resumeFrom(t entity.TimerSettings) {
	if !t.Active || t.StartTime == nil {
		return
	}

	s.minutes = t.Minutes
	elapsed := int(s.now().Sub(*t.StartTime).Seconds())
	remaining := t.Minutes*60 - elapsed
	if remaining <= 0 {
		s.state = usecase.TimerExpired
		s.remaining = 0

		return
	}

	s.state = usecase.TimerRunning
	s.remaining = remaining
	s.startTickerLocked()
}

// DeviceID identifies the device this session controls.
func (s *controlSession) DeviceID() entity.DeviceID {
	return s.deviceID
}

// StartTimer begins a countdown immediately and persists the timer in
// the background. Zero or negative minutes are silently ignored; a
// failed persist rolls the countdown back and is logged rather than
// surfaced, since the local countdown has already been shown.
func (s *controlSession) StartTimer(ctx context.Context, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	if minutes > entity.MaxTimerMinutes {
		return domainerrors.ErrTimerMinutes
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return errors.New("control session is closed")
	}
	prev := s.snapshotLocked()
	s.stopTickerLocked()
	s.state = usecase.TimerRunning
	s.minutes = minutes
	s.remaining = minutes * 60
	s.startTickerLocked()
	s.mu.Unlock()

	start := s.now()
	patch := repository.SettingsPatch{
		Timer: &entity.TimerSettings{Minutes: minutes, Active: true, StartTime: &start},
	}

	go func() {
		if err := s.persistOrRevert(context.WithoutCancel(ctx), patch, prev); err != nil {
			s.logger.Warn("timer start not persisted, countdown rolled back",
				slog.String("device_id", s.deviceID.String()),
				slog.Int("minutes", minutes),
				slog.Any("error", err),
			)
		}
	}()

	return nil
}

// StopTimer cancels the countdown and persists the timer as inactive,
// keeping the last requested minutes for the next start. On failure the
// exact pre-call state comes back, ticker included.
func (s *controlSession) StopTimer(ctx context.Context) error {
	s.mu.Lock()
	prev := s.snapshotLocked()
	s.stopTickerLocked()
	s.state = usecase.TimerIdle
	s.remaining = 0
	s.mu.Unlock()

	patch := repository.SettingsPatch{
		Timer: &entity.TimerSettings{Minutes: prev.minutes, Active: false},
	}

	return s.persistOrRevert(ctx, patch, prev)
}

// TimerStatus reports the current countdown state.
func (s *controlSession) TimerStatus() usecase.TimerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return usecase.TimerStatus{
		State:            s.state,
		Minutes:          s.minutes,
		RemainingSeconds: s.remaining,
	}
}

// SetTouchControl flips the touch-lock optimistically. Disabling the
// lock means the pet can reach the dispenser, so it is recorded as a
// feeding: lastFed is stamped in the same patch and a feeding event is
// published once the write is acknowledged.
func (s *controlSession) SetTouchControl(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	if s.touch == enabled {
		s.mu.Unlock()

		return nil
	}
	prev := s.touch
	s.touch = enabled
	s.mu.Unlock()

	patch := repository.SettingsPatch{TouchControl: &enabled}
	var fedAt time.Time
	if !enabled {
		fedAt = s.now()
		patch.LastFed = &fedAt
	}

	if _, err := s.store.UpdateDeviceSettings(ctx, s.deviceID, patch); err != nil {
		s.mu.Lock()
		s.touch = prev
		s.mu.Unlock()

		return err
	}

	if !enabled {
		s.publishFeeding(ctx, constants.FeedSourceTouch, fedAt)
	}

	return nil
}

// AddSchedule validates and appends a new schedule entry. The entry
// carries a generated identifier that stays stable across reordering.
func (s *controlSession) AddSchedule(ctx context.Context, day entity.Weekday, at entity.TimeOfDay, durationSeconds int) (*entity.Schedule, error) {
	schedule := entity.Schedule{
		ID:              uuid.NewString(),
		Day:             day,
		Time:            at,
		DurationSeconds: durationSeconds,
		Enabled:         true,
	}
	if err := schedule.Validate(); err != nil {
		return nil, mapScheduleError(err)
	}

	device, ok := s.store.Device(s.deviceID)
	if !ok {
		return nil, domainerrors.ErrDeviceNotFound
	}

	next := append(slices.Clone(device.Schedules), schedule)
	if err := s.persistSchedules(ctx, next); err != nil {
		return nil, err
	}

	return &schedule, nil
}

// RemoveSchedule deletes a schedule entry by its identifier.
func (s *controlSession) RemoveSchedule(ctx context.Context, scheduleID string) error {
	device, ok := s.store.Device(s.deviceID)
	if !ok {
		return domainerrors.ErrDeviceNotFound
	}
	if _, ok := device.ScheduleByID(scheduleID); !ok {
		return domainerrors.ErrScheduleNotFound
	}

	next := slices.DeleteFunc(slices.Clone(device.Schedules), func(sc entity.Schedule) bool {
		return sc.ID == scheduleID
	})

	return s.persistSchedules(ctx, next)
}

// ToggleSchedule flips a schedule's enabled flag by its identifier.
func (s *controlSession) ToggleSchedule(ctx context.Context, scheduleID string) error {
	device, ok := s.store.Device(s.deviceID)
	if !ok {
		return domainerrors.ErrDeviceNotFound
	}

	next := slices.Clone(device.Schedules)
	found := false
	for i := range next {
		if next[i].ID == scheduleID {
			next[i].Enabled = !next[i].Enabled
			found = true

			break
		}
	}
	if !found {
		return domainerrors.ErrScheduleNotFound
	}

	return s.persistSchedules(ctx, next)
}

// Close stops the ticker and marks the session unusable.
func (s *controlSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.stopTickerLocked()
}

// persistOrRevert writes a timer patch and restores the given snapshot
// if the write fails. One code path serves both optimistic timer
// transitions.
func (s *controlSession) persistOrRevert(ctx context.Context, patch repository.SettingsPatch, prev timerSnapshot) error {
	if _, err := s.store.UpdateDeviceSettings(ctx, s.deviceID, patch); err != nil {
		s.mu.Lock()
		s.restoreLocked(prev)
		s.mu.Unlock()

		return err
	}

	return nil
}

// persistSchedules is the non-optimistic path: the cache only picks up
// the new list after the remote store acknowledges it.
func (s *controlSession) persistSchedules(ctx context.Context, schedules []entity.Schedule) error {
	patch := repository.SettingsPatch{Schedules: &schedules}
	_, err := s.store.UpdateDeviceSettings(ctx, s.deviceID, patch)

	return err
}

func (s *controlSession) publishFeeding(ctx context.Context, source string, fedAt time.Time) {
	device, _ := s.store.Device(s.deviceID)
	name := ""
	if device != nil {
		name = device.Name
	}

	event := &service.FeedingEvent{
		RequestID:  uuid.NewString(),
		DeviceID:   s.deviceID.String(),
		DeviceName: name,
		UserID:     s.userID,
		Source:     source,
		FedAt:      fedAt,
	}
	if err := s.publisher.PublishFeedingEvent(ctx, event); err != nil {
		// Notification delivery is best-effort; the feeding itself is
		// already recorded on the device document.
		s.logger.Warn("failed to publish feeding event",
			slog.String("device_id", s.deviceID.String()),
			slog.Any("error", err),
		)
	}
}

func (s *controlSession) snapshotLocked() timerSnapshot {
	return timerSnapshot{state: s.state, minutes: s.minutes, remaining: s.remaining}
}

func (s *controlSession) restoreLocked(prev timerSnapshot) {
	s.stopTickerLocked()
	s.state = prev.state
	s.minutes = prev.minutes
	s.remaining = prev.remaining
	if !s.closed && prev.state == usecase.TimerRunning {
		s.startTickerLocked()
	}
}

func (s *controlSession) startTickerLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelTick = cancel
	go s.runTicker(ctx)
}

func (s *controlSession) stopTickerLocked() {
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

// runTicker decrements the countdown once per tick until it reaches
// zero, then parks the session in the expired state. The remote timer
// stays active until an explicit stop acknowledges the expiry.
func (s *controlSession) runTicker(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.state != usecase.TimerRunning {
				s.mu.Unlock()

				return
			}
			s.remaining--
			if s.remaining <= 0 {
				s.remaining = 0
				s.state = usecase.TimerExpired
				s.stopTickerLocked()
				minutes := s.minutes
				s.mu.Unlock()

				s.logger.Info("feeding timer expired",
					slog.String("device_id", s.deviceID.String()),
					slog.Int("minutes", minutes),
				)

				return
			}
			s.mu.Unlock()
		}
	}
}

func mapScheduleError(err error) error {
	switch {
	case errors.Is(err, entity.ErrScheduleDuration):
		return domainerrors.ErrScheduleDuration
	case errors.Is(err, entity.ErrInvalidTimeOfDay):
		return domainerrors.ErrInvalidTimeOfDay
	case errors.Is(err, entity.ErrInvalidWeekday):
		return domainerrors.ErrValidationFailed.WrapMessage("invalid weekday")
	default:
		return err
	}
}
