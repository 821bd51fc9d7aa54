package impl

import (
	"context"
	"log/slog"

	"pfm/internal/domain/entity"
	domainerrors "pfm/internal/domain/errors"
	"pfm/internal/domain/repository"
	"pfm/internal/errors"
	"pfm/internal/usecase"
)

type notificationService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewNotificationService creates the notification registration use case.
func NewNotificationService(userRepo repository.UserRepository, logger *slog.Logger) usecase.NotificationUsecase {
	return &notificationService{userRepo: userRepo, logger: logger}
}

// RegisterToken stores a push token on the user document, creating the
// document first for users who have not registered a device yet.
func (s *notificationService) RegisterToken(ctx context.Context, userID string, token string) error {
	if token == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("push token must not be empty")
	}

	err := s.userRepo.AddNotificationToken(ctx, userID, token)
	if errors.Is(err, repository.ErrUserNotFound) {
		if err := s.userRepo.Create(ctx, &entity.User{ID: userID}); err != nil {
			return domainerrors.ErrRemoteStore.WrapMessage(err.Error())
		}

		err = s.userRepo.AddNotificationToken(ctx, userID, token)
	}
	if err != nil {
		return domainerrors.ErrRemoteStore.WrapMessage(err.Error())
	}

	return nil
}
