package service

import "context"

// NotificationService sends push notifications to a user's registered
// notification tokens.
type NotificationService interface {
	// SendSingleNotification sends a push notification to a single token.
	SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error

	// SendBatchNotification sends to multiple tokens (max 500) and
	// reports which tokens the provider considers invalid.
	SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error)
}
