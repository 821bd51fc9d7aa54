// Package firestore implements the repository interfaces on top of the
// Cloud Firestore document store.
package firestore

import (
	"context"
	"log/slog"

	"pfm/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// Collection names in the remote store.
const (
	usersCollection   = "users"
	devicesCollection = "devices"
)

// AppParams holds dependencies for the Firebase app, injected by Fx.
type AppParams struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewApp initializes the Firebase app shared by auth and Firestore.
func NewApp(params AppParams) (*firebase.App, error) {
	if params.Config.Firebase == nil {
		return nil, errors.New("firebase configuration is required")
	}

	var opts []option.ClientOption
	if params.Config.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(params.Config.Firebase.CredentialsPath))
	}

	app, err := firebase.NewApp(params.Ctx, &firebase.Config{
		ProjectID: params.Config.Firebase.ProjectID,
	}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	params.Logger.Info("Firebase app initialized",
		slog.String("project_id", params.Config.Firebase.ProjectID),
	)

	return app, nil
}

// NewClient creates the Firestore client and ties its shutdown to the
// Fx lifecycle.
func NewClient(params AppParams, app *firebase.App) (*firestore.Client, error) {
	client, err := app.Firestore(params.Ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Firestore client")
	}

	params.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing Firestore client")

			return errors.WithStack(client.Close())
		},
	})

	return client, nil
}
