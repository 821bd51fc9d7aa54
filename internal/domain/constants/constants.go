// Package constants defines shared enumeration values used across layers.
package constants

// Deployment environments.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub provider types.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Feeding event sources.
const (
	FeedSourceTouch = "touch"
	FeedSourceTimer = "timer"
)
