// Package delivery defines the contract every transport-facing server
// in the project implements.
package delivery

import "context"

// Delivery is a server that can be started by the application runtime.
type Delivery interface {
	// Serve blocks while the server is running.
	Serve(ctx context.Context) error
}
