// Package delivery defines the contract every inbound transport
// (HTTP, workers) fulfills so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running inbound server.
type Delivery interface {
	// Serve blocks until the server stops or fails.
	Serve(ctx context.Context) error
}
