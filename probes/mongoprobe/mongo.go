// Package mongoprobe provides a smon.Probe over an existing MongoDB
// client. New pings a client the caller already established rather than
// dialing fresh on every invocation, avoiding a new TCP handshake and
// authentication round-trip on every scheduled run.
package mongoprobe

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kopchik/smon"
)

// New builds a probe that pings client.
func New(client *mongo.Client) smon.Probe {
	return smon.FromError(func(ctx context.Context) error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return fmt.Errorf("mongo: ping: %w", err)
		}
		return nil
	})
}
