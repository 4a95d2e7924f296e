package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner executes fn as one unit. When Transactional reports false, writes made by
// fn are applied one by one and callers must compensate on failure themselves.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Transactional() bool
}

// MongoTxRunner runs fn inside a multi-document transaction. Transactions need a
// replica set; with Enabled=false fn runs without a session.
type MongoTxRunner struct {
	Client  *mongo.Client
	Enabled bool
}

func NewMongoTxRunner(client *mongo.Client, enabled bool) *MongoTxRunner {
	return &MongoTxRunner{Client: client, Enabled: enabled}
}

func (r *MongoTxRunner) Transactional() bool {
	return r.Enabled
}

func (r *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.Enabled {
		return fn(ctx)
	}

	sess, err := r.Client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	// The driver re-runs fn on TransientTransactionError (e.g. a write conflict on a
	// station shared by two transitions) and retries commits with an unknown result.
	if _, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
