package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs fn inside a transaction. Repositories called with the ctx passed to fn
// take part in it.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTxRunner runs transactions on a Mongo client session.
type MongoTxRunner struct {
	Client *mongo.Client
}

// NewMongoTxRunner returns a runner bound to the global client.
func NewMongoTxRunner() *MongoTxRunner {
	return &MongoTxRunner{Client: MongoClient}
}

func (r *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.Client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// NoTx runs fn directly. Used where the deployment has no replica set, and in tests.
type NoTx struct{}

func (NoTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
