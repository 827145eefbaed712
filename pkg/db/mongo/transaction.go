package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	apperrors "hearth/pkg/errors"
)

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
	}
}

// ExecuteTransaction runs fn inside a multi-document transaction with
// snapshot reads and majority-acknowledged writes. Within the transaction
// the overlap check and the insert observe a single consistent snapshot;
// a conflicting concurrent writer surfaces as a transient error at commit.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, txnOpts)

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

type labeledError interface {
	HasErrorLabel(label string) bool
}

// IsTransient reports whether err is a storage-level failure worth retrying:
// a transaction that lost a write conflict, a commit with an unknown
// outcome, or a request-level timeout. Domain errors are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.IsAppError(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		if le, ok := e.(labeledError); ok {
			if le.HasErrorLabel("TransientTransactionError") || le.HasErrorLabel("UnknownTransactionCommitResult") {
				return true
			}
		}
	}

	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}
