// Package mongo provides the MongoDB implementation of the account activity
// read model maintained by the ledger event projector.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ledgerbooks/backend/internal/domain/report"
)

const (
	// ActivityCollectionName is the name of the account activity collection in MongoDB
	ActivityCollectionName = "account_activity"
)

// ReportRepository implements the report.Repository interface for MongoDB
type ReportRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewReportRepository creates a new MongoDB report repository
func NewReportRepository(logger *slog.Logger, db *mongo.Database) report.Repository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// InsertMany stores the activity rows of one posted transaction.
// Callers delete the transaction's rows first, which makes replayed events safe.
func (r *ReportRepository) InsertMany(ctx context.Context, activities []*report.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	collection := r.db.Collection(ActivityCollectionName)

	documents := make([]interface{}, 0, len(activities))
	for _, activity := range activities {
		documents = append(documents, activity)
	}

	_, err := collection.InsertMany(ctx, documents)
	if err != nil {
		r.logger.Error("Failed to insert activity rows",
			"transaction_id", activities[0].TransactionID,
			"error", err)
		return fmt.Errorf("failed to insert activity rows: %w", err)
	}

	return nil
}

// DeleteByTransactionID removes all activity rows of a transaction and reports
// how many were deleted. A zero count is not an error: tombstones for never
// projected transactions are a no-op.
func (r *ReportRepository) DeleteByTransactionID(ctx context.Context, transactionID int64) (int64, error) {
	collection := r.db.Collection(ActivityCollectionName)

	result, err := collection.DeleteMany(ctx, bson.M{"transaction_id": transactionID})
	if err != nil {
		r.logger.Error("Failed to delete activity rows",
			"transaction_id", transactionID,
			"error", err)
		return 0, fmt.Errorf("failed to delete activity rows: %w", err)
	}

	return result.DeletedCount, nil
}

// GetByAccountID retrieves paginated activity rows for an account.
// Results are sorted by transaction date in descending order (newest first).
func (r *ReportRepository) GetByAccountID(ctx context.Context, accountID int64, limit, offset int64) ([]*report.Activity, error) {
	collection := r.db.Collection(ActivityCollectionName)

	filter := bson.M{"account_id": accountID}
	opts := options.Find().
		SetSort(bson.D{{Key: "transaction_date", Value: -1}, {Key: "entry_id", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get account activity",
			"account_id", accountID,
			"error", err)
		return nil, fmt.Errorf("failed to get account activity: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []*report.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		r.logger.Error("Failed to decode account activity",
			"account_id", accountID,
			"error", err)
		return nil, fmt.Errorf("failed to decode account activity: %w", err)
	}

	return activities, nil
}

// CountByAccountID returns the total number of activity rows for an account
func (r *ReportRepository) CountByAccountID(ctx context.Context, accountID int64) (int64, error) {
	collection := r.db.Collection(ActivityCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"account_id": accountID})
	if err != nil {
		r.logger.Error("Failed to count account activity",
			"account_id", accountID,
			"error", err)
		return 0, fmt.Errorf("failed to count account activity: %w", err)
	}

	return count, nil
}

// Close is a no-op; the underlying client is owned by the caller.
func (r *ReportRepository) Close(ctx context.Context) error {
	return nil
}
