package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bazarly/vendor-portal/internal/core/ports"
)

const submissionCollection = "registration_submissions"

// SubmissionRepository persists the audit trail of registration submission
// attempts.
type SubmissionRepository struct {
	coll *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{coll: db.Collection(submissionCollection)}
}

type submissionDoc struct {
	DraftID     string `bson:"draft_id"`
	SessionID   string `bson:"session_id"`
	VendorName  string `bson:"vendor_name,omitempty"`
	Region      string `bson:"region,omitempty"`
	Success     bool   `bson:"success"`
	Message     string `bson:"message,omitempty"`
	SubmittedAt int64  `bson:"submitted_at"`
}

func (r *SubmissionRepository) Insert(ctx context.Context, record *ports.SubmissionRecord) error {
	doc := submissionDoc{
		DraftID:     record.DraftID,
		SessionID:   record.SessionID,
		VendorName:  record.VendorName,
		Region:      record.Region,
		Success:     record.Success,
		Message:     record.Message,
		SubmittedAt: record.SubmittedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert submission record: %w", err)
	}
	return nil
}
