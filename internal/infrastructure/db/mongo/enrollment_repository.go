package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
)

const collectionEnrollments = "enrollments"

type EnrollmentRepository struct {
	col *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{col: db.Collection(collectionEnrollments)}
}

type mongoEnrollment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	GroupID      string             `bson:"group_id"`
	StudentName  string             `bson:"student_name"`
	StudentEmail string             `bson:"student_email"`
	StudentPhone string             `bson:"student_phone,omitempty"`
	Notes        string             `bson:"notes,omitempty"`
	JoinedAt     time.Time          `bson:"joined_at"`
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEnrollment{
		GroupID:      e.GroupID,
		StudentName:  e.StudentName,
		StudentEmail: e.StudentEmail,
		StudentPhone: e.StudentPhone,
		Notes:        e.Notes,
		JoinedAt:     e.JoinedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}

	created := *e
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *EnrollmentRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.Enrollment, error) {
	return r.list(ctx, bson.M{"group_id": groupID})
}

func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error) {
	return r.list(ctx, bson.M{"student_email": studentEmail})
}

func (r *EnrollmentRepository) Exists(ctx context.Context, groupID, studentEmail string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"group_id": groupID, "student_email": studentEmail})
	if err != nil {
		return false, fmt.Errorf("count enrollments: %w", err)
	}
	return n > 0, nil
}

func (r *EnrollmentRepository) list(ctx context.Context, query bson.M) ([]*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Enrollment
	for cur.Next(ctx) {
		var me mongoEnrollment
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode enrollment: %w", err)
		}
		out = append(out, &domain.Enrollment{
			ID:           me.ID.Hex(),
			GroupID:      me.GroupID,
			StudentName:  me.StudentName,
			StudentEmail: me.StudentEmail,
			StudentPhone: me.StudentPhone,
			Notes:        me.Notes,
			JoinedAt:     me.JoinedAt,
		})
	}
	return out, cur.Err()
}
