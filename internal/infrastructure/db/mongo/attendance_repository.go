package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
)

const collectionAttendance = "attendance"

type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendance)}
}

type mongoAttendance struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	GroupID      string             `bson:"group_id"`
	StudentEmail string             `bson:"student_email"`
	StudentName  string             `bson:"student_name"`
	WeekStart    time.Time          `bson:"week_start"`
	Present      bool               `bson:"present"`
	MarkedBy     string             `bson:"marked_by"`
	MarkedAt     time.Time          `bson:"marked_at"`
}

// Upsert replaces the record keyed by (group, student, week), so re-marking a
// week overwrites the earlier sheet.
func (r *AttendanceRepository) Upsert(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"group_id":      rec.GroupID,
		"student_email": rec.StudentEmail,
		"week_start":    rec.WeekStart,
	}
	update := bson.M{"$set": bson.M{
		"student_name": rec.StudentName,
		"present":      rec.Present,
		"marked_by":    rec.MarkedBy,
		"marked_at":    rec.MarkedAt,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := r.col.UpdateOne(ctx, filter, update, opts); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}

	var ma mongoAttendance
	if err := r.col.FindOne(ctx, filter).Decode(&ma); err != nil {
		return nil, fmt.Errorf("reload attendance: %w", err)
	}
	return toDomainAttendance(&ma), nil
}

func (r *AttendanceRepository) ListByGroupWeek(ctx context.Context, groupID string, weekStart time.Time) ([]*domain.AttendanceRecord, error) {
	return r.list(ctx, bson.M{"group_id": groupID, "week_start": weekStart})
}

func (r *AttendanceRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.AttendanceRecord, error) {
	return r.list(ctx, bson.M{"group_id": groupID})
}

func (r *AttendanceRepository) list(ctx context.Context, query bson.M) ([]*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.AttendanceRecord
	for cur.Next(ctx) {
		var ma mongoAttendance
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode attendance: %w", err)
		}
		out = append(out, toDomainAttendance(&ma))
	}
	return out, cur.Err()
}

func toDomainAttendance(ma *mongoAttendance) *domain.AttendanceRecord {
	return &domain.AttendanceRecord{
		ID:           ma.ID.Hex(),
		GroupID:      ma.GroupID,
		StudentEmail: ma.StudentEmail,
		StudentName:  ma.StudentName,
		WeekStart:    ma.WeekStart,
		Present:      ma.Present,
		MarkedBy:     ma.MarkedBy,
		MarkedAt:     ma.MarkedAt,
	}
}
