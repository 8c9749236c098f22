package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

const collectionGroups = "groups"

type GroupRepository struct {
	col *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{col: db.Collection(collectionGroups)}
}

type mongoGroup struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Description     string             `bson:"description,omitempty"`
	InstructorID    string             `bson:"instructor_id,omitempty"`
	InstructorName  string             `bson:"instructor_name"`
	InstructorEmail string             `bson:"instructor_email"`
	Ward            string             `bson:"ward"`
	StartDate       time.Time          `bson:"start_date"`
	EndDate         time.Time          `bson:"end_date"`
	MaxStudents     int                `bson:"max_students"`
	CurrentStudents int                `bson:"current_students"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (r *GroupRepository) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoGroup(g))
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}

	created := *g
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *GroupRepository) Update(ctx context.Context, g *domain.Group) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(g.ID)
	if err != nil {
		return domain.ErrGroupNotFound
	}

	doc := toMongoGroup(g)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) FindByID(ctx context.Context, id string) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrGroupNotFound
	}

	var mg mongoGroup
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return toDomainGroup(&mg), nil
}

func (r *GroupRepository) List(ctx context.Context, filter ports.GroupFilter) ([]*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.InstructorEmail != "" {
		query["instructor_email"] = filter.InstructorEmail
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Ward != "" {
		query["ward"] = filter.Ward
	}

	cur, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer cur.Close(ctx)

	var groups []*domain.Group
	for cur.Next(ctx) {
		var mg mongoGroup
		if err := cur.Decode(&mg); err != nil {
			return nil, fmt.Errorf("decode group: %w", err)
		}
		groups = append(groups, toDomainGroup(&mg))
	}
	return groups, cur.Err()
}

func (r *GroupRepository) IncrementStudents(ctx context.Context, id string, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrGroupNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"current_students": delta}})
	if err != nil {
		return fmt.Errorf("increment students: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func toMongoGroup(g *domain.Group) *mongoGroup {
	return &mongoGroup{
		Name:            g.Name,
		Description:     g.Description,
		InstructorID:    g.InstructorID,
		InstructorName:  g.InstructorName,
		InstructorEmail: g.InstructorEmail,
		Ward:            g.Ward,
		StartDate:       g.StartDate,
		EndDate:         g.EndDate,
		MaxStudents:     g.MaxStudents,
		CurrentStudents: g.CurrentStudents,
		Status:          string(g.Status),
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

func toDomainGroup(mg *mongoGroup) *domain.Group {
	return &domain.Group{
		ID:              mg.ID.Hex(),
		Name:            mg.Name,
		Description:     mg.Description,
		InstructorID:    mg.InstructorID,
		InstructorName:  mg.InstructorName,
		InstructorEmail: mg.InstructorEmail,
		Ward:            mg.Ward,
		StartDate:       mg.StartDate,
		EndDate:         mg.EndDate,
		MaxStudents:     mg.MaxStudents,
		CurrentStudents: mg.CurrentStudents,
		Status:          domain.GroupStatus(mg.Status),
		CreatedAt:       mg.CreatedAt,
		UpdatedAt:       mg.UpdatedAt,
	}
}
