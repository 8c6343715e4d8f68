package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/task-system/internal/core/domain"
)

const collectionTasks = "tasks"

// TaskRepository implements ports.TaskRepository on MongoDB.
type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type mongoTask struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	Description      string             `bson:"description,omitempty"`
	Status           string             `bson:"status"`
	Priority         *int               `bson:"priority,omitempty"`
	AssignedUserID   string             `bson:"assigned_user_id,omitempty"`
	AssignedUsername string             `bson:"assigned_username,omitempty"`
	CreateUserID     string             `bson:"create_user_id,omitempty"`
	CreateUsername   string             `bson:"create_username,omitempty"`
	CreatedDate      time.Time          `bson:"created_date"`
}

func toMongoTask(t *domain.Task) mongoTask {
	return mongoTask{
		Title:            t.Title,
		Description:      t.Description,
		Status:           string(t.Status),
		Priority:         t.Priority,
		AssignedUserID:   t.AssignedUserID,
		AssignedUsername: t.AssignedUsername,
		CreateUserID:     t.CreateUserID,
		CreateUsername:   t.CreateUsername,
		CreatedDate:      t.CreatedDate,
	}
}

func (m mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:               m.ID.Hex(),
		Title:            m.Title,
		Description:      m.Description,
		Status:           domain.TaskStatus(m.Status),
		Priority:         m.Priority,
		AssignedUserID:   m.AssignedUserID,
		AssignedUsername: m.AssignedUsername,
		CreateUserID:     m.CreateUserID,
		CreateUsername:   m.CreateUsername,
		CreatedDate:      m.CreatedDate.UTC(),
	}
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTask
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	return r.find(ctx, bson.M{})
}

func (r *TaskRepository) FindByAssignee(ctx context.Context, userID string) ([]*domain.Task, error) {
	return r.find(ctx, bson.M{"assigned_user_id": userID})
}

func (r *TaskRepository) FindByCreator(ctx context.Context, userID string) ([]*domain.Task, error) {
	return r.find(ctx, bson.M{"create_user_id": userID})
}

// FindByScope translates the visibility contract into a single query:
// an unfiltered scan for All, otherwise an $or over creator, assignee and
// (for managers) the resolved report ids.
func (r *TaskRepository) FindByScope(ctx context.Context, scope domain.TaskScope) ([]*domain.Task, error) {
	if scope.All {
		return r.find(ctx, bson.M{})
	}

	or := []bson.M{
		{"create_user_id": scope.ViewerID},
		{"assigned_user_id": scope.ViewerID},
	}
	if scope.IncludeManaged && len(scope.ManagedCreatorIDs) > 0 {
		or = append(or, bson.M{"create_user_id": bson.M{"$in": scope.ManagedCreatorIDs}})
	}
	return r.find(ctx, bson.M{"$or": or})
}

// Save upserts keyed by id: an empty id inserts a new document and the
// assigned id is returned on the resulting record.
func (r *TaskRepository) Save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoTask(task)

	if task.ID == "" {
		res, err := r.col.InsertOne(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("insert task: %w", err)
		}
		doc.ID = res.InsertedID.(primitive.ObjectID)
		return doc.toDomain(), nil
	}

	oid, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	doc.ID = oid
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// ClearCreator unsets the creator id and the denormalized creator name on
// every task created by userID. Safe to re-run after a partial failure.
func (r *TaskRepository) ClearCreator(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"create_user_id": userID},
		bson.M{"$unset": bson.M{"create_user_id": "", "create_username": ""}},
	)
	if err != nil {
		return 0, fmt.Errorf("clear creator refs: %w", err)
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the indexes backing scope queries and the cascade.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "assigned_user_id", Value: 1}}},
		{Keys: bson.D{{Key: "create_user_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := []*domain.Task{}
	for cur.Next(ctx) {
		var mt mongoTask
		if err := cur.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, mt.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
