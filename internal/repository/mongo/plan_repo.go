// internal/repository/mongo/plan_repo.go
package mongo

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository.
// Documents are keyed by owner ID, one per owner.
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new Plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Get retrieves the current plan of an owner.
func (r *mongoPlanRepository) Get(ctx context.Context, ownerID string) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.collection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if plan.Days == nil {
		plan.Days = []domain.PlanSlot{}
	}
	return &plan, nil
}

// Put merges days and startDate into the owner's plan document, creating it if needed.
func (r *mongoPlanRepository) Put(ctx context.Context, ownerID string, plan *domain.Plan) error {
	if ownerID == "" {
		return errors.New("owner ID is required to store a plan")
	}
	days := []domain.PlanSlot{}
	var startDate *time.Time
	if plan != nil && len(plan.Days) > 0 {
		days = plan.Days
		startDate = plan.StartDate
	}

	update := bson.M{
		"$set": bson.M{
			"days":      days,
			"startDate": startDate,
			"updatedAt": time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": ownerID}, update, options.Update().SetUpsert(true))
	return err
}
