// internal/repository/mongo/meal_repo.go
package mongo

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mealCollectionName = "meals"

// mongoMealRepository implements repository.MealRepository
type mongoMealRepository struct {
	collection *mongo.Collection
}

// NewMongoMealRepository creates a new Meal repository backed by MongoDB.
func NewMongoMealRepository(db *mongo.Database) repository.MealRepository {
	return &mongoMealRepository{
		collection: db.Collection(mealCollectionName),
	}
}

// Create inserts a new meal. IDs are ObjectID hex strings.
func (r *mongoMealRepository) Create(ctx context.Context, meal *domain.Meal) (string, error) {
	if meal.Name == "" || meal.OwnerID == "" || len(meal.Categories) == 0 {
		return "", errors.New("meal name, owner ID and categories are required")
	}
	meal.ID = primitive.NewObjectID().Hex()
	meal.NameKey = domain.NameKey(meal.Name)
	meal.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, meal)
	if err != nil {
		// Unique (ownerId, nameKey) index
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicate
		}
		return "", err
	}
	insertedID, ok := result.InsertedID.(string)
	if !ok {
		return "", errors.New("failed to convert inserted meal ID")
	}
	return insertedID, nil
}

// ListByOwner retrieves all meals of an owner, oldest first.
func (r *mongoMealRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Meal, error) {
	meals := []domain.Meal{}
	filter := bson.M{"ownerId": ownerID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &meals); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	for i := range meals {
		meals[i].Normalize()
	}
	return meals, nil
}

// Delete removes a meal, ensuring it belongs to the specified owner.
func (r *mongoMealRepository) Delete(ctx context.Context, id, ownerID string) error {
	filter := bson.M{"_id": id, "ownerId": ownerID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetFavorite updates the favorite flag.
func (r *mongoMealRepository) SetFavorite(ctx context.Context, id string, isFavorite bool) error {
	return r.set(ctx, id, bson.M{"isFavorite": isFavorite})
}

// SetLastEaten updates the last-eaten timestamp used by recency weighting.
func (r *mongoMealRepository) SetLastEaten(ctx context.Context, id string, at time.Time) error {
	return r.set(ctx, id, bson.M{"lastEaten": at.UTC()})
}

func (r *mongoMealRepository) set(ctx context.Context, id string, fields bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMealIndexes creates necessary indexes for the meals collection.
func EnsureMealIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Enforces the case-insensitive unique name rule per owner
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "nameKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("meal_owner_name"),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
