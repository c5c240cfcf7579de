package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	coll := db.Collection("users")
	_, _ = coll.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_idx")},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true).SetName("phone_idx")},
	})
	return &UserRepository{coll: coll}
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *UserRepository) FindMany(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *UserRepository) findMany(ctx context.Context, filter bson.M) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)
	out := []domain.User{}
	for cur.Next(ctx) {
		var u domain.User
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		out = append(out, u)
	}
	return out, cur.Err()
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password": hash}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddFriendRequest records from → to. The two sides are written as separate
// updates, not a transaction: a failure between them leaves the request
// recorded on one side only until the call is retried. $addToSet/$pull keep
// retries idempotent, so the asymmetry heals on the next attempt; the same
// window applies to Accept and Reject below.
func (r *UserRepository) AddFriendRequest(ctx context.Context, from, to string) error {
	if _, err := r.coll.UpdateByID(ctx, from, bson.M{"$addToSet": bson.M{"friend_requests_sent": to}}); err != nil {
		return fmt.Errorf("record sent request: %w", err)
	}
	if _, err := r.coll.UpdateByID(ctx, to, bson.M{"$addToSet": bson.M{"friend_requests_received": from}}); err != nil {
		return fmt.Errorf("record received request: %w", err)
	}
	return nil
}

// AcceptFriendRequest moves requester out of the pending sets and into both
// friends lists.
func (r *UserRepository) AcceptFriendRequest(ctx context.Context, userID, requesterID string) error {
	if _, err := r.coll.UpdateByID(ctx, userID, bson.M{
		"$pull":     bson.M{"friend_requests_received": requesterID},
		"$addToSet": bson.M{"friends": requesterID},
	}); err != nil {
		return fmt.Errorf("accept request: %w", err)
	}
	if _, err := r.coll.UpdateByID(ctx, requesterID, bson.M{
		"$pull":     bson.M{"friend_requests_sent": userID},
		"$addToSet": bson.M{"friends": userID},
	}); err != nil {
		return fmt.Errorf("accept request (requester side): %w", err)
	}
	return nil
}

func (r *UserRepository) RejectFriendRequest(ctx context.Context, userID, requesterID string) error {
	if _, err := r.coll.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"friend_requests_received": requesterID}}); err != nil {
		return fmt.Errorf("reject request: %w", err)
	}
	if _, err := r.coll.UpdateByID(ctx, requesterID, bson.M{"$pull": bson.M{"friend_requests_sent": userID}}); err != nil {
		return fmt.Errorf("reject request (requester side): %w", err)
	}
	return nil
}
