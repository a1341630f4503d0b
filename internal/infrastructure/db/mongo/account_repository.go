package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/soundwave/accounts-api/internal/core/domain"
)

const (
	accountsCollection = "users"
	countersCollection = "counters"
	accountSequence    = "users_id"
)

// AccountRepository stores accounts as documents with integer ids drawn from
// a counter document, mirroring the relational schema.
type AccountRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		coll:     db.Collection(accountsCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoAccount struct {
	ID        int64  `bson:"_id"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`
	Phone     string `bson:"phone"`
	Password  string `bson:"password"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

type counter struct {
	Seq int64 `bson:"seq"`
}

// EnsureIndexes creates the unique email index that backs conflict detection.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	return &domain.Account{
		ID:           ma.ID,
		Name:         ma.Name,
		Email:        ma.Email,
		Phone:        ma.Phone,
		PasswordHash: ma.Password,
		CreatedAt:    unixToTime(ma.CreatedAt),
		UpdatedAt:    unixToTime(ma.UpdatedAt),
	}, nil
}

func (r *AccountRepository) Insert(ctx context.Context, name, email, phone, passwordHash string) (int64, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC().Unix()
	doc := mongoAccount{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, domain.ErrEmailTaken
		}
		return 0, fmt.Errorf("insert account: %w", err)
	}
	return id, nil
}

func (r *AccountRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (int64, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": passwordHash, "updated_at": time.Now().UTC().Unix()}},
	)
	if err != nil {
		return 0, fmt.Errorf("update password: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

// nextID atomically increments and returns the account sequence.
func (r *AccountRepository) nextID(ctx context.Context) (int64, error) {
	var c counter
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": accountSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next account id: %w", err)
	}
	return c.Seq, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
