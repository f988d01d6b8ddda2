package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/domain"
)

const (
	collectionName    = "accounts"
	defaultMaxRetries = 5
)

// Repository stores one document per account. Writes are guarded by the
// document's version field.
type Repository struct {
	coll       *mongo.Collection
	maxRetries int
}

func New(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll, maxRetries: defaultMaxRetries}
}

// Collection returns the accounts collection of db with the ledger codecs
// installed.
func Collection(db *mongo.Database) *mongo.Collection {
	return db.Collection(collectionName, options.Collection().SetRegistry(NewRegistry()))
}

// Connect dials uri and verifies the connection.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(NewRegistry()))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, Collection(client.Database(database)), nil
}

func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "login", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "affiliateCode", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "referredBy", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, acc *domain.Account) error {
	acc.Version = 1
	if _, err := r.coll.InsertOne(ctx, acc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		zap.L().Error("failed to create account", zap.String("id", acc.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *Repository) FindByLogin(ctx context.Context, login string) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "login", Value: login}})
}

func (r *Repository) FindByAffiliateCode(ctx context.Context, code string) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "affiliateCode", Value: code}})
}

func (r *Repository) findOne(ctx context.Context, filter bson.D) (*domain.Account, error) {
	var acc domain.Account
	if err := r.coll.FindOne(ctx, filter).Decode(&acc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		zap.L().Error("failed to get account", zap.Any("filter", filter), zap.Error(err))
		return nil, err
	}
	return &acc, nil
}

func (r *Repository) ListIDs(ctx context.Context, after string, limit int) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.D{{Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$gt", Value: after}}}}, opts)
	if err != nil {
		zap.L().Error("failed to list accounts", zap.Error(err))
		return nil, err
	}
	defer cur.Close(ctx)

	ids := make([]string, 0, limit)
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// Update reloads and retries when another writer bumped the version between
// the read and the replace.
func (r *Repository) Update(ctx context.Context, id string, fn domain.UpdateFn) (*domain.Account, error) {
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		acc, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			return nil, domain.ErrNotFound
		}

		version := acc.Version
		if err := fn(acc); err != nil {
			return nil, err
		}
		acc.Version = version + 1

		res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "version", Value: version}}, acc)
		if err != nil {
			zap.L().Error("failed to update account", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		if res.MatchedCount == 1 {
			return acc, nil
		}
		zap.L().Debug("account version moved, retrying", zap.String("id", id), zap.Int("attempt", attempt+1))
	}
	return nil, fmt.Errorf("update account %s: %w", id, domain.ErrConflict)
}
