package catalog

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/types"
)

// MongoConfig configures the MongoDB-backed capability store.
type MongoConfig struct {
	URI        string        `yaml:"uri" json:"uri"`
	Database   string        `yaml:"database" json:"database"`
	Collection string        `yaml:"collection" json:"collection"`
	// ConnectTimeout bounds server selection and the initial ping.
	ConnectTimeout time.Duration `yaml:"connect_timeout" json:"connect_timeout"`
}

// DefaultMongoConfig returns the default MongoDB store configuration.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:            "mongodb://localhost:27017",
		Database:       "agentscout",
		Collection:     "agents",
		ConnectTimeout: 5 * time.Second,
	}
}

// MongoStore implements Store on top of a MongoDB collection, using the
// server's native $text search for the description variant.
type MongoStore struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig, logger *zap.Logger) (*MongoStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "failed to create mongo client").
			WithCause(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "failed to connect to mongo").
			WithCause(err).WithRetryable(true)
	}

	s := &MongoStore{
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		logger: logger.With(zap.String("component", "mongo_store")),
	}

	logger.Info("mongo store connected",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)
	return s, nil
}

// EnsureIndexes creates the unique agent id index and the text index
// used by SearchText. Safe to call repeatedly.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "agent_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "description", Value: "text"},
				{Key: "specialization", Value: "text"},
				{Key: "tags", Value: "text"},
				{Key: "domain", Value: "text"},
			},
		},
	})
	if err != nil {
		return types.NewError(types.ErrStoreUnavailable, "failed to create indexes").WithCause(err)
	}
	return nil
}

// ListByStructure returns records of the given structure type.
func (s *MongoStore) ListByStructure(ctx context.Context, st types.StructureType, limit int) ([]types.CapabilityRecord, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.M{"structure_type": st}, opts)
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "mongo find failed").
			WithCause(err).WithRetryable(true)
	}
	defer cur.Close(ctx)

	var out []types.CapabilityRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "mongo cursor failed").
			WithCause(err).WithRetryable(true)
	}
	return out, nil
}

// scoredRecord decodes a record together with its textScore meta field.
type scoredRecord struct {
	types.CapabilityRecord `bson:",inline"`
	Score                  float64 `bson:"score"`
}

// SearchText runs a $text search restricted to records of the given
// structure type, ordered by textScore descending. The native score is
// MongoDB's textScore.
func (s *MongoStore) SearchText(ctx context.Context, query string, st types.StructureType, limit int) ([]types.CandidateRecord, error) {
	if query == "" {
		return []types.CandidateRecord{}, nil
	}

	filter := bson.M{
		"structure_type": st,
		"$text":          bson.M{"$search": query},
	}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "mongo text search failed").
			WithCause(err).WithRetryable(true)
	}
	defer cur.Close(ctx)

	var scored []scoredRecord
	if err := cur.All(ctx, &scored); err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "mongo cursor failed").
			WithCause(err).WithRetryable(true)
	}

	out := make([]types.CandidateRecord, len(scored))
	for i, sr := range scored {
		out[i] = types.CandidateRecord{
			AgentID:       sr.AgentID,
			StructureType: st,
			NativeScore:   sr.Score,
			HasScore:      true,
			Record:        sr.CapabilityRecord,
		}
	}
	return out, nil
}

// Get returns the record for an agent, or nil if absent.
func (s *MongoStore) Get(ctx context.Context, agentID string) (*types.CapabilityRecord, error) {
	var rec types.CapabilityRecord
	err := s.coll.FindOne(ctx, bson.M{"agent_id": agentID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "mongo find one failed").
			WithCause(err).WithRetryable(true)
	}
	return &rec, nil
}

// Count returns the total number of records.
func (s *MongoStore) Count(ctx context.Context) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, types.NewError(types.ErrStoreUnavailable, "mongo count failed").
			WithCause(err).WithRetryable(true)
	}
	return int(n), nil
}

// Upsert inserts or replaces a record keyed by agent id.
func (s *MongoStore) Upsert(ctx context.Context, rec types.CapabilityRecord) error {
	if rec.AgentID == "" {
		return types.NewError(types.ErrInvalidRequest, "record has no agent id")
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"agent_id": rec.AgentID},
		bson.M{"$set": rec},
		options.UpdateOne().SetUpsert(true))
	if err != nil {
		return types.NewError(types.ErrStoreUnavailable, "mongo upsert failed").
			WithCause(err).WithRetryable(true)
	}
	return nil
}

var (
	_ Store  = (*MongoStore)(nil)
	_ Writer = (*MongoStore)(nil)
)
