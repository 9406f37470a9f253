package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/xyths/nft-dashboard/metrics"
	"github.com/xyths/nft-dashboard/nft"
)

const (
	collConfig = "config"
	CollEvent  = "events"

	keyLastUpdateTime = "lastUpdateTime"

	expireIndexName   = "eventExpireIndex"
	contractIndexName = "eventContractIndex"

	defaultRetention = 24 * time.Hour
)

// Store keeps recent NFT events in MongoDB. Events expire through a TTL
// index on createdAt.
type Store struct {
	db        *mongo.Database
	retention time.Duration

	Sugar *zap.SugaredLogger
}

func New(db *mongo.Database, retention time.Duration, sugar *zap.SugaredLogger) *Store {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Store{db: db, retention: retention, Sugar: sugar}
}

func (s *Store) Close(ctx context.Context) {
	if err := s.db.Client().Disconnect(ctx); err != nil {
		s.Sugar.Errorf("db close error: %s", err)
	}
	s.Sugar.Info("store closed")
}

// InitIndex creates the TTL and lookup indexes of the event collection.
func (s *Store) InitIndex(ctx context.Context) error {
	coll := s.db.Collection(CollEvent)
	indexView := coll.Indexes()
	cursor, err := indexView.List(ctx, options.ListIndexes().SetMaxTime(time.Second*2))
	if err != nil {
		return err
	}
	var indexes []bson.M
	if err = cursor.All(ctx, &indexes); err != nil {
		return err
	}
	existing := make(map[string]bool)
	for _, index := range indexes {
		if name, ok := index["name"].(string); ok {
			existing[name] = true
		}
	}
	var models []mongo.IndexModel
	if !existing[expireIndexName] {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{"createdAt", 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(s.retention / time.Second)).SetName(expireIndexName),
		})
	}
	if !existing[contractIndexName] {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{"contract", 1}, {"timestamp", -1}},
			Options: options.Index().SetName(contractIndexName),
		})
	}
	if len(models) == 0 {
		return nil
	}
	names, err := indexView.CreateMany(ctx, models)
	if err != nil {
		return err
	}
	s.Sugar.Infof("create index %v", names)
	return nil
}

func (s *Store) SaveEvents(ctx context.Context, events []nft.Event) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(events))
	for _, e := range events {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		docs = append(docs, e)
	}
	if _, err := s.db.Collection(CollEvent).InsertMany(ctx, docs); err != nil {
		return err
	}
	metrics.AddEventsSaved(len(docs))
	return nil
}

// RecentEvents returns up to limit events of a contract, newest first.
func (s *Store) RecentEvents(ctx context.Context, contract string, limit int) ([]nft.Event, error) {
	opt := options.Find().SetSort(bson.D{{"timestamp", -1}})
	if limit > 0 {
		opt.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(CollEvent).Find(ctx, bson.D{{"contract", strings.ToLower(contract)}}, opt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	var events []nft.Event
	if err = cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) LoadLastTime(ctx context.Context) (*time.Time, error) {
	coll := s.db.Collection(collConfig)
	last := struct {
		Key          string    `bson:"key"`
		Value        time.Time `bson:"value"`
		LastModified time.Time `bson:"lastModified"`
	}{}
	if err := coll.FindOne(ctx, bson.D{{"key", keyLastUpdateTime}}).Decode(&last); err == nil {
		return &last.Value, nil
	} else if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	} else {
		return nil, err
	}
}

func (s *Store) SaveLastTime(ctx context.Context, now time.Time) error {
	coll := s.db.Collection(collConfig)
	_, err := coll.UpdateOne(
		ctx,
		bson.D{
			{"key", keyLastUpdateTime},
		},
		bson.D{
			{"$set", bson.D{
				{"value", now},
			}},
			{"$currentDate", bson.D{
				{"lastModified", true},
			}},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
