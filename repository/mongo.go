package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daybook-app/daybook/config"
	"github.com/daybook-app/daybook/model"
	"github.com/daybook-app/daybook/utils"
)

// mongoEntry is the stored document: the entry plus its append-order
// sequence number. Ordered reads sort by seq.
type mongoEntry struct {
	Seq                int64 `bson:"seq"`
	model.JournalEntry `bson:",inline"`
}

// MongoStore persists one document per entry. The mutex serializes
// writers so seq assignment and index-addressed mutations stay
// consistent within the process.
type MongoStore struct {
	client  *mongo.Client
	entries *mongo.Collection
	users   *mongo.Collection
	mu      sync.Mutex
}

func NewMongoStore(cfg config.DatabaseConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	db := client.Database(cfg.DatabaseName)
	store := &MongoStore{
		client:  client,
		entries: db.Collection("entries"),
		users:   db.Collection("users"),
	}
	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return store, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	entryIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "seq", Value: 1}},
			Options: options.Index().
				SetName("entry_seq").
				SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
				{Key: "seq", Value: 1},
			},
			Options: options.Index().
				SetName("entry_date_seq"),
		},
	}
	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_unique").
				SetUnique(true),
		},
	}

	if _, err := s.entries.Indexes().CreateMany(ctx, entryIndexes); err != nil {
		return fmt.Errorf("%w: create entry indexes: %v", ErrStorageUnavailable, err)
	}
	if _, err := s.users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("%w: create user indexes: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]model.JournalEntry, error) {
	timer := utils.TrackDBOperation("find", "mongo")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(ctx)
}

func (s *MongoStore) list(ctx context.Context) ([]model.JournalEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := s.entries.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer cursor.Close(ctx)

	var docs []mongoEntry
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	entries := make([]model.JournalEntry, 0, len(docs))
	for _, doc := range docs {
		e := doc.JournalEntry
		e.Normalize()
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *MongoStore) FindByDate(ctx context.Context, date string) (*model.JournalEntry, error) {
	timer := utils.TrackDBOperation("find", "mongo")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	opts := options.FindOne().SetSort(bson.D{{Key: "seq", Value: 1}})
	var doc mongoEntry
	err := s.entries.FindOne(ctx, bson.M{"date": date}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	e := doc.JournalEntry
	e.Normalize()
	return &e, nil
}

// nextSeq returns one past the highest stored sequence. Callers hold
// the store mutex.
func (s *MongoStore) nextSeq(ctx context.Context) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}})
	var last mongoEntry
	err := s.entries.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 1, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return last.Seq + 1, nil
}

func (s *MongoStore) Append(ctx context.Context, entry model.JournalEntry) error {
	timer := utils.TrackDBOperation("insert", "mongo")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Normalize()
	seq, err := s.nextSeq(ctx)
	if err != nil {
		return err
	}
	if _, err := s.entries.InsertOne(ctx, mongoEntry{Seq: seq, JournalEntry: entry}); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// entryAtIndex resolves a positional index against the seq order.
// Callers hold the store mutex.
func (s *MongoStore) entryAtIndex(ctx context.Context, index int) (mongoEntry, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "seq", Value: 1}}).
		SetSkip(int64(index))
	var doc mongoEntry
	err := s.entries.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return mongoEntry{}, ErrIndexOutOfRange
		}
		return mongoEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return doc, nil
}

func (s *MongoStore) UpdateAt(ctx context.Context, index int, patch EntryPatch) (model.JournalEntry, error) {
	timer := utils.TrackDBOperation("update", "mongo")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 {
		return model.JournalEntry{}, ErrIndexOutOfRange
	}
	doc, err := s.entryAtIndex(ctx, index)
	if err != nil {
		return model.JournalEntry{}, err
	}
	return s.update(ctx, doc, patch)
}

func (s *MongoStore) UpdateByID(ctx context.Context, id string, patch EntryPatch) (model.JournalEntry, error) {
	timer := utils.TrackDBOperation("update", "mongo")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc mongoEntry
	err := s.entries.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.JournalEntry{}, ErrEntryNotFound
		}
		return model.JournalEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return s.update(ctx, doc, patch)
}

// update merges patch into doc and persists the patchable fields.
// Callers hold the store mutex.
func (s *MongoStore) update(ctx context.Context, doc mongoEntry, patch EntryPatch) (model.JournalEntry, error) {
	entry := doc.JournalEntry
	applyPatch(&entry, patch)

	filter := bson.M{"_id": entry.ID}
	set := bson.M{
		"$set": bson.M{
			"title": entry.Title,
			"time":  entry.Time,
			"text":  entry.Text,
		},
	}
	result, err := s.entries.UpdateOne(ctx, filter, set)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if result.MatchedCount == 0 {
		return model.JournalEntry{}, ErrEntryNotFound
	}
	entry.Normalize()
	return entry, nil
}

func (s *MongoStore) RemoveAt(ctx context.Context, index int) error {
	timer := utils.TrackDBOperation("delete", "mongo")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 {
		return ErrIndexOutOfRange
	}
	doc, err := s.entryAtIndex(ctx, index)
	if err != nil {
		return err
	}
	if _, err := s.entries.DeleteOne(ctx, bson.M{"_id": doc.ID}); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *MongoStore) RemoveByID(ctx context.Context, id string) error {
	timer := utils.TrackDBOperation("delete", "mongo")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.entries.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if result.DeletedCount == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	timer := utils.TrackDBOperation("count", "mongo")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.entries.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return int(count), nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
