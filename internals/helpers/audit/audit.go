package audit

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "audit_logs"

type Entry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	Entity      string             `bson:"entity" json:"entity"`
	Action      string             `bson:"action" json:"action"`
	PerformedBy string             `bson:"performed_by" json:"performed_by"` // clerk user id or "system"
	Data        any                `bson:"data" json:"data"`
}

type Logger interface {
	Log(ctx context.Context, entity, action, actorID string, data any) error
}

// MongoLogger writes one document per admin mutation.
type MongoLogger struct {
	Collection *mongo.Collection
}

func (l *MongoLogger) Log(ctx context.Context, entity, action, actorID string, data any) error {
	if actorID == "" {
		actorID = "system"
	}
	_, err := l.Collection.InsertOne(ctx, Entry{
		Timestamp:   time.Now().UTC(),
		Entity:      entity,
		Action:      action,
		PerformedBy: actorID,
		Data:        data,
	})
	return err
}

type NopLogger struct{}

func (NopLogger) Log(context.Context, string, string, string, any) error { return nil }

// Connect returns a MongoLogger when uri is set, NopLogger otherwise.
// The returned closer disconnects the client.
func Connect(ctx context.Context, uri, dbName string) (Logger, func(context.Context) error) {
	if uri == "" {
		log.Println("[INFO] audit: MONGO_URI not set, audit log disabled")
		return NopLogger{}, func(context.Context) error { return nil }
	}
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err == nil {
		err = client.Ping(cctx, nil)
	}
	if err != nil {
		log.Printf("[ERROR] audit: mongo connect failed, audit log disabled: %v", err)
		return NopLogger{}, func(context.Context) error { return nil }
	}
	log.Println("✅ audit: mongo connected")
	return &MongoLogger{Collection: client.Database(dbName).Collection(CollectionName)}, client.Disconnect
}

// Record logs and swallows errors; audit never fails the request.
func Record(ctx context.Context, l Logger, entity, action, actorID string, data any) {
	if l == nil {
		return
	}
	if err := l.Log(ctx, entity, action, actorID, data); err != nil {
		log.Printf("[ERROR] audit %s.%s: %v", entity, action, err)
	}
}
