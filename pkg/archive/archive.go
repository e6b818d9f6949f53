// Package archive persists completed runs to MongoDB so server deployments
// can serve historical results without reprocessing the source data.
package archive

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/pedio"
)

// RunDoc is one archived run.
type RunDoc struct {
	RunID     string         `bson:"run_id"`
	CreatedAt time.Time      `bson:"created_at"`
	Source    string         `bson:"source,omitempty"` // input file name
	ModelHash string         `bson:"model_hash"`
	Summary   *pedio.Summary `bson:"summary"`
	Model     *pedio.Model   `bson:"model,omitempty"`
	Warnings  []string       `bson:"warnings,omitempty"`
}

// Archive is a MongoDB-backed run store.
type Archive struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// Open connects to MongoDB and prepares the run collection with a unique
// index on run id.
func Open(ctx context.Context, uri, database string) (*Archive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	runs := client.Database(database).Collection("runs")
	_, err = runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "run_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Archive{client: client, runs: runs}, nil
}

// SaveRun stores one completed run.
func (a *Archive) SaveRun(ctx context.Context, doc *RunDoc) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := a.runs.InsertOne(ctx, doc)
	return err
}

// GetRun loads an archived run by id.
func (a *Archive) GetRun(ctx context.Context, runID string) (*RunDoc, error) {
	var doc RunDoc
	err := a.runs.FindOne(ctx, bson.M{"run_id": runID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pederrors.New(pederrors.ErrCodeNotFound, "run %s not found", runID)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListRuns returns the most recent runs, newest first, without their models.
func (a *Archive) ListRuns(ctx context.Context, limit int64) ([]RunDoc, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"model": 0})
	cur, err := a.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []RunDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Close disconnects from MongoDB.
func (a *Archive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}
