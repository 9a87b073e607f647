package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/bagstock/internal/domain/models"
)

const (
	salesCollection     = "sales_lines"
	snapshotsCollection = "consumption_snapshots"
)

// ErrNoSnapshot is returned when no snapshot has been stored yet.
var ErrNoSnapshot = errors.New("no consumption snapshot stored")

// Repository defines the sales and snapshot storage operations.
type Repository interface {
	AggregateSales(ctx context.Context, start, end time.Time) ([]models.SalesAggregateRow, error)
	InsertSaleLines(ctx context.Context, lines []models.SaleLine) error
	SaveSnapshot(ctx context.Context, snapshot models.ConsumptionSnapshot) error
	LatestSnapshot(ctx context.Context) (models.ConsumptionSnapshot, error)
}

var _ Repository = (*MongoDBRepository)(nil)

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// AggregateSales sums sold quantities per (sku, nombre, tipo_documento) for
// sale lines dated within [start, end).
func (r *MongoDBRepository) AggregateSales(ctx context.Context, start, end time.Time) ([]models.SalesAggregateRow, error) {
	cursor, err := r.collection(salesCollection).Aggregate(ctx, salesPipeline(start, end))
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}
	defer cursor.Close(ctx)

	rows := make([]models.SalesAggregateRow, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode sales aggregate: %w", err)
	}
	return rows, nil
}

func salesPipeline(start, end time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"fecha": bson.M{"$gte": start, "$lt": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"sku":            "$sku",
				"nombre":         "$nombre",
				"tipo_documento": "$tipo_documento",
			},
			"unidades": bson.M{"$sum": "$cantidad"},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.sku", Value: 1},
			{Key: "_id.nombre", Value: 1},
			{Key: "_id.tipo_documento", Value: 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":            0,
			"sku":            "$_id.sku",
			"nombre":         "$_id.nombre",
			"tipo_documento": "$_id.tipo_documento",
			"unidades":       1,
		}}},
	}
}

// InsertSaleLines stores raw sale lines, e.g. when backfilling from an export.
func (r *MongoDBRepository) InsertSaleLines(ctx context.Context, lines []models.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}

	docs := make([]interface{}, len(lines))
	for i, line := range lines {
		docs[i] = line
	}

	if _, err := r.collection(salesCollection).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert sale lines: %w", err)
	}
	return nil
}

// SaveSnapshot saves a consumption snapshot to the database.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot models.ConsumptionSnapshot) error {
	if _, err := r.collection(snapshotsCollection).InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert consumption snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently created snapshot.
func (r *MongoDBRepository) LatestSnapshot(ctx context.Context) (models.ConsumptionSnapshot, error) {
	var snapshot models.ConsumptionSnapshot

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := r.collection(snapshotsCollection).FindOne(ctx, bson.M{}, opts).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ConsumptionSnapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return models.ConsumptionSnapshot{}, fmt.Errorf("find latest snapshot: %w", err)
	}
	return snapshot, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
