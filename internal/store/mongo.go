package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoOptions configures a MongoDB connection.
type MongoOptions struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// MongoStore implements Collections on a single MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client with the stable server API and pings the primary so
// that configuration and server-selection failures surface immediately.
func Connect(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetServerSelectionTimeout(opts.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, eris.Wrapf(ErrConfig, "configure client: %v", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, eris.Wrapf(ErrConnect, "ping: %v", err)
	}

	zap.L().Debug("connected to mongodb", zap.String("database", opts.Database))
	return &MongoStore{client: client, db: client.Database(opts.Database)}, nil
}

// Database returns the selected database handle.
func (s *MongoStore) Database() *mongo.Database {
	return s.db
}

// Client returns the underlying client.
func (s *MongoStore) Client() *mongo.Client {
	return s.client
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return eris.Wrap(s.client.Disconnect(ctx), "store: disconnect")
}

// Drop implements Collections.
func (s *MongoStore) Drop(ctx context.Context, name string) error {
	return classify(s.db.Collection(name).Drop(ctx), "drop "+name)
}

// InsertMany implements Collections.
func (s *MongoStore) InsertMany(ctx context.Context, name string, docs []any) (int, error) {
	res, err := s.db.Collection(name).InsertMany(ctx, docs)
	if err != nil {
		return 0, classify(err, "insert into "+name)
	}
	return len(res.InsertedIDs), nil
}

// Rename implements Collections using the admin renameCollection command.
func (s *MongoStore) Rename(ctx context.Context, source, target string) error {
	cmd := bson.D{
		{Key: "renameCollection", Value: s.db.Name() + "." + source},
		{Key: "to", Value: s.db.Name() + "." + target},
		{Key: "dropTarget", Value: true},
	}
	err := s.client.Database("admin").RunCommand(ctx, cmd).Err()
	return classify(err, "rename "+source+" to "+target)
}
