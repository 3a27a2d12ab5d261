// Package store loads snapshot data into MongoDB.
package store

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

var (
	// ErrConnect is returned when the document store cannot be reached.
	ErrConnect = eris.New("store: connect")
	// ErrConfig is returned when the client options or URI are invalid.
	ErrConfig = eris.New("store: invalid configuration")
	// ErrPermission is returned when the server rejects an operation as
	// unauthorized.
	ErrPermission = eris.New("store: permission denied")
)

// unauthorizedCode is MongoDB's "Unauthorized" server error code.
const unauthorizedCode = 13

// Collections is the subset of document-store operations the Loader needs.
type Collections interface {
	// Drop removes a collection. Dropping a missing collection is not an error.
	Drop(ctx context.Context, name string) error
	// InsertMany inserts docs in a single bulk call and returns the count.
	InsertMany(ctx context.Context, name string, docs []any) (int, error)
	// Rename replaces target with source, dropping target if it exists.
	Rename(ctx context.Context, source, target string) error
}

// IsPermission reports whether err is an authorization failure.
func IsPermission(err error) bool {
	if err == nil {
		return false
	}
	if eris.Is(err, ErrPermission) {
		return true
	}
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(unauthorizedCode)
}

// IsUnavailable reports whether err means the server could not be reached.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if eris.Is(err, ErrConnect) {
		return true
	}
	var sse topology.ServerSelectionError
	return errors.As(err, &sse) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err)
}

// IsConfig reports whether err is a client configuration failure.
func IsConfig(err error) bool {
	return err != nil && eris.Is(err, ErrConfig)
}

// classify wraps a driver error, promoting authorization failures to
// ErrPermission.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if IsPermission(err) {
		return eris.Wrapf(ErrPermission, "%s: %v", op, err)
	}
	return eris.Wrap(err, op)
}
