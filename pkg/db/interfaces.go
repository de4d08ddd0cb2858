package db

import "context"

// RecordSource defines the interface for loading model input records.
// The CSV, SQLite and Postgres sources all implement this interface.
type RecordSource interface {
	GetUsers(ctx context.Context) ([]UserRecord, error)
	GetContainers(ctx context.Context) ([]ContainerRecord, error)
	Close()
}

// Migrator is implemented by sources that own a schema
type Migrator interface {
	RunMigrations(ctx context.Context) error
}
