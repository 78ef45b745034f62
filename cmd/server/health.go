package main

import (
	"context"
	"database/sql"
)

// dbHealth adapts *sql.DB to the transport's health checker.
type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
