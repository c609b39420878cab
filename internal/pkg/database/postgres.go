package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type Database struct {
	conn *pgx.Conn
}

func NewDatabase(conn *pgx.Conn) *Database {
	return &Database{
		conn: conn,
	}
}

func (db *Database) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close(context.Background())
}
