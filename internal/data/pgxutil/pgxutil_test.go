package pgxutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func openUnreachableDB(t *testing.T) *sql.DB {
	t.Helper()
	// Port 1 is never listening; the pool checkout fails fast.
	db, err := sql.Open("pgx", "host=127.0.0.1 port=1 user=nobody dbname=none connect_timeout=1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestWithPgxConnPoolFailure(t *testing.T) {
	db := openUnreachableDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := WithPgxConn(ctx, db, func(*pgx.Conn) error {
		t.Fatal("callback must not run without a connection")
		return nil
	})
	require.ErrorContains(t, err, "get conn from pool")
}

func TestWithPgxTxPoolFailure(t *testing.T) {
	db := openUnreachableDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := WithPgxTx(ctx, db, func(pgx.Tx) error {
		t.Fatal("callback must not run without a connection")
		return nil
	})
	require.Error(t, err)
}
