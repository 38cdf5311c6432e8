// Package sqlite はブラウザのローカルストレージに相当するキー/バリューストアを
// 組み込み sqlite 上に提供する。
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/sngm3741/review-wall/api/internal/infrastructure/sqlite/migrations"
)

// DBTX は *sql.DB と *sql.Tx の双方が満たすリポジトリ用の最小インターフェース。
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open は DSN の sqlite を開き、マイグレーションを適用した *sql.DB を返す。
// 書き込みを直列化するため接続は 1 本に制限する（":memory:" でも同一 DB を共有できる）。
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations は埋め込み済みの goose マイグレーションを最新まで適用する。
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
