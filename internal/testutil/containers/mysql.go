//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/vibe-gaming/enrollment/internal/db"
)

type MySQLContainer struct {
	Container testcontainers.Container
	DB        *sqlx.DB
}

// NewMySQLContainer starts MySQL and applies the embedded migrations.
func NewMySQLContainer(t *testing.T) *MySQLContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcmysql.Run(ctx, "mysql:8.4",
		tcmysql.WithDatabase("enrollment"),
		tcmysql.WithUsername("enrollment"),
		tcmysql.WithPassword("enrollment"),
	)
	if err != nil {
		t.Fatalf("failed to start mysql container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "parseTime=true", "loc=UTC", "multiStatements=true")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get mysql connection string: %v", err)
	}

	conn, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to mysql: %v", err)
	}

	if err := db.Migrate(ctx, conn); err != nil {
		_ = conn.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		_ = container.Terminate(context.Background())
	})

	return &MySQLContainer{Container: container, DB: conn}
}

// Truncate empties the given tables.
func (m *MySQLContainer) Truncate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := m.DB.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			return err
		}
	}
	return nil
}
