package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDatabase connects to TEST_DATABASE_URL, applies the schema and empties the tables.
// The test is skipped when the variable is not set.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, postgresql.Migrate(ctx, db))

	_, err = db.Exec(ctx, "TRUNCATE TABLE attendances, employees, shifts RESTART IDENTITY CASCADE")
	require.NoError(t, err, "failed to truncate tables")

	return db
}

func seedShift(t *testing.T, db *database.DB, start string, tolerance int) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(),
		`INSERT INTO shifts (name, start_time, end_time, tolerance_minutes) VALUES ($1, $2::time, $3::time, $4) RETURNING id`,
		"Morning", start, "17:00", tolerance,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedEmployee(t *testing.T, db *database.DB, document string, shiftID *int64) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(),
		`INSERT INTO employees (first_name, last_name, document_number, email, shift_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		"Ana", "Torres", document, document+"@example.com", shiftID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
