package postgres

import (
	"context"
	"crypto/rand"
	"log"
	"os"
	"testing"

	"github.com/rs/zerolog"

	"tawssil-directory/internal/adapters/security"
	"tawssil-directory/internal/core/ports"
)

var (
	testDB     *DB
	testSecSvc ports.SecurityPort
)

// TestMain connects to the test database named by TEST_DATABASE_URL (falling
// back to DATABASE_URL). Without one, the integration tests are skipped.
func TestMain(m *testing.M) {
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		connString = os.Getenv("DATABASE_URL")
	}

	if connString != "" {
		nopLogger := zerolog.Nop()

		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			log.Fatalf("TestMain: failed to generate key: %v", err)
		}
		var err error
		testSecSvc, err = security.NewAESService(key, &nopLogger)
		if err != nil {
			log.Fatalf("TestMain: failed to create security service: %v", err)
		}

		testDB, err = NewDB(context.Background(), connString, &nopLogger)
		if err != nil {
			log.Fatalf("TestMain: failed to connect to test database: %v", err)
		}
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

// requireDB skips tests that need a live database.
func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("no TEST_DATABASE_URL configured; skipping database integration test")
	}
}

func cleanupTestDriver(t *testing.T, id string) {
	t.Helper()
	if _, err := testDB.pool.Exec(context.Background(), "DELETE FROM drivers WHERE id = $1", id); err != nil {
		t.Logf("Warning: failed to cleanup driver %s: %v", id, err)
	}
}
