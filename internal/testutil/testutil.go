package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository/sqlstore"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewSQLiteDB opens a migrated in-memory database private to the test
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlstore.Migrate(db, sqlstore.DialectSQLite))
	return db
}

// NewSQLiteStore returns a word store backed by NewSQLiteDB
func NewSQLiteStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	return sqlstore.New(NewSQLiteDB(t))
}

// AddWord inserts a source word with the given translations
func AddWord(t *testing.T, store *sqlstore.Store, text string, translations ...string) domain.SourceWord {
	t.Helper()

	ctx := context.Background()
	w, err := store.InsertSourceWord(ctx, text)
	require.NoError(t, err)
	for _, tr := range translations {
		_, err := store.InsertTranslation(ctx, w.ID, tr)
		require.NoError(t, err)
	}
	return w
}

// AddSeedWord inserts a source word with translations and marks it as seed vocabulary
func AddSeedWord(t *testing.T, store *sqlstore.Store, text string, translations ...string) domain.SourceWord {
	t.Helper()

	w := AddWord(t, store, text, translations...)
	require.NoError(t, store.MarkSeeded(context.Background(), w.ID))
	return w
}

// NewTestWord creates a test source word
func NewTestWord(id int64, text string) domain.SourceWord {
	return domain.SourceWord{ID: id, Text: text}
}

// NewTestTranslation creates a test translation
func NewTestTranslation(id, sourceWordID int64, text string) domain.Translation {
	return domain.Translation{ID: id, SourceWordID: sourceWordID, Text: text}
}
