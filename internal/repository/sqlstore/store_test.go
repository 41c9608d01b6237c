package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository"
)

// newSQLiteDB opens a private in-memory database with the schema applied
func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db, DialectSQLite))
	return db
}

func TestStore_SourceWordUniqueness(t *testing.T) {
	ctx := context.Background()
	store := New(newSQLiteDB(t))

	w, err := store.InsertSourceWord(ctx, "кот")
	require.NoError(t, err)
	assert.NotZero(t, w.ID)
	assert.Equal(t, "кот", w.Text)

	_, err = store.InsertSourceWord(ctx, "кот")
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	found, err := store.FindSourceWordByText(ctx, "кот")
	require.NoError(t, err)
	assert.Equal(t, w, found)

	_, err = store.FindSourceWordByText(ctx, "пёс")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Translations(t *testing.T) {
	ctx := context.Background()
	store := New(newSQLiteDB(t))

	cat, err := store.InsertSourceWord(ctx, "кот")
	require.NoError(t, err)
	dog, err := store.InsertSourceWord(ctx, "пёс")
	require.NoError(t, err)

	first, err := store.InsertTranslation(ctx, cat.ID, "cat")
	require.NoError(t, err)
	_, err = store.InsertTranslation(ctx, cat.ID, "tomcat")
	require.NoError(t, err)
	// Duplicates are allowed
	_, err = store.InsertTranslation(ctx, cat.ID, "cat")
	require.NoError(t, err)

	got, err := store.FirstTranslation(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	_, err = store.FirstTranslation(ctx, dog.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := store.TranslationExists(ctx, cat.ID, "tomcat")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.TranslationExists(ctx, dog.ID, "tomcat")
	require.NoError(t, err)
	assert.False(t, exists)

	all, err := store.ListTranslations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	words, err := store.ListSourceWords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.SourceWord{cat, dog}, words)
}

func TestStore_GrantAllUnseen(t *testing.T) {
	ctx := context.Background()
	store := New(newSQLiteDB(t))

	var seeded []domain.SourceWord
	for _, text := range []string{"кот", "пёс", "дом"} {
		w, err := store.InsertSourceWord(ctx, text)
		require.NoError(t, err)
		require.NoError(t, store.MarkSeeded(ctx, w.ID))
		seeded = append(seeded, w)
	}

	// Words added by users are not handed out in bulk
	_, err := store.InsertSourceWord(ctx, "мусор")
	require.NoError(t, err)

	n, err := store.GrantAllUnseen(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = store.GrantAllUnseen(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	visible, err := store.ListVisibleWords(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, seeded, visible)

	// Other users are unaffected
	visible, err = store.ListVisibleWords(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestStore_GrantAndRevoke(t *testing.T) {
	ctx := context.Background()
	store := New(newSQLiteDB(t))

	w, err := store.InsertSourceWord(ctx, "кот")
	require.NoError(t, err)

	removed, err := store.RevokeVisibility(ctx, 42, w.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, store.GrantVisibility(ctx, domain.VisibilityEntry{UserID: 42, SourceWordID: w.ID}))
	require.NoError(t, store.GrantVisibility(ctx, domain.VisibilityEntry{UserID: 42, SourceWordID: w.ID}))

	visible, err := store.ListVisibleWords(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	removed, err = store.RevokeVisibility(ctx, 42, w.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	visible, err = store.ListVisibleWords(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestStore_MarkSeeded_UnknownWord(t *testing.T) {
	store := New(newSQLiteDB(t))

	err := store.MarkSeeded(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_GrantVisibility_UnknownWord(t *testing.T) {
	store := New(newSQLiteDB(t))

	err := store.GrantVisibility(context.Background(), domain.VisibilityEntry{UserID: 42, SourceWordID: 999})
	assert.Error(t, err)
}

func TestStore_WithTx(t *testing.T) {
	ctx := context.Background()
	store := New(newSQLiteDB(t))

	t.Run("commit", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx repository.Store) error {
			w, err := tx.InsertSourceWord(ctx, "дом")
			if err != nil {
				return err
			}
			return tx.GrantVisibility(ctx, domain.VisibilityEntry{UserID: 1, SourceWordID: w.ID})
		})
		require.NoError(t, err)

		visible, err := store.ListVisibleWords(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, visible, 1)
	})

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.WithTx(ctx, func(tx repository.Store) error {
			if _, err := tx.InsertSourceWord(ctx, "окно"); err != nil {
				return err
			}
			return boom
		})

		var txErr *domain.TxError
		require.ErrorAs(t, err, &txErr)
		assert.ErrorIs(t, err, boom)

		_, err = store.FindSourceWordByText(ctx, "окно")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("nested", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx repository.Store) error {
			return tx.WithTx(ctx, func(repository.Store) error { return nil })
		})
		assert.Error(t, err)
	})
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver   string
		expected Dialect
		wantErr  bool
	}{
		{driver: "postgres", expected: DialectPostgres},
		{driver: "pgx", expected: DialectPostgres},
		{driver: "sqlite3", expected: DialectSQLite},
		{driver: "mysql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := DialectFor(tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}
