package database_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"webgen-backend/internal/database"
)

func createDB(t *testing.T, create ...any) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	for _, c := range create {
		require.NoError(t, db.Create(c).Error)
	}

	return db
}

func TestCreateAndListHistories(t *testing.T) {
	db := createDB(t,
		&database.User{Id: 1, Username: "alice", Hash: "x"},
		&database.User{Id: 2, Username: "bob", Hash: "x"},
	)
	ctx := context.Background()

	require.NoError(t, database.CreateHistory(ctx, db, 1, "summary", "Q3 update", "a summary"))
	require.NoError(t, database.CreateHistory(ctx, db, 1, "", "raw text", "raw reply"))
	require.NoError(t, database.CreateHistory(ctx, db, 2, "summary", "bob's text", "bob's reply"))

	histories, err := database.ListHistories(ctx, db, 1)
	require.NoError(t, err)
	require.Len(t, histories, 2)
	for _, h := range histories {
		assert.Equal(t, int64(1), h.UserId)
		assert.False(t, h.Time.IsZero())
	}
}

func TestDuplicateHistoriesPermitted(t *testing.T) {
	db := createDB(t, &database.User{Id: 1, Username: "alice", Hash: "x"})
	ctx := context.Background()

	require.NoError(t, database.CreateHistory(ctx, db, 1, "summary", "same", "same"))
	require.NoError(t, database.CreateHistory(ctx, db, 1, "summary", "same", "same"))

	histories, err := database.ListHistories(ctx, db, 1)
	require.NoError(t, err)
	assert.Len(t, histories, 2)
}

func TestSearchHistoriesIsStrictFilter(t *testing.T) {
	db := createDB(t,
		&database.User{Id: 1, Username: "alice", Hash: "x"},
		&database.User{Id: 2, Username: "bob", Hash: "x"},
	)
	ctx := context.Background()

	inputs := []string{"quarterly report", "weekly report", "shopping list", "report card"}
	for _, input := range inputs {
		require.NoError(t, database.CreateHistory(ctx, db, 1, "", input, "r"))
	}
	require.NoError(t, database.CreateHistory(ctx, db, 2, "", "bob's report", "r"))

	all, err := database.ListHistories(ctx, db, 1)
	require.NoError(t, err)

	results, err := database.SearchHistories(ctx, db, 1, "report")
	require.NoError(t, err)

	// Every returned record matches and belongs to the user.
	for _, h := range results {
		assert.Equal(t, int64(1), h.UserId)
		assert.True(t, strings.Contains(h.Input, "report"))
	}

	// No omitted record matches.
	returned := make(map[int64]bool)
	for _, h := range results {
		returned[h.Id] = true
	}
	for _, h := range all {
		if strings.Contains(h.Input, "report") {
			assert.True(t, returned[h.Id], "record %q should have been returned", h.Input)
		} else {
			assert.False(t, returned[h.Id], "record %q should have been omitted", h.Input)
		}
	}

	assert.Len(t, results, 3)
}
