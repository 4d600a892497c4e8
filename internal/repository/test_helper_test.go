package repository

import (
	"testing"

	"github.com/allinone-seolbi/site/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testDB struct {
	*pg.DB
}

func setupTestDB(t *testing.T) *testDB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), pg.GormConfig())
	require.NoError(t, err)

	// one connection so every query sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&ContactEntity{}))

	return &testDB{
		DB: pg.Wrap(db, db),
	}
}
