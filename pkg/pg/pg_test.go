package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	ID   uint `gorm:"primaryKey"`
	Body string
}

func setupDB(t *testing.T) *DB {
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), GormConfig())
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&note{}))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return Wrap(gdb, gdb)
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{User: "site", Host: "db", Port: "5432", Password: "pw", Database: "contacts"}
	assert.Equal(t, "host=db user=site password=pw dbname=contacts port=5432 sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}

func TestDB_WithinTransaction_Rollback(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := db.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, db.Write(ctx).Create(&note{Body: "draft"}).Error)
		return errors.New("abort")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Read(ctx).Model(&note{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDB_WithinTransaction_Commit(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := db.Write(ctx).Create(&note{Body: "kept"}).Error; err != nil {
			return err
		}
		var n note
		return db.Read(ctx).First(&n).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Read(ctx).Model(&note{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDB_Ping(t *testing.T) {
	db := setupDB(t)
	assert.NoError(t, db.Ping(context.Background()))
}
