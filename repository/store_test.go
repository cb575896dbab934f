package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return NewStore(db)
}

func seedTable(t *testing.T, s *Store) models.Table {
	t.Helper()
	branch := models.Branch{Name: "Main", CurrencyCode: "INR", CurrencySymbol: "₹"}
	require.NoError(t, s.DB().Create(&branch).Error)
	area := models.Area{BranchID: branch.ID, Name: "Hall"}
	require.NoError(t, s.DB().Create(&area).Error)
	table := models.Table{AreaID: area.ID, TableNumber: "3", IsActive: true}
	require.NoError(t, s.DB().Create(&table).Error)
	return table
}

func TestInsertActiveSessionAllowsOnePerTable(t *testing.T) {
	s := newTestStore(t)
	table := seedTable(t, s)
	ctx := context.Background()
	now := time.Now().UTC()

	first := &models.TableSession{TableID: table.ID, StartedAt: now}
	won, err := s.InsertActiveSession(ctx, first)
	require.NoError(t, err)
	assert.True(t, won)

	second := &models.TableSession{TableID: table.ID, StartedAt: now}
	won, err = s.InsertActiveSession(ctx, second)
	require.NoError(t, err)
	assert.False(t, won)

	active, err := s.FindActiveSessionByTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	closed, err := s.CloseSessionIfSettled(ctx, first.ID, now)
	require.NoError(t, err)
	require.True(t, closed)

	third := &models.TableSession{TableID: table.ID, StartedAt: now}
	won, err = s.InsertActiveSession(ctx, third)
	require.NoError(t, err)
	assert.True(t, won)
}

func TestCloseSessionIfSettledChecksOrders(t *testing.T) {
	s := newTestStore(t)
	table := seedTable(t, s)
	ctx := context.Background()

	session := &models.TableSession{TableID: table.ID, StartedAt: time.Now().UTC()}
	_, err := s.InsertActiveSession(ctx, session)
	require.NoError(t, err)

	order := &models.Order{
		SessionID:   session.ID,
		Status:      models.OrderPlaced,
		TotalAmount: decimal.Zero,
		Kot:         &models.Kot{},
	}
	require.NoError(t, s.InsertOrder(ctx, order))

	closed, err := s.CloseSessionIfSettled(ctx, session.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, closed)

	pending, err := s.CountPendingOrders(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	moved, err := s.TransitionOrder(ctx, order.ID, models.OrderPlaced, models.OrderCancelled)
	require.NoError(t, err)
	require.True(t, moved)

	moved, err = s.TransitionOrder(ctx, order.ID, models.OrderPlaced, models.OrderPreparing)
	require.NoError(t, err)
	assert.False(t, moved)

	stored, err := s.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, stored.Kot.Status)

	closed, err = s.CloseSessionIfSettled(ctx, session.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = s.CloseSessionIfSettled(ctx, session.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestFindMissingRowsReturnNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.FindSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindTable(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindOrder(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
