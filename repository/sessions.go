package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/dinein/models"
	"gorm.io/gorm/clause"
)

func (s *Store) FindSession(ctx context.Context, id string) (*models.TableSession, error) {
	var session models.TableSession
	if err := s.conn(ctx).Preload("Table.Area.Branch").First(&session, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

// LockSession reads the session row with a write lock held until the
// enclosing transaction ends. SQLite ignores the lock clause and serializes
// writers instead.
func (s *Store) LockSession(ctx context.Context, id string) (*models.TableSession, error) {
	var session models.TableSession
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (s *Store) FindActiveSessionByTable(ctx context.Context, tableID string) (*models.TableSession, error) {
	var session models.TableSession
	err := s.conn(ctx).
		Where("table_id = ? AND status = ?", tableID, models.SessionActive).
		First(&session).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

// InsertActiveSession inserts session as the ACTIVE session of its table
// unless one already exists. It reports false when another session won.
func (s *Store) InsertActiveSession(ctx context.Context, session *models.TableSession) (bool, error) {
	activeKey := session.TableID
	session.ActiveTableID = &activeKey
	session.Status = models.SessionActive

	res := s.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(session)
	if res.Error != nil {
		return false, fmt.Errorf("insert session: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// CloseSessionIfSettled flips an ACTIVE session to CLOSED only when none of
// its orders is outside COMPLETED/CANCELLED. Check and write are one
// statement. It reports false when the condition did not hold.
//
// Call it inside Transaction after LockSession. Under READ COMMITTED a
// blocked UPDATE keeps the snapshot it took before waiting, and PlaceOrder
// never writes the session row, so without the lock an order committed
// while we waited would be missed.
func (s *Store) CloseSessionIfSettled(ctx context.Context, id string, endedAt time.Time) (bool, error) {
	pending := s.db.Model(&models.Order{}).
		Select("1").
		Where("session_id = ? AND status NOT IN ?", id, models.TerminalOrderStatuses)

	res := s.conn(ctx).Model(&models.TableSession{}).
		Where("id = ? AND status = ?", id, models.SessionActive).
		Where("NOT EXISTS (?)", pending).
		Updates(map[string]interface{}{
			"status":          models.SessionClosed,
			"ended_at":        endedAt,
			"active_table_id": nil,
		})
	if res.Error != nil {
		return false, fmt.Errorf("close session: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) CountPendingOrders(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Order{}).
		Where("session_id = ? AND status NOT IN ?", sessionID, models.TerminalOrderStatuses).
		Count(&count).Error
	return count, err
}

// ListActiveSessions returns the open sessions of a branch, newest first,
// with their customers.
func (s *Store) ListActiveSessions(ctx context.Context, branchID string) ([]models.TableSession, error) {
	var sessions []models.TableSession
	err := s.conn(ctx).
		Joins("JOIN tables ON tables.id = table_sessions.table_id").
		Joins("JOIN areas ON areas.id = tables.area_id").
		Where("areas.branch_id = ? AND table_sessions.status = ?", branchID, models.SessionActive).
		Preload("Table.Area").
		Preload("Customers").
		Order("table_sessions.started_at DESC").
		Find(&sessions).Error
	return sessions, err
}
