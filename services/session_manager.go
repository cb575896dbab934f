package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/utils"
)

// startAttempts bounds the insert/re-read loop when a table's session is
// created and closed again between our two statements.
const startAttempts = 3

type SessionManager struct {
	Store *repository.Store
	Now   Clock
}

func NewSessionManager(store *repository.Store) *SessionManager {
	return &SessionManager{Store: store}
}

type StartResult struct {
	SessionID string               `json:"sessionId"`
	IsNew     bool                 `json:"isNew"`
	Session   *models.TableSession `json:"session"`
}

type CloseResult struct {
	SessionID       string    `json:"sessionId"`
	Status          string    `json:"status"`
	Table           string    `json:"table"`
	StartedAt       time.Time `json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
	DurationMinutes int       `json:"durationMinutes"`
}

// StartOrReuse returns the table's ACTIVE session, creating it on the first
// scan. Concurrent first scans converge on a single session: the loser of
// the insert re-reads and joins the winner's.
func (m *SessionManager) StartOrReuse(ctx context.Context, tableID string) (*StartResult, error) {
	for attempt := 0; attempt < startAttempts; attempt++ {
		existing, err := m.Store.FindActiveSessionByTable(ctx, tableID)
		if err == nil {
			return &StartResult{SessionID: existing.ID, Session: existing}, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Internal(err, "find active session")
		}

		table, err := m.Store.FindTable(ctx, tableID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewError(utils.KindTableNotFound, "table not found")
		}
		if err != nil {
			return nil, utils.Internal(err, "load table")
		}
		if !table.IsActive {
			return nil, utils.NewError(utils.KindTableInactive, "table is not active")
		}

		session := &models.TableSession{
			TableID:   tableID,
			StartedAt: m.Now.now(),
		}
		created, err := m.Store.InsertActiveSession(ctx, session)
		if err != nil {
			return nil, utils.Internal(err, "create session")
		}
		if created {
			utils.InfoLogger.WithFields(logrus.Fields{
				"session_id": session.ID,
				"table_id":   tableID,
			}).Info("table session started")
			return &StartResult{SessionID: session.ID, IsNew: true, Session: session}, nil
		}
	}
	return nil, utils.Internal(errors.New("active session changed during start"), "start session")
}

// Close ends an ACTIVE session whose orders are all COMPLETED or CANCELLED.
// Staff from another branch may not close it.
func (m *SessionManager) Close(ctx context.Context, sessionID string, actor *utils.Claims) (*CloseResult, error) {
	if !actor.HasRole(utils.RoleCaptain, utils.RoleStaff, utils.RoleAdmin) {
		return nil, utils.NewError(utils.KindInsufficientRole, "staff access required")
	}

	session, err := m.Store.FindSession(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindSessionNotFound, "session not found")
	}
	if err != nil {
		return nil, utils.Internal(err, "load session")
	}
	if actor.BranchID != "" && session.Table.BranchID() != actor.BranchID {
		return nil, utils.NewError(utils.KindBranchMismatch, "session belongs to another branch")
	}

	// The row lock queues Close behind any PlaceOrder holding the session, so
	// the conditional update below reads that order once it has committed.
	endedAt := m.Now.now()
	var closed bool
	err = m.Store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.LockSession(ctx, sessionID); err != nil {
			return err
		}
		closed, err = tx.CloseSessionIfSettled(ctx, sessionID, endedAt)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindSessionNotFound, "session not found")
	}
	if err != nil {
		return nil, utils.Internal(err, "close session")
	}
	if !closed {
		return nil, m.closeFailure(ctx, sessionID)
	}

	duration := int(endedAt.Sub(session.StartedAt).Minutes())
	if duration < 0 {
		duration = 0
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"table_id":   session.TableID,
		"duration":   duration,
	}).Info("table session closed")

	return &CloseResult{
		SessionID:       sessionID,
		Status:          models.SessionClosed,
		Table:           session.Table.Label(),
		StartedAt:       session.StartedAt,
		EndedAt:         endedAt,
		DurationMinutes: duration,
	}, nil
}

// closeFailure explains why the conditional close wrote nothing.
func (m *SessionManager) closeFailure(ctx context.Context, sessionID string) error {
	session, err := m.Store.FindSession(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewError(utils.KindSessionNotFound, "session not found")
	}
	if err != nil {
		return utils.Internal(err, "load session")
	}
	if !session.IsOpen() {
		return utils.NewError(utils.KindSessionAlreadyClosed, "session already closed")
	}

	pending, err := m.Store.CountPendingOrders(ctx, sessionID)
	if err != nil {
		return utils.Internal(err, "count pending orders")
	}
	return utils.NewError(utils.KindPendingOrdersExist, "%d order(s) still pending", pending)
}

// ActiveSessions lists the open sessions of a branch with their customers.
func (m *SessionManager) ActiveSessions(ctx context.Context, branchID string) ([]models.TableSession, error) {
	sessions, err := m.Store.ListActiveSessions(ctx, branchID)
	if err != nil {
		return nil, utils.Internal(err, "list active sessions")
	}
	return sessions, nil
}
