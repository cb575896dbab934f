package services

import (
	"context"
	"errors"

	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/utils"
)

// SessionGuard is the check every customer-facing path runs before touching
// session-scoped data.
type SessionGuard struct {
	Store *repository.Store
}

func NewSessionGuard(store *repository.Store) *SessionGuard {
	return &SessionGuard{Store: store}
}

// ValidateOpen returns the session with its table, area and branch loaded,
// or SESSION_NOT_FOUND / SESSION_CLOSED.
func (g *SessionGuard) ValidateOpen(ctx context.Context, sessionID string) (*models.TableSession, error) {
	return requireOpen(g.Store.FindSession(ctx, sessionID))
}

func requireOpen(session *models.TableSession, err error) (*models.TableSession, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindSessionNotFound, "session not found")
	}
	if err != nil {
		return nil, utils.Internal(err, "load session")
	}
	if !session.IsOpen() {
		return nil, utils.NewError(utils.KindSessionClosed, "session is closed")
	}
	return session, nil
}

// sessionBranch returns the branch of a session loaded by FindSession.
func sessionBranch(session *models.TableSession) models.Branch {
	if session.Table == nil || session.Table.Area == nil || session.Table.Area.Branch == nil {
		return models.Branch{}
	}
	return *session.Table.Area.Branch
}
