package repository

import (
	"context"
	"time"

	"github.com/yeremiapane/dinein/models"
	"gorm.io/gorm"
)

// LatestLiveChallenge returns the newest unexpired challenge of the session,
// whatever phone it was issued for.
func (s *Store) LatestLiveChallenge(ctx context.Context, sessionID string, now time.Time) (*models.OtpRequest, error) {
	var otp models.OtpRequest
	err := s.conn(ctx).
		Where("session_id = ? AND expires_at > ?", sessionID, now).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &otp, nil
}

func (s *Store) InsertChallenge(ctx context.Context, otp *models.OtpRequest) error {
	return s.conn(ctx).Create(otp).Error
}

// LatestChallenge returns the newest challenge for (session, phone). A newer
// challenge supersedes every older one for the same phone.
func (s *Store) LatestChallenge(ctx context.Context, sessionID, phone string) (*models.OtpRequest, error) {
	var otp models.OtpRequest
	err := s.conn(ctx).
		Where("session_id = ? AND customer_phone = ?", sessionID, phone).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &otp, nil
}

// ClaimAttempt counts one verification attempt against the challenge, unless
// it is already verified or has used maxAttempts. It reports false, writing
// nothing, in that case. maxAttempts <= 0 means unlimited.
func (s *Store) ClaimAttempt(ctx context.Context, id string, maxAttempts int) (bool, error) {
	q := s.conn(ctx).Model(&models.OtpRequest{}).
		Where("id = ? AND verified_at IS NULL", id)
	if maxAttempts > 0 {
		q = q.Where("attempts < ?", maxAttempts)
	}
	res := q.UpdateColumn("attempts", gorm.Expr("attempts + 1"))
	return res.RowsAffected == 1, res.Error
}

// ConsumeChallenge marks the challenge verified if nobody did so first.
func (s *Store) ConsumeChallenge(ctx context.Context, id string, now time.Time) (bool, error) {
	res := s.conn(ctx).Model(&models.OtpRequest{}).
		Where("id = ? AND verified_at IS NULL", id).
		Update("verified_at", now)
	return res.RowsAffected == 1, res.Error
}
