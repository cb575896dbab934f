package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/dinein/models"
	"gorm.io/gorm/clause"
)

func (s *Store) FindStaff(ctx context.Context, id string) (*models.Staff, error) {
	var staff models.Staff
	if err := s.conn(ctx).First(&staff, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &staff, nil
}

// ResolveProfile returns the profile for phone, creating it on first sight.
// Concurrent callers with the same phone converge on one row.
func (s *Store) ResolveProfile(ctx context.Context, phone string, name *string, now time.Time) (*models.CustomerProfile, error) {
	profile := models.CustomerProfile{Phone: phone, Name: name, LastActiveAt: &now}
	err := s.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_active_at"}),
		}).
		Create(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	var stored models.CustomerProfile
	if err := s.conn(ctx).First(&stored, "phone = ?", phone).Error; err != nil {
		return nil, notFound(err)
	}
	return &stored, nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return s.conn(ctx).Create(customer).Error
}

// MarkCustomerVerified flags every customer row for phone in the session as
// verified and returns the most recent one.
func (s *Store) MarkCustomerVerified(ctx context.Context, sessionID, phone string) (*models.Customer, error) {
	err := s.conn(ctx).Model(&models.Customer{}).
		Where("session_id = ? AND phone = ?", sessionID, phone).
		Update("verified", true).Error
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	err = s.conn(ctx).
		Where("session_id = ? AND phone = ?", sessionID, phone).
		Order("created_at DESC").
		First(&customer).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &customer, nil
}
