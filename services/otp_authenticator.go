package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/utils"
)

const (
	DefaultOtpTTL         = 5 * time.Minute
	DefaultOtpMaxAttempts = 5
)

var otpSpace = big.NewInt(1000000)

// TokenSigner issues bearer tokens for verified customers.
type TokenSigner interface {
	Sign(claims utils.Claims) (string, error)
}

// OtpAuthenticator issues session-scoped one-time codes and exchanges a
// correct code for a customer token.
type OtpAuthenticator struct {
	Store       *repository.Store
	Guard       *SessionGuard
	Tokens      TokenSigner
	TTL         time.Duration
	MaxAttempts int
	Now         Clock
}

func NewOtpAuthenticator(store *repository.Store, guard *SessionGuard, tokens TokenSigner) *OtpAuthenticator {
	return &OtpAuthenticator{
		Store:       store,
		Guard:       guard,
		Tokens:      tokens,
		TTL:         DefaultOtpTTL,
		MaxAttempts: DefaultOtpMaxAttempts,
	}
}

type GenerateResult struct {
	Code      string    `json:"code"`
	Reused    bool      `json:"reused"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type VerifyResult struct {
	Token      string `json:"token"`
	SessionID  string `json:"sessionId"`
	CustomerID string `json:"customerId"`
	ProfileID  string `json:"profileId"`
}

// Generate issues a code for phone. While any challenge of the session is
// still live its code is handed out again with the same expiry, so one
// spoken code serves the whole table.
func (a *OtpAuthenticator) Generate(ctx context.Context, sessionID, phone string, issuer *utils.Claims) (*GenerateResult, error) {
	if !issuer.HasRole(utils.RoleCaptain, utils.RoleStaff, utils.RoleAdmin) || issuer.StaffID == "" {
		return nil, utils.NewError(utils.KindInsufficientRole, "staff access required")
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, utils.NewError(utils.KindInvalidInput, "phone is required")
	}

	staff, err := a.Store.FindStaff(ctx, issuer.StaffID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindUnauthorized, "unknown staff member")
	}
	if err != nil {
		return nil, utils.Internal(err, "load staff")
	}

	session, err := a.Guard.ValidateOpen(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if staff.BranchID != session.Table.BranchID() {
		return nil, utils.NewError(utils.KindBranchMismatch, "session belongs to another branch")
	}

	now := a.Now.now()
	result := &GenerateResult{}
	// the session lock makes concurrent first Generates share one code
	err = a.Store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.LockSession(ctx, sessionID); err != nil {
			return err
		}

		live, err := tx.LatestLiveChallenge(ctx, sessionID, now)
		switch {
		case err == nil:
			result.Code = live.OtpCode
			result.ExpiresAt = live.ExpiresAt
			result.Reused = true
		case errors.Is(err, repository.ErrNotFound):
			code, err := newOtpCode()
			if err != nil {
				return err
			}
			result.Code = code
			result.ExpiresAt = now.Add(a.TTL)
		default:
			return err
		}

		return tx.InsertChallenge(ctx, &models.OtpRequest{
			SessionID:     sessionID,
			CustomerPhone: phone,
			OtpCode:       result.Code,
			GeneratedBy:   staff.ID,
			ExpiresAt:     result.ExpiresAt,
		})
	})
	if err != nil {
		return nil, utils.Internal(err, "issue otp")
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"staff_id":   staff.ID,
		"reused":     result.Reused,
	}).Info("otp issued")
	return result, nil
}

// InitiateCustomer registers an unverified diner for the session.
func (a *OtpAuthenticator) InitiateCustomer(ctx context.Context, sessionID, phone string, name *string) (*models.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, utils.NewError(utils.KindInvalidInput, "phone is required")
	}
	if _, err := a.Guard.ValidateOpen(ctx, sessionID); err != nil {
		return nil, err
	}

	profile, err := a.Store.ResolveProfile(ctx, phone, name, a.Now.now())
	if err != nil {
		return nil, utils.Internal(err, "resolve customer profile")
	}

	customer := &models.Customer{
		SessionID:         sessionID,
		CustomerProfileID: profile.ID,
		Phone:             phone,
		Name:              name,
	}
	if err := a.Store.CreateCustomer(ctx, customer); err != nil {
		return nil, utils.Internal(err, "create customer")
	}
	return customer, nil
}

// Verify checks code against the newest challenge for (session, phone).
// A challenge is consumed at most once and locks after MaxAttempts misses.
func (a *OtpAuthenticator) Verify(ctx context.Context, sessionID, phone, code string) (*VerifyResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || code == "" {
		return nil, utils.NewError(utils.KindInvalidInput, "phone and code are required")
	}
	if _, err := a.Guard.ValidateOpen(ctx, sessionID); err != nil {
		return nil, err
	}

	now := a.Now.now()
	challenge, err := a.Store.LatestChallenge(ctx, sessionID, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindNoValidOtp, "no valid otp request")
	}
	if err != nil {
		return nil, utils.Internal(err, "load otp")
	}
	if challenge.VerifiedAt != nil {
		return nil, utils.NewError(utils.KindNoValidOtp, "no valid otp request")
	}
	if challenge.Expired(now) {
		return nil, utils.NewError(utils.KindOtpExpired, "otp expired")
	}

	// every attempt is claimed before the code is compared, so parallel
	// guesses cannot exceed MaxAttempts between them
	claimed, err := a.Store.ClaimAttempt(ctx, challenge.ID, a.MaxAttempts)
	if err != nil {
		return nil, utils.Internal(err, "record otp attempt")
	}
	if !claimed {
		return nil, a.unclaimedAttempt(ctx, sessionID, phone)
	}

	if challenge.OtpCode != code {
		utils.InfoLogger.WithField("session_id", sessionID).Info("otp mismatch")
		return nil, utils.NewError(utils.KindInvalidOtp, "invalid otp")
	}

	var customer *models.Customer
	err = a.Store.Transaction(ctx, func(tx *repository.Store) error {
		consumed, err := tx.ConsumeChallenge(ctx, challenge.ID, now)
		if err != nil {
			return err
		}
		if !consumed {
			return utils.NewError(utils.KindNoValidOtp, "no valid otp request")
		}
		customer, err = verifiedCustomer(ctx, tx, sessionID, phone, now)
		return err
	})
	if err != nil {
		if utils.KindOf(err) != utils.KindInternal {
			return nil, err
		}
		return nil, utils.Internal(err, "verify otp")
	}

	token, err := a.Tokens.Sign(utils.Claims{
		Role:       utils.RoleCustomer,
		CustomerID: customer.ID,
		ProfileID:  customer.CustomerProfileID,
		SessionID:  sessionID,
		Scope:      utils.ScopeSession,
	})
	if err != nil {
		return nil, utils.Internal(err, "issue customer token")
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"session_id":  sessionID,
		"customer_id": customer.ID,
	}).Info("customer verified")

	return &VerifyResult{
		Token:      token,
		SessionID:  sessionID,
		CustomerID: customer.ID,
		ProfileID:  customer.CustomerProfileID,
	}, nil
}

// unclaimedAttempt tells a consumed challenge apart from a locked one.
func (a *OtpAuthenticator) unclaimedAttempt(ctx context.Context, sessionID, phone string) error {
	latest, err := a.Store.LatestChallenge(ctx, sessionID, phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return utils.Internal(err, "load otp")
	}
	if err != nil || latest.VerifiedAt != nil {
		return utils.NewError(utils.KindNoValidOtp, "no valid otp request")
	}
	return utils.NewError(utils.KindOtpAttemptsExceeded, "too many attempts, ask staff for a new code")
}

// verifiedCustomer marks the session's customer rows for phone verified,
// registering the diner first if they skipped InitiateCustomer.
func verifiedCustomer(ctx context.Context, tx *repository.Store, sessionID, phone string, now time.Time) (*models.Customer, error) {
	customer, err := tx.MarkCustomerVerified(ctx, sessionID, phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	profile, err := tx.ResolveProfile(ctx, phone, nil, now)
	if err != nil {
		return nil, err
	}
	customer = &models.Customer{
		SessionID:         sessionID,
		CustomerProfileID: profile.ID,
		Phone:             phone,
		Verified:          true,
	}
	if err := tx.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func newOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
