package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "dinein.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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
	return repository.NewStore(db)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recordingDispatcher) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingDispatcher) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// fixture is one branch with an area, two tables (one inactive), staff and a
// small menu, plus a second branch for cross-branch checks.
type fixture struct {
	store *repository.Store
	clock *fakeClock
	feed  *recordingDispatcher

	branch        models.Branch
	otherBranch   models.Branch
	table         models.Table
	inactiveTable models.Table
	otherTable    models.Table

	captain      models.Staff
	otherCaptain models.Staff

	paneer      models.MenuItem // base 120, portions Half 120 / Full 220
	fullPortion models.MenuPortion
	papad       models.MenuItem // base 60

	guard    *SessionGuard
	sessions *SessionManager
	otp      *OtpAuthenticator
	ledger   *OrderLedger
	machine  *OrderStateMachine
	catalog  *Catalog
	tokens   *utils.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: newTestStore(t),
		clock: newFakeClock(),
		feed:  &recordingDispatcher{},
	}
	db := f.store.DB()

	f.branch = models.Branch{Name: "Main", CurrencyCode: "INR", CurrencySymbol: "₹"}
	f.otherBranch = models.Branch{Name: "Harbour", CurrencyCode: "INR", CurrencySymbol: "₹"}
	require.NoError(t, db.Create(&f.branch).Error)
	require.NoError(t, db.Create(&f.otherBranch).Error)

	area := models.Area{BranchID: f.branch.ID, Name: "Patio"}
	otherArea := models.Area{BranchID: f.otherBranch.ID, Name: "Deck"}
	require.NoError(t, db.Create(&area).Error)
	require.NoError(t, db.Create(&otherArea).Error)

	f.table = models.Table{AreaID: area.ID, TableNumber: "1", IsActive: true}
	f.inactiveTable = models.Table{AreaID: area.ID, TableNumber: "2", IsActive: false}
	f.otherTable = models.Table{AreaID: otherArea.ID, TableNumber: "1", IsActive: true}
	require.NoError(t, db.Create(&f.table).Error)
	require.NoError(t, db.Create(&f.inactiveTable).Error)
	require.NoError(t, db.Create(&f.otherTable).Error)

	f.captain = models.Staff{Name: "Asha", Role: utils.RoleCaptain, BranchID: f.branch.ID}
	f.otherCaptain = models.Staff{Name: "Ravi", Role: utils.RoleCaptain, BranchID: f.otherBranch.ID}
	require.NoError(t, db.Create(&f.captain).Error)
	require.NoError(t, db.Create(&f.otherCaptain).Error)

	category := models.MenuCategory{BranchID: f.branch.ID, Name: "Starters"}
	require.NoError(t, db.Create(&category).Error)
	f.paneer = models.MenuItem{CategoryID: category.ID, Name: "Paneer Tikka", BasePrice: decimal.NewFromInt(120), IsAvailable: true}
	f.papad = models.MenuItem{CategoryID: category.ID, Name: "Masala Papad", BasePrice: decimal.NewFromInt(60), IsAvailable: true}
	require.NoError(t, db.Create(&f.paneer).Error)
	require.NoError(t, db.Create(&f.papad).Error)
	f.fullPortion = models.MenuPortion{MenuItemID: f.paneer.ID, Label: "Full", Price: decimal.NewFromInt(220)}
	require.NoError(t, db.Create(&f.fullPortion).Error)
	require.NoError(t, db.Create(&models.MenuPortion{MenuItemID: f.paneer.ID, Label: "Half", Price: decimal.NewFromInt(120)}).Error)

	f.tokens = utils.NewTokenIssuer(testSecret, time.Hour)
	f.guard = NewSessionGuard(f.store)
	f.sessions = NewSessionManager(f.store)
	f.sessions.Now = f.clock.Now
	f.otp = NewOtpAuthenticator(f.store, f.guard, f.tokens)
	f.otp.Now = f.clock.Now
	f.ledger = NewOrderLedger(f.store, f.guard, f.feed)
	f.ledger.Now = f.clock.Now
	f.machine = NewOrderStateMachine(f.store, f.feed)
	f.machine.Now = f.clock.Now
	f.catalog = NewCatalog(f.store)
	return f
}

func (f *fixture) captainClaims() *utils.Claims {
	return &utils.Claims{Role: utils.RoleCaptain, StaffID: f.captain.ID, BranchID: f.branch.ID}
}

func (f *fixture) startSession(t *testing.T) string {
	t.Helper()
	res, err := f.sessions.StartOrReuse(ctx(), f.table.ID)
	require.NoError(t, err)
	return res.SessionID
}

func (f *fixture) placeOrder(t *testing.T, sessionID string, lines ...OrderLine) *PlaceOrderResult {
	t.Helper()
	res, err := f.ledger.PlaceOrder(ctx(), sessionID, lines, nil)
	require.NoError(t, err)
	return res
}

func (f *fixture) advance(t *testing.T, orderID string, steps ...models.OrderStatus) {
	t.Helper()
	for _, s := range steps {
		_, err := f.machine.Advance(ctx(), orderID, s, utils.RoleKitchen)
		require.NoError(t, err)
	}
}

func ctx() context.Context {
	return context.Background()
}
