package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mediscan_backend/internal/inference"
	"mediscan_backend/internal/models"
	"mediscan_backend/internal/payment"
	"mediscan_backend/internal/repositories"
)

// fakeUserRepo mirrors the conditional-update semantics of the real
// repository against an in-memory map.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByMobile(mobile string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Mobile == mobile {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Mobile == user.Mobile {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = "user-" + user.Mobile
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePassword(mobile, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Mobile == mobile {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

func (r *fakeUserRepo) DebitScan(userID string, now time.Time) (repositories.ScanSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return "", repositories.ErrUserNotFound
	}
	switch {
	case u.EffectivePlanScans(now) > 0:
		u.PlanScansConsumed++
		u.AnalysisCount++
		return repositories.ScanSourcePlan, nil
	case u.FreeScansRemaining() > 0:
		u.FreeScansUsed++
		u.AnalysisCount++
		return repositories.ScanSourceFree, nil
	case u.CustomScansBalance > 0:
		u.CustomScansBalance--
		u.AnalysisCount++
		return repositories.ScanSourceCustom, nil
	}
	return "", repositories.ErrNoScansRemaining
}

func (r *fakeUserRepo) AddCustomScans(userID string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.CustomScansBalance += count
	return nil
}

func (r *fakeUserRepo) ApplyPlan(userID string, kind models.PlanKind, total, consumed int, expiresAt, purchasedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PlanKind = kind
	u.PlanScansTotal = total
	u.PlanScansConsumed = consumed
	expiry := expiresAt
	purchased := purchasedAt
	u.PlanExpiresAt = &expiry
	u.PlanPurchasedAt = &purchased
	return nil
}

func (r *fakeUserRepo) ExpireLapsedPlans(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, u := range r.users {
		if u.PlanKind != models.PlanKindNone && u.PlanExpiresAt != nil && now.After(*u.PlanExpiresAt) {
			u.PlanKind = models.PlanKindNone
			count++
		}
	}
	return count, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*models.Order)}
}

func (r *fakeOrderRepo) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.orders[order.OrderID] = &copied
	return nil
}

func (r *fakeOrderRepo) FindByOrderID(orderID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) MarkVerified(orderID, paymentID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return repositories.ErrOrderNotFound
	}
	if o.Status == models.OrderStatusVerified {
		return repositories.ErrOrderAlreadyVerified
	}
	if o.Status != models.OrderStatusCreated {
		return repositories.ErrOrderNotFound
	}
	o.Status = models.OrderStatusVerified
	o.PaymentID = paymentID
	verifiedAt := at
	o.VerifiedAt = &verifiedAt
	return nil
}

func (r *fakeOrderRepo) MarkFailed(orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return repositories.ErrOrderNotFound
	}
	if o.Status == models.OrderStatusCreated {
		o.Status = models.OrderStatusFailed
	}
	return nil
}

type fakeActivityRepo struct {
	mu         sync.Mutex
	activities []models.AnalysisActivity
}

func (r *fakeActivityRepo) Create(activity *models.AnalysisActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, *activity)
	return nil
}

func (r *fakeActivityRepo) FindRecentByUser(userID string, limit int) ([]models.AnalysisActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AnalysisActivity
	for i := len(r.activities) - 1; i >= 0 && len(out) < limit; i-- {
		if r.activities[i].UserID == userID {
			out = append(out, r.activities[i])
		}
	}
	return out, nil
}

// fakePaymentProvider hands out sequential order ids.
type fakePaymentProvider struct {
	mu      sync.Mutex
	counter int
	fail    bool
	orders  []payment.ProviderOrder
}

func (p *fakePaymentProvider) CreateOrder(amountMinorUnits int64, currency, receipt string, notes map[string]interface{}) (*payment.ProviderOrder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return nil, errProviderDown
	}
	p.counter++
	order := payment.ProviderOrder{
		OrderID:          orderID(p.counter),
		AmountMinorUnits: amountMinorUnits,
		Currency:         currency,
	}
	p.orders = append(p.orders, order)
	return &order, nil
}

type fakeInferenceClient struct {
	mu       sync.Mutex
	result   inference.Result
	err      error
	calls    int
	lastBody []byte
}

func (c *fakeInferenceClient) AnalyzeImage(ctx context.Context, modelID, filename string, image []byte) (*inference.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.lastBody = image
	if c.err != nil {
		return nil, c.err
	}
	copied := c.result
	return &copied, nil
}

func (c *fakeInferenceClient) AnalyzeValues(ctx context.Context, modelID string, values map[string]float64) (*inference.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	copied := c.result
	return &copied, nil
}

type recordingSMS struct {
	mu       sync.Mutex
	messages []string
	fail     bool
}

func (s *recordingSMS) Send(mobile, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errSMSDown
	}
	s.messages = append(s.messages, body)
	return nil
}

var (
	errProviderDown = errFake("payment provider down")
	errSMSDown      = errFake("sms gateway down")
)

type errFake string

func (e errFake) Error() string { return string(e) }

func orderID(n int) string {
	return fmt.Sprintf("order_%03d", n)
}
