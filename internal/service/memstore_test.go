package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/repository"
)

// memStore mirrors the conditional single-row semantics of the postgres
// repositories. Each method holds the lock for exactly one row change, like a
// single UPDATE statement.
type memStore struct {
	mu          sync.Mutex
	accounts    map[string]*domain.Account
	applied     map[string]map[string]bool
	assets      map[string]*domain.Asset
	requests    map[string]*domain.AssetRequest
	assignments map[string]*domain.AssignedAsset
	packages    map[string]*domain.Package
	orders      map[string]*domain.PaymentOrder
	faults      map[string][]error
	calls       map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		accounts:    map[string]*domain.Account{},
		applied:     map[string]map[string]bool{},
		assets:      map[string]*domain.Asset{},
		requests:    map[string]*domain.AssetRequest{},
		assignments: map[string]*domain.AssignedAsset{},
		packages:    map[string]*domain.Package{},
		orders:      map[string]*domain.PaymentOrder{},
		faults:      map[string][]error{},
		calls:       map[string]int{},
	}
}

// failNext makes the next len(errs) calls of op return errs in order
func (s *memStore) failNext(op string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = append(s.faults[op], errs...)
}

func (s *memStore) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter records a call and pops a queued fault. Caller holds the lock.
func (s *memStore) enter(op string) error {
	s.calls[op]++
	if q := s.faults[op]; len(q) > 0 {
		s.faults[op] = q[1:]
		return q[0]
	}
	return nil
}

func (s *memStore) addAccount(a domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = &a
}

func (s *memStore) addAsset(a domain.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[a.ID] = &a
}

func (s *memStore) addPackage(p domain.Package) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[p.ID] = &p
}

func (s *memStore) account(id string) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.accounts[id]
}

func (s *memStore) asset(id string) domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.assets[id]
}

func (s *memStore) request(id string) domain.AssetRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.requests[id]
}

func (s *memStore) assignment(requestID string) (domain.AssignedAsset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[requestID]
	if !ok {
		return domain.AssignedAsset{}, false
	}
	return *a, true
}

func (s *memStore) assignmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assignments)
}

func (s *memStore) liveRequests(assetID, requesterID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.AssetID == assetID && r.RequesterID == requesterID && r.Status.Live() {
			n++
		}
	}
	return n
}

func (s *memStore) order(sessionID string) domain.PaymentOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.orders[sessionID]
}

func (s *memStore) Accounts() repository.AccountRepository { return memAccounts{s} }
func (s *memStore) Assets() repository.AssetRepository { return memAssets{s} }
func (s *memStore) Requests() repository.RequestRepository { return memRequests{s} }
func (s *memStore) Assignments() repository.AssignmentRepository { return memAssignments{s} }
func (s *memStore) Packages() repository.PackageRepository { return memPackages{s} }
func (s *memStore) Orders() repository.PaymentRepository { return memOrders{s} }

type memAccounts struct{ s *memStore }

func (r memAccounts) Create(_ context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("accounts.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.accounts {
		if existing.Email == a.Email {
			return domain.ErrAlreadyRegistered
		}
	}
	cp := *a
	r.s.accounts[a.ID] = &cp
	return nil
}

func (r memAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("accounts.GetByID"); err != nil {
		return nil, err
	}
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r memAccounts) ConsumeSeat(_ context.Context, hrID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("accounts.ConsumeSeat"); err != nil {
		return err
	}
	a, ok := r.s.accounts[hrID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if a.PackageLimit <= 0 {
		return domain.ErrSeatLimitExceeded
	}
	a.PackageLimit--
	a.CurrentEmployeeCount++
	return nil
}

func (r memAccounts) ReturnSeat(_ context.Context, hrID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("accounts.ReturnSeat"); err != nil {
		return err
	}
	a, ok := r.s.accounts[hrID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if a.CurrentEmployeeCount > 0 {
		a.PackageLimit++
		a.CurrentEmployeeCount--
	}
	return nil
}

func (r memAccounts) CreditSeats(_ context.Context, hrID string, seats int32, tier, orderID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("accounts.CreditSeats"); err != nil {
		return false, err
	}
	a, ok := r.s.accounts[hrID]
	if !ok {
		return false, domain.ErrAccountNotFound
	}
	if r.s.applied[hrID] == nil {
		r.s.applied[hrID] = map[string]bool{}
	}
	if r.s.applied[hrID][orderID] {
		return false, nil
	}
	r.s.applied[hrID][orderID] = true
	a.PackageLimit += seats
	a.SubscriptionTier = tier
	return true, nil
}

func (r memAccounts) UpdateProfile(_ context.Context, id string, p domain.ProfileUpdate) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.DateOfBirth != nil {
		a.DateOfBirth = *p.DateOfBirth
	}
	cp := *a
	return &cp, nil
}

type memAssets struct{ s *memStore }

func (r memAssets) Create(_ context.Context, a *domain.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("assets.Create"); err != nil {
		return err
	}
	cp := *a
	r.s.assets[a.ID] = &cp
	return nil
}

func (r memAssets) GetByID(_ context.Context, id string) (*domain.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memAssets) Reserve(_ context.Context, id string) (int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("assets.Reserve"); err != nil {
		return 0, err
	}
	a, ok := r.s.assets[id]
	if !ok {
		return 0, domain.ErrAssetNotFound
	}
	if a.AvailableQuantity <= 0 {
		return 0, domain.ErrOutOfStock
	}
	a.AvailableQuantity--
	return a.AvailableQuantity, nil
}

func (r memAssets) Release(_ context.Context, id string) (int32, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("assets.Release"); err != nil {
		return 0, false, err
	}
	a, ok := r.s.assets[id]
	if !ok {
		return 0, false, domain.ErrAssetNotFound
	}
	if a.AvailableQuantity >= a.TotalQuantity {
		return a.AvailableQuantity, true, nil
	}
	a.AvailableQuantity++
	return a.AvailableQuantity, false, nil
}

func (r memAssets) Adjust(_ context.Context, id string, delta int32) (*domain.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("assets.Adjust"); err != nil {
		return nil, err
	}
	a, ok := r.s.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	if a.AvailableQuantity+delta < 0 {
		return nil, domain.ErrStockInUse
	}
	a.TotalQuantity += delta
	a.AvailableQuantity += delta
	cp := *a
	return &cp, nil
}

func (r memAssets) UpdateDetails(_ context.Context, id, ownerHRID string, d domain.AssetDetails) (*domain.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	if a.OwnerHRID != ownerHRID {
		return nil, domain.ErrForbidden
	}
	if d.ProductName != nil {
		a.ProductName = *d.ProductName
	}
	if d.ProductImage != nil {
		a.ProductImage = *d.ProductImage
	}
	cp := *a
	return &cp, nil
}

type memRequests struct{ s *memStore }

func (r memRequests) Create(_ context.Context, req *domain.AssetRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("requests.Create"); err != nil {
		return err
	}
	if req.Status.Live() {
		for _, existing := range r.s.requests {
			if existing.AssetID == req.AssetID && existing.RequesterID == req.RequesterID && existing.Status.Live() {
				return domain.ErrDuplicateRequest
			}
		}
	}
	cp := *req
	r.s.requests[req.ID] = &cp
	return nil
}

func (r memRequests) GetByID(_ context.Context, id string) (*domain.AssetRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (r memRequests) FindLive(_ context.Context, assetID, requesterID string) (*domain.AssetRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.requests {
		if req.AssetID == assetID && req.RequesterID == requesterID && req.Status.Live() {
			cp := *req
			return &cp, nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (r memRequests) Decide(_ context.Context, id string, d domain.Decision) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("requests.Decide"); err != nil {
		return false, err
	}
	req, ok := r.s.requests[id]
	if !ok || req.Status != domain.RequestStatusPending {
		return false, nil
	}
	decidedAt, decidedBy := d.DecidedAt, d.DecidedBy
	req.Status = d.Status
	req.DecidedAt = &decidedAt
	req.DecidedBy = &decidedBy
	req.ReturnDeadline = d.ReturnDeadline
	return true, nil
}

func (r memRequests) RevertDecision(_ context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("requests.RevertDecision"); err != nil {
		return false, err
	}
	req, ok := r.s.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	req.DecidedAt = nil
	req.DecidedBy = nil
	req.ReturnDeadline = nil
	return true, nil
}

func (r memRequests) MarkReturned(_ context.Context, id, requesterID string, at time.Time) (*domain.AssetRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok || req.RequesterID != requesterID || req.Status != domain.RequestStatusApproved || req.AssetType != domain.ProductTypeReturnable {
		return nil, domain.ErrNotEligible
	}
	if a, ok := r.s.assignments[id]; !ok || a.Status != domain.AssignmentStatusAssigned {
		return nil, domain.ErrNotEligible
	}
	req.Status = domain.RequestStatusReturned
	req.ReturnedAt = &at
	cp := *req
	return &cp, nil
}

func (r memRequests) ListOverdueReturns(_ context.Context, now time.Time) ([]domain.AssetRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.AssetRequest
	for _, req := range r.s.requests {
		if req.Status == domain.RequestStatusApproved && req.ReturnDeadline != nil && req.ReturnDeadline.Before(now) {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReturnDeadline.Before(*out[j].ReturnDeadline) })
	return out, nil
}

type memAssignments struct{ s *memStore }

func (r memAssignments) Create(_ context.Context, a *domain.AssignedAsset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("assignments.Create"); err != nil {
		return err
	}
	cp := *a
	r.s.assignments[a.RequestID] = &cp
	return nil
}

func (r memAssignments) MarkReturned(_ context.Context, requestID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("assignments.MarkReturned"); err != nil {
		return false, err
	}
	a, ok := r.s.assignments[requestID]
	if !ok || a.Status != domain.AssignmentStatusAssigned {
		return false, nil
	}
	a.Status = domain.AssignmentStatusReturned
	a.ReturnedAt = &at
	return true, nil
}

type memPackages struct{ s *memStore }

func (r memPackages) GetByID(_ context.Context, id string) (*domain.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.packages[id]
	if !ok {
		return nil, domain.ErrPackageNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPackages) List(_ context.Context) ([]domain.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Package, 0, len(r.s.packages))
	for _, p := range r.s.packages {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceCents < out[j].PriceCents })
	return out, nil
}

type memOrders struct{ s *memStore }

func (r memOrders) Create(_ context.Context, o *domain.PaymentOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("orders.Create"); err != nil {
		return err
	}
	cp := *o
	r.s.orders[o.ExternalSessionID] = &cp
	return nil
}

func (r memOrders) GetBySessionID(_ context.Context, sessionID string) (*domain.PaymentOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[sessionID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r memOrders) MarkPaid(_ context.Context, sessionID string, stamp domain.PaidStamp) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("orders.MarkPaid"); err != nil {
		return false, err
	}
	o, ok := r.s.orders[sessionID]
	if !ok || o.Status != domain.PaymentStatusPending {
		return false, nil
	}
	o.Status = domain.PaymentStatusPaid
	o.TrackingID = &stamp.TrackingID
	o.ExternalTransactionID = &stamp.ExternalTransactionID
	o.PaidAt = &stamp.PaidAt
	return true, nil
}

func (r memOrders) MarkCredited(_ context.Context, orderID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("orders.MarkCredited"); err != nil {
		return err
	}
	for _, o := range r.s.orders {
		if o.ID == orderID && o.CreditedAt == nil {
			o.CreditedAt = &at
		}
	}
	return nil
}

func (r memOrders) ListUncredited(_ context.Context, paidBefore time.Time) ([]domain.PaymentOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.PaymentOrder
	for _, o := range r.s.orders {
		if o.Status == domain.PaymentStatusPaid && o.CreditedAt == nil && o.PaidAt.Before(paidBefore) {
			out = append(out, *o)
		}
	}
	return out, nil
}
