package repository

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/mehrbod2002/fxmobile/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Memory repositories back the sandbox when no MONGO_URI is configured.
// Every read returns a copy.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.UserAccount
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.UserAccount)}
}

func (r *MemoryUserRepository) SaveUser(user *models.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicate
	}
	for _, u := range r.users {
		if user.Email != "" && strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetUserByID(id string) (*models.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetUserByLogin(identifier string) (*models.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, identifier) || u.UserName == identifier || (u.Mobile != "" && u.Mobile == identifier) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) GetAllUsers() ([]*models.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.UserAccount, 0, len(r.users))
	for _, u := range r.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *MemoryUserRepository) UpdateUser(user *models.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

type MemoryMT5Repository struct {
	mu       sync.RWMutex
	plans    []models.MT5Plan
	accounts []models.MT5Account
}

func NewMemoryMT5Repository() *MemoryMT5Repository {
	return &MemoryMT5Repository{}
}

func (r *MemoryMT5Repository) SavePlan(plan *models.MT5Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.plans {
		if p.ID == plan.ID {
			r.plans[i] = *plan
			return nil
		}
	}
	r.plans = append(r.plans, *plan)
	return nil
}

func (r *MemoryMT5Repository) GetPlanByID(id string) (*models.MT5Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plans {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *MemoryMT5Repository) ListPlans(page, limit int) ([]models.MT5Plan, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.plans, page, limit), len(r.plans), nil
}

func (r *MemoryMT5Repository) SaveAccount(account *models.MT5Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts = append(r.accounts, *account)
	return nil
}

func (r *MemoryMT5Repository) GetAccountByID(id string) (*models.MT5Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *MemoryMT5Repository) ListAccounts(userID string, page, limit int) ([]models.MT5Account, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owned []models.MT5Account
	for i := len(r.accounts) - 1; i >= 0; i-- {
		if r.accounts[i].UserID == userID {
			owned = append(owned, r.accounts[i])
		}
	}
	return paginate(owned, page, limit), len(owned), nil
}

func (r *MemoryMT5Repository) UpdateAccount(account *models.MT5Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.accounts {
		if a.ID == account.ID {
			r.accounts[i] = *account
			return nil
		}
	}
	return ErrNotFound
}

type MemoryTransactionRepository struct {
	mu           sync.RWMutex
	transactions []models.Transaction
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{}
}

func (r *MemoryTransactionRepository) SaveTransaction(transaction *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions = append(r.transactions, *transaction)
	return nil
}

func (r *MemoryTransactionRepository) GetTransactionByID(id string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.transactions {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *MemoryTransactionRepository) GetTransactionsByUserID(userID string) ([]*models.Transaction, error) {
	return r.filter(func(t models.Transaction) bool { return t.UserID == userID }), nil
}

func (r *MemoryTransactionRepository) GetAllTransactions() ([]*models.Transaction, error) {
	return r.filter(func(models.Transaction) bool { return true }), nil
}

// filter returns matches newest first.
func (r *MemoryTransactionRepository) filter(keep func(models.Transaction) bool) []*models.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Transaction
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if t := r.transactions[i]; keep(t) {
			out = append(out, &t)
		}
	}
	return out
}

func (r *MemoryTransactionRepository) UpdateTransaction(transaction *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.transactions {
		if t.ID == transaction.ID {
			r.transactions[i].Status = transaction.Status
			r.transactions[i].ResponseTime = transaction.ResponseTime
			r.transactions[i].AdminNote = transaction.AdminNote
			return nil
		}
	}
	return ErrNotFound
}

type MemoryBotRepository struct {
	mu       sync.RWMutex
	plans    []models.BotPlan
	statuses map[string]map[string]models.BotRunStatus
	requests []models.BotSwitchRequest
}

func NewMemoryBotRepository() *MemoryBotRepository {
	return &MemoryBotRepository{statuses: make(map[string]map[string]models.BotRunStatus)}
}

func (r *MemoryBotRepository) SavePlan(plan *models.BotPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.plans {
		if p.ID == plan.ID {
			r.plans[i] = *plan
			return nil
		}
	}
	r.plans = append(r.plans, *plan)
	return nil
}

func (r *MemoryBotRepository) GetPlanByID(id string) (*models.BotPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plans {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *MemoryBotRepository) GetAllPlans() ([]models.BotPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.BotPlan{}, r.plans...), nil
}

func (r *MemoryBotRepository) GetStatuses(userID string) ([]models.BotStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := []models.BotStatus{}
	for _, p := range r.plans {
		if s, ok := r.statuses[userID][p.ID]; ok {
			statuses = append(statuses, models.BotStatus{PlanID: p.ID, Status: s})
		}
	}
	return statuses, nil
}

func (r *MemoryBotRepository) SetStatus(userID string, status models.BotStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.statuses[userID] == nil {
		r.statuses[userID] = make(map[string]models.BotRunStatus)
	}
	r.statuses[userID][status.PlanID] = status.Status
	return nil
}

func (r *MemoryBotRepository) SaveRequest(request *models.BotSwitchRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = append(r.requests, *request)
	return nil
}

func (r *MemoryBotRepository) GetRequestByID(id string) (*models.BotSwitchRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.ID == id {
			return &req, nil
		}
	}
	return nil, nil
}

func (r *MemoryBotRepository) GetPendingRequests() ([]*models.BotSwitchRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pending []*models.BotSwitchRequest
	for _, req := range r.requests {
		if req.Status == models.RequestPending {
			req := req
			pending = append(pending, &req)
		}
	}
	return pending, nil
}

func (r *MemoryBotRepository) UpdateRequest(request *models.BotSwitchRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, req := range r.requests {
		if req.ID == request.ID {
			r.requests[i] = *request
			return nil
		}
	}
	return ErrNotFound
}

type MemoryLogRepository struct {
	mu   sync.RWMutex
	logs []models.LogEntry
}

func NewMemoryLogRepository() *MemoryLogRepository {
	return &MemoryLogRepository{}
}

func (r *MemoryLogRepository) SaveLog(entry *models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, *entry)
	return nil
}

func (r *MemoryLogRepository) GetAllLogs(page, limit int) ([]*models.LogEntry, error) {
	return r.find(func(models.LogEntry) bool { return true }, page, limit), nil
}

func (r *MemoryLogRepository) GetLogsByUserID(userID string, page, limit int) ([]*models.LogEntry, error) {
	return r.find(func(e models.LogEntry) bool { return e.UserID == userID }, page, limit), nil
}

func (r *MemoryLogRepository) find(keep func(models.LogEntry) bool, page, limit int) []*models.LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.LogEntry
	for i := len(r.logs) - 1; i >= 0; i-- {
		if e := r.logs[i]; keep(e) {
			matched = append(matched, &e)
		}
	}
	return paginate(matched, page, limit)
}

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return append([]T{}, items...)
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T{}, items[start:end]...)
}
