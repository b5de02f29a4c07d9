package service

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mehrbod2002/fxmobile/internal/gating"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/repository"
	"github.com/shopspring/decimal"
)

const walletCurrency = "USD"

var minimumDeposit = decimal.NewFromInt(10)

// WalletService handles wallet balances and the transactions that move them.
// Deposits and withdrawals wait for admin review, transfers settle at once.
type WalletService interface {
	Balance(userID string) (models.Balance, error)
	Deposit(userID string, amount decimal.Decimal) (*models.Transaction, error)
	Withdraw(userID string, amount decimal.Decimal, address string) (*models.Transaction, error)
	Transfer(userID string, amount decimal.Decimal, accountID string) (*models.Transaction, error)
	GetTransactionsByUserID(userID string) ([]*models.Transaction, error)
	GetAllTransactions() ([]*models.Transaction, error)
	ReviewTransaction(id string, status models.TransactionStatus, adminNote string) (*models.Transaction, error)
}

type walletService struct {
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	mt5Repo         repository.MT5Repository
	logService      LogService
	events          EventPublisher
	mu              sync.Mutex
}

func NewWalletService(
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	mt5Repo repository.MT5Repository,
	logService LogService,
	events EventPublisher,
) WalletService {
	return &walletService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		mt5Repo:         mt5Repo,
		logService:      logService,
		events:          events,
	}
}

func (s *walletService) user(id string) (*models.UserAccount, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *walletService) Balance(userID string) (models.Balance, error) {
	user, err := s.user(userID)
	if err != nil {
		return models.Balance{}, err
	}
	return models.Balance{Available: user.Balance, Currency: walletCurrency}, nil
}

func (s *walletService) Deposit(userID string, amount decimal.Decimal) (*models.Transaction, error) {
	if amount.LessThan(minimumDeposit) {
		return nil, ErrMinimumDeposit
	}
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	if err := gating.Require(user.Profile(), gating.ActionDeposit); err != nil {
		return nil, err
	}
	return s.record(&models.Transaction{
		UserID:          userID,
		TransactionType: models.TransactionTypeDeposit,
		Amount:          amount,
		Status:          models.TransactionStatusPending,
	})
}

func (s *walletService) Withdraw(userID string, amount decimal.Decimal, address string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	if err := gating.Require(user.Profile(), gating.ActionWithdraw); err != nil {
		return nil, err
	}
	if amount.GreaterThan(user.Balance) {
		return nil, ErrInsufficientBalance
	}
	return s.record(&models.Transaction{
		UserID:          userID,
		TransactionType: models.TransactionTypeWithdrawal,
		Amount:          amount,
		Address:         strings.TrimSpace(address),
		Status:          models.TransactionStatusPending,
	})
}

func (s *walletService) Transfer(userID string, amount decimal.Decimal, accountID string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	if err := gating.Require(user.Profile(), gating.ActionTransfer); err != nil {
		return nil, err
	}
	account, err := s.mt5Repo.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.UserID != userID {
		return nil, ErrAccountNotFound
	}
	if amount.GreaterThan(user.Balance) {
		return nil, ErrInsufficientBalance
	}

	user.Balance = user.Balance.Sub(amount)
	user.UpdatedAt = time.Now()
	if err := s.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}
	account.Balance = account.Balance.Add(amount)
	account.Equity.Current = account.Equity.Current.Add(amount)
	account.UpdatedAt = time.Now()
	if err := s.mt5Repo.UpdateAccount(account); err != nil {
		return nil, err
	}

	now := time.Now()
	transaction, err := s.record(&models.Transaction{
		UserID:          userID,
		TransactionType: models.TransactionTypeTransfer,
		Amount:          amount,
		AccountID:       accountID,
		Status:          models.TransactionStatusApproved,
		ResponseTime:    &now,
	})
	if err != nil {
		return nil, err
	}
	s.publishBalance(user)
	return transaction, nil
}

func (s *walletService) record(transaction *models.Transaction) (*models.Transaction, error) {
	transaction.ID = uuid.New().String()
	transaction.RequestTime = time.Now()
	if err := s.transactionRepo.SaveTransaction(transaction); err != nil {
		return nil, err
	}

	metadata := map[string]interface{}{
		"transaction_id":   transaction.ID,
		"transaction_type": transaction.TransactionType,
		"amount":           transaction.Amount.String(),
	}
	if err := s.logService.LogAction(transaction.UserID, "CreateTransaction", "Transaction requested", "", metadata); err != nil {
		log.Printf("error: %v", err)
	}
	return transaction, nil
}

func (s *walletService) GetTransactionsByUserID(userID string) ([]*models.Transaction, error) {
	return s.transactionRepo.GetTransactionsByUserID(userID)
}

func (s *walletService) GetAllTransactions() ([]*models.Transaction, error) {
	return s.transactionRepo.GetAllTransactions()
}

// ReviewTransaction settles a pending deposit or withdrawal. Approval moves
// the money; a withdrawal the balance no longer covers cannot be approved.
func (s *walletService) ReviewTransaction(id string, status models.TransactionStatus, adminNote string) (*models.Transaction, error) {
	if status != models.TransactionStatusApproved && status != models.TransactionStatusRejected {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	transaction, err := s.transactionRepo.GetTransactionByID(id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	if transaction.Status != models.TransactionStatusPending {
		return nil, ErrAlreadyReviewed
	}

	var user *models.UserAccount
	if status == models.TransactionStatusApproved {
		if user, err = s.user(transaction.UserID); err != nil {
			return nil, err
		}
		switch transaction.TransactionType {
		case models.TransactionTypeDeposit:
			user.Balance = user.Balance.Add(transaction.Amount)
		case models.TransactionTypeWithdrawal:
			if transaction.Amount.GreaterThan(user.Balance) {
				return nil, ErrInsufficientBalance
			}
			user.Balance = user.Balance.Sub(transaction.Amount)
		}
		user.UpdatedAt = time.Now()
		if err := s.userRepo.UpdateUser(user); err != nil {
			return nil, err
		}
	}

	responseTime := time.Now()
	transaction.Status = status
	transaction.ResponseTime = &responseTime
	transaction.AdminNote = adminNote
	if err := s.transactionRepo.UpdateTransaction(transaction); err != nil {
		return nil, err
	}

	metadata := map[string]interface{}{
		"transaction_id": id,
		"status":         status,
		"admin_note":     adminNote,
	}
	if err := s.logService.LogAction(transaction.UserID, "ReviewTransaction", "Transaction reviewed", "", metadata); err != nil {
		log.Printf("error: %v", err)
	}
	if user != nil {
		s.publishBalance(user)
	}
	return transaction, nil
}

func (s *walletService) publishBalance(user *models.UserAccount) {
	if s.events == nil {
		return
	}
	balance := models.Balance{Available: user.Balance, Currency: walletCurrency}
	if err := s.events.Publish(user.ID, models.EventBalance, balance); err != nil {
		log.Printf("Failed to publish balance event: %v", err)
	}
}
