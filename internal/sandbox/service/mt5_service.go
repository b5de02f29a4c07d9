package service

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mehrbod2002/fxmobile/internal/gating"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/repository"
	"github.com/shopspring/decimal"
)

// Opening balance of a fresh demo account.
var demoBalance = decimal.NewFromInt(10000)

type MT5Service interface {
	ListPlans(page, size int) (models.Page[models.MT5Plan], error)
	ListAccounts(userID string, page, size int) (models.Page[models.MT5Account], error)
	CreateAccount(userID, groupID string, leverage int, password string) (*models.MT5Account, error)
	SeedPlans(plans []models.MT5Plan) error
}

type mt5Service struct {
	mt5Repo     repository.MT5Repository
	userService UserService
	logService  LogService
}

func NewMT5Service(mt5Repo repository.MT5Repository, userService UserService, logService LogService) MT5Service {
	return &mt5Service{mt5Repo: mt5Repo, userService: userService, logService: logService}
}

func (s *mt5Service) ListPlans(page, size int) (models.Page[models.MT5Plan], error) {
	plans, total, err := s.mt5Repo.ListPlans(page, size)
	if err != nil {
		return models.Page[models.MT5Plan]{}, err
	}
	return models.Page[models.MT5Plan]{List: plans, Total: total, Page: page}, nil
}

func (s *mt5Service) ListAccounts(userID string, page, size int) (models.Page[models.MT5Account], error) {
	accounts, total, err := s.mt5Repo.ListAccounts(userID, page, size)
	if err != nil {
		return models.Page[models.MT5Account]{}, err
	}
	return models.Page[models.MT5Account]{List: accounts, Total: total, Page: page}, nil
}

func (s *mt5Service) CreateAccount(userID, groupID string, leverage int, password string) (*models.MT5Account, error) {
	if n := len(password); n < 8 || n > 15 {
		return nil, ErrInvalidPassword
	}

	user, err := s.userService.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if err := gating.Require(user.Profile(), gating.ActionMT5Create); err != nil {
		return nil, err
	}

	plan, err := s.mt5Repo.GetPlanByID(groupID)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.Status {
		return nil, ErrPlanNotFound
	}
	if plan.Leverage != nil {
		leverage = *plan.Leverage
	}
	if leverage <= 0 {
		return nil, fmt.Errorf("leverage must be positive: %w", ErrInvalidStatus)
	}

	now := time.Now()
	account := &models.MT5Account{
		ID:          uuid.New().String(),
		UserID:      userID,
		AccountType: plan.Type,
		Login:       strconv.FormatUint(uint64(uuid.New().ID()%90000000+10000000), 10),
		GroupID:     plan.ID,
		GroupName:   plan.Name,
		Leverage:    leverage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if plan.Type == models.PlanTypeDemo {
		account.Balance = demoBalance
		account.Equity.Current = demoBalance
	}
	if err := s.mt5Repo.SaveAccount(account); err != nil {
		return nil, err
	}

	metadata := map[string]interface{}{
		"account_id": account.ID,
		"group_id":   plan.ID,
		"leverage":   leverage,
	}
	if err := s.logService.LogAction(userID, "CreateMT5Account", "MT5 account created", "", metadata); err != nil {
		log.Printf("error: %v", err)
	}
	return account, nil
}

func (s *mt5Service) SeedPlans(plans []models.MT5Plan) error {
	for i := range plans {
		if err := s.mt5Repo.SavePlan(&plans[i]); err != nil {
			return fmt.Errorf("seed plan %s: %w", plans[i].ID, err)
		}
	}
	return nil
}
