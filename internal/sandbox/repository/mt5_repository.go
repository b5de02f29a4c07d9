package repository

import (
	"github.com/mehrbod2002/fxmobile/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MT5Repository interface {
	SavePlan(plan *models.MT5Plan) error
	GetPlanByID(id string) (*models.MT5Plan, error)
	ListPlans(page, limit int) ([]models.MT5Plan, int, error)
	SaveAccount(account *models.MT5Account) error
	GetAccountByID(id string) (*models.MT5Account, error)
	ListAccounts(userID string, page, limit int) ([]models.MT5Account, int, error)
	UpdateAccount(account *models.MT5Account) error
}

// MongoMT5Repository keeps plan groups and trading accounts in separate
// collections. Plans are idempotently seeded, so SavePlan upserts.
type MongoMT5Repository struct {
	plans    store[models.MT5Plan]
	accounts store[models.MT5Account]
}

func NewMT5Repository(client *mongo.Client, dbName string) MT5Repository {
	db := client.Database(dbName)
	return &MongoMT5Repository{
		plans:    newStore[models.MT5Plan](db, "mt5_groups"),
		accounts: newStore[models.MT5Account](db, "mt5_accounts"),
	}
}

func (r *MongoMT5Repository) SavePlan(plan *models.MT5Plan) error {
	return r.plans.upsert(plan.ID, plan)
}

func (r *MongoMT5Repository) GetPlanByID(id string) (*models.MT5Plan, error) {
	return r.plans.byID(id)
}

func (r *MongoMT5Repository) ListPlans(page, limit int) ([]models.MT5Plan, int, error) {
	plans, total, err := r.plans.page(bson.M{}, bson.M{"name": 1}, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return values(plans), total, nil
}

func (r *MongoMT5Repository) SaveAccount(account *models.MT5Account) error {
	return r.accounts.insert(account)
}

func (r *MongoMT5Repository) GetAccountByID(id string) (*models.MT5Account, error) {
	return r.accounts.byID(id)
}

// ListAccounts returns the newest accounts first.
func (r *MongoMT5Repository) ListAccounts(userID string, page, limit int) ([]models.MT5Account, int, error) {
	accounts, total, err := r.accounts.page(bson.M{"user_id": userID}, bson.M{"created_at": -1}, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return values(accounts), total, nil
}

func (r *MongoMT5Repository) UpdateAccount(account *models.MT5Account) error {
	return r.accounts.replace(account.ID, account)
}
