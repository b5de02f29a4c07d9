package repository

import (
	"github.com/mehrbod2002/fxmobile/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TransactionRepository interface {
	SaveTransaction(transaction *models.Transaction) error
	GetTransactionByID(id string) (*models.Transaction, error)
	GetTransactionsByUserID(userID string) ([]*models.Transaction, error)
	GetAllTransactions() ([]*models.Transaction, error)
	UpdateTransaction(transaction *models.Transaction) error
}

type MongoTransactionRepository struct {
	ledger store[models.Transaction]
}

func NewTransactionRepository(client *mongo.Client, dbName, collectionName string) TransactionRepository {
	return &MongoTransactionRepository{ledger: newStore[models.Transaction](client.Database(dbName), collectionName)}
}

func (r *MongoTransactionRepository) SaveTransaction(transaction *models.Transaction) error {
	return r.ledger.insert(transaction)
}

func (r *MongoTransactionRepository) GetTransactionByID(id string) (*models.Transaction, error) {
	return r.ledger.byID(id)
}

func (r *MongoTransactionRepository) GetTransactionsByUserID(userID string) ([]*models.Transaction, error) {
	return r.ledger.all(bson.M{"user_id": userID}, newestFirst)
}

func (r *MongoTransactionRepository) GetAllTransactions() ([]*models.Transaction, error) {
	return r.ledger.all(bson.M{}, newestFirst)
}

// UpdateTransaction records a review outcome. Amount, type and owner are
// immutable once a request is filed.
func (r *MongoTransactionRepository) UpdateTransaction(transaction *models.Transaction) error {
	return r.ledger.set(transaction.ID, bson.M{
		"status":        transaction.Status,
		"response_time": transaction.ResponseTime,
		"admin_note":    transaction.AdminNote,
	})
}

var newestFirst = options.Find().SetSort(bson.M{"request_time": -1})
