package repository

import (
	"github.com/mehrbod2002/fxmobile/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LogRepository interface {
	SaveLog(entry *models.LogEntry) error
	GetAllLogs(page, limit int) ([]*models.LogEntry, error)
	GetLogsByUserID(userID string, page, limit int) ([]*models.LogEntry, error)
}

// MongoLogRepository is an append-only audit trail.
type MongoLogRepository struct {
	audit store[models.LogEntry]
}

func NewLogRepository(client *mongo.Client, dbName, collectionName string) LogRepository {
	return &MongoLogRepository{audit: newStore[models.LogEntry](client.Database(dbName), collectionName)}
}

func (r *MongoLogRepository) SaveLog(entry *models.LogEntry) error {
	return r.audit.insert(entry)
}

func (r *MongoLogRepository) GetAllLogs(page, limit int) ([]*models.LogEntry, error) {
	return r.audit.all(bson.M{}, latest(page, limit))
}

func (r *MongoLogRepository) GetLogsByUserID(userID string, page, limit int) ([]*models.LogEntry, error) {
	return r.audit.all(bson.M{"user_id": userID}, latest(page, limit))
}

func latest(page, limit int) *options.FindOptions {
	return pageOptions(bson.M{"timestamp": -1}, page, limit)
}
