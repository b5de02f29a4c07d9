package repository

import (
	"fmt"

	"github.com/mehrbod2002/fxmobile/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	SaveUser(user *models.UserAccount) error
	GetUserByID(id string) (*models.UserAccount, error)
	// GetUserByLogin matches the identifier against email, user name and mobile.
	GetUserByLogin(identifier string) (*models.UserAccount, error)
	GetAllUsers() ([]*models.UserAccount, error)
	UpdateUser(user *models.UserAccount) error
}

type MongoUserRepository struct {
	users store[models.UserAccount]
}

func NewUserRepository(client *mongo.Client, dbName, collectionName string) UserRepository {
	return &MongoUserRepository{users: newStore[models.UserAccount](client.Database(dbName), collectionName)}
}

func (r *MongoUserRepository) SaveUser(user *models.UserAccount) error {
	return r.users.insert(user)
}

func (r *MongoUserRepository) GetUserByID(id string) (*models.UserAccount, error) {
	return r.users.byID(id)
}

func (r *MongoUserRepository) GetUserByLogin(identifier string) (*models.UserAccount, error) {
	if identifier == "" {
		return nil, nil
	}
	return r.users.one(bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"user_name": identifier},
		bson.M{"mobile": identifier},
	}})
}

func (r *MongoUserRepository) GetAllUsers() ([]*models.UserAccount, error) {
	return r.users.all(bson.M{}, options.Find().SetSort(bson.M{"created_at": 1}))
}

func (r *MongoUserRepository) UpdateUser(user *models.UserAccount) error {
	if err := r.users.replace(user.ID, user); err != nil {
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	return nil
}
