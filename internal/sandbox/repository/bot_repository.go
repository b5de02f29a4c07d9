package repository

import (
	"github.com/mehrbod2002/fxmobile/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BotRepository interface {
	SavePlan(plan *models.BotPlan) error
	GetPlanByID(id string) (*models.BotPlan, error)
	GetAllPlans() ([]models.BotPlan, error)
	GetStatuses(userID string) ([]models.BotStatus, error)
	SetStatus(userID string, status models.BotStatus) error
	SaveRequest(request *models.BotSwitchRequest) error
	GetRequestByID(id string) (*models.BotSwitchRequest, error)
	GetPendingRequests() ([]*models.BotSwitchRequest, error)
	UpdateRequest(request *models.BotSwitchRequest) error
}

// botStatusDoc keys a status by user and plan so SetStatus can upsert.
type botStatusDoc struct {
	ID     string              `bson:"_id"`
	UserID string              `bson:"user_id"`
	PlanID string              `bson:"plan_id"`
	Status models.BotRunStatus `bson:"status"`
}

type MongoBotRepository struct {
	plans    store[models.BotPlan]
	statuses store[botStatusDoc]
	requests store[models.BotSwitchRequest]
}

func NewBotRepository(client *mongo.Client, dbName string) BotRepository {
	db := client.Database(dbName)
	return &MongoBotRepository{
		plans:    newStore[models.BotPlan](db, "bot_plans"),
		statuses: newStore[botStatusDoc](db, "bot_statuses"),
		requests: newStore[models.BotSwitchRequest](db, "bot_requests"),
	}
}

func (r *MongoBotRepository) SavePlan(plan *models.BotPlan) error {
	return r.plans.upsert(plan.ID, plan)
}

func (r *MongoBotRepository) GetPlanByID(id string) (*models.BotPlan, error) {
	return r.plans.byID(id)
}

// GetAllPlans orders plans from the cheapest tier up.
func (r *MongoBotRepository) GetAllPlans() ([]models.BotPlan, error) {
	plans, err := r.plans.all(bson.M{}, options.Find().SetSort(bson.M{"minimum_amount": 1}))
	if err != nil {
		return nil, err
	}
	return values(plans), nil
}

func (r *MongoBotRepository) GetStatuses(userID string) ([]models.BotStatus, error) {
	docs, err := r.statuses.all(bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	statuses := make([]models.BotStatus, 0, len(docs))
	for _, d := range docs {
		statuses = append(statuses, models.BotStatus{PlanID: d.PlanID, Status: d.Status})
	}
	return statuses, nil
}

func (r *MongoBotRepository) SetStatus(userID string, status models.BotStatus) error {
	id := userID + ":" + status.PlanID
	return r.statuses.upsert(id, botStatusDoc{ID: id, UserID: userID, PlanID: status.PlanID, Status: status.Status})
}

func (r *MongoBotRepository) SaveRequest(request *models.BotSwitchRequest) error {
	return r.requests.insert(request)
}

func (r *MongoBotRepository) GetRequestByID(id string) (*models.BotSwitchRequest, error) {
	return r.requests.byID(id)
}

func (r *MongoBotRepository) GetPendingRequests() ([]*models.BotSwitchRequest, error) {
	return r.requests.all(bson.M{"status": models.RequestPending}, options.Find().SetSort(bson.M{"created_at": 1}))
}

func (r *MongoBotRepository) UpdateRequest(request *models.BotSwitchRequest) error {
	return r.requests.set(request.ID, bson.M{
		"status":     request.Status,
		"admin_note": request.AdminNote,
		"updated_at": request.UpdatedAt,
	})
}
