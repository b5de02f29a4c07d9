package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/repository"
)

// BotService runs at most one bot per user. Moving to another plan goes
// through a switch request an admin approves or denies.
type BotService interface {
	Overview(userID string) (models.BotOverview, error)
	Activate(userID, planID string) (models.BotStatus, error)
	RequestSwitch(userID, fromPlanID, toPlanID string) (*models.BotSwitchRequest, error)
	Stop(userID, planID string) (models.BotStatus, error)
	GetPendingRequests() ([]*models.BotSwitchRequest, error)
	ReviewRequest(id string, status models.RequestStatus, adminNote string) (*models.BotSwitchRequest, error)
	SeedPlans(plans []models.BotPlan) error
}

type botService struct {
	botRepo     repository.BotRepository
	userService UserService
	logService  LogService
	events      EventPublisher
	mu          sync.Mutex
}

func NewBotService(botRepo repository.BotRepository, userService UserService, logService LogService, events EventPublisher) BotService {
	return &botService{botRepo: botRepo, userService: userService, logService: logService, events: events}
}

func (s *botService) Overview(userID string) (models.BotOverview, error) {
	plans, err := s.botRepo.GetAllPlans()
	if err != nil {
		return models.BotOverview{}, err
	}
	statuses, err := s.botRepo.GetStatuses(userID)
	if err != nil {
		return models.BotOverview{}, err
	}
	return models.BotOverview{Plans: plans, Statuses: statuses}, nil
}

func (s *botService) statusMap(userID string) (map[string]models.BotRunStatus, error) {
	statuses, err := s.botRepo.GetStatuses(userID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]models.BotRunStatus, len(statuses))
	for _, st := range statuses {
		m[st.PlanID] = st.Status
	}
	return m, nil
}

func (s *botService) plan(id string) (*models.BotPlan, error) {
	plan, err := s.botRepo.GetPlanByID(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (s *botService) Activate(userID, planID string) (models.BotStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.plan(planID)
	if err != nil {
		return models.BotStatus{}, err
	}
	current, err := s.statusMap(userID)
	if err != nil {
		return models.BotStatus{}, err
	}
	for id, st := range current {
		if st != models.BotStopped && id != planID {
			return models.BotStatus{}, ErrAnotherBotRunning
		}
	}
	if current[planID] == models.BotRunning {
		return models.BotStatus{PlanID: planID, Status: models.BotRunning}, nil
	}

	user, err := s.userService.GetUser(userID)
	if err != nil {
		return models.BotStatus{}, err
	}
	if user.Balance.LessThan(plan.MinimumAmount) {
		return models.BotStatus{}, ErrInsufficientBalance
	}

	status := models.BotStatus{PlanID: planID, Status: models.BotRunning}
	if err := s.set(userID, status); err != nil {
		return models.BotStatus{}, err
	}
	s.audit(userID, "ActivateBot", "Bot activated", map[string]interface{}{"plan_id": planID})
	return status, nil
}

func (s *botService) RequestSwitch(userID, fromPlanID, toPlanID string) (*models.BotSwitchRequest, error) {
	if fromPlanID == toPlanID {
		return nil, fmt.Errorf("cannot switch to the running plan: %w", ErrInvalidStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	to, err := s.plan(toPlanID)
	if err != nil {
		return nil, err
	}
	current, err := s.statusMap(userID)
	if err != nil {
		return nil, err
	}
	if current[fromPlanID] != models.BotRunning {
		return nil, ErrBotNotRunning
	}
	for _, st := range current {
		if st == models.BotPendingApproval {
			return nil, ErrSwitchPending
		}
	}

	user, err := s.userService.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.Balance.LessThan(to.MinimumAmount) {
		return nil, ErrInsufficientBalance
	}

	now := time.Now()
	request := &models.BotSwitchRequest{
		ID:         uuid.New().String(),
		UserID:     userID,
		FromPlanID: fromPlanID,
		ToPlanID:   toPlanID,
		Status:     models.RequestPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.botRepo.SaveRequest(request); err != nil {
		return nil, err
	}
	if err := s.set(userID, models.BotStatus{PlanID: toPlanID, Status: models.BotPendingApproval}); err != nil {
		return nil, err
	}

	s.audit(userID, "RequestBotSwitch", "Bot switch requested", map[string]interface{}{
		"request_id":   request.ID,
		"from_plan_id": fromPlanID,
		"to_plan_id":   toPlanID,
	})
	return request, nil
}

func (s *botService) Stop(userID, planID string) (models.BotStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.statusMap(userID)
	if err != nil {
		return models.BotStatus{}, err
	}
	if current[planID] != models.BotRunning {
		return models.BotStatus{}, ErrBotNotRunning
	}

	status := models.BotStatus{PlanID: planID, Status: models.BotStopped}
	if err := s.set(userID, status); err != nil {
		return models.BotStatus{}, err
	}
	s.audit(userID, "StopBot", "Bot stopped", map[string]interface{}{"plan_id": planID})
	return status, nil
}

func (s *botService) GetPendingRequests() ([]*models.BotSwitchRequest, error) {
	return s.botRepo.GetPendingRequests()
}

func (s *botService) ReviewRequest(id string, status models.RequestStatus, adminNote string) (*models.BotSwitchRequest, error) {
	if status != models.RequestApproved && status != models.RequestDenied {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.botRepo.GetRequestByID(id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	if request.Status != models.RequestPending {
		return nil, ErrAlreadyReviewed
	}

	request.Status = status
	request.AdminNote = adminNote
	request.UpdatedAt = time.Now()
	if err := s.botRepo.UpdateRequest(request); err != nil {
		return nil, err
	}

	if status == models.RequestApproved {
		if err := s.set(request.UserID, models.BotStatus{PlanID: request.FromPlanID, Status: models.BotStopped}); err != nil {
			return nil, err
		}
		if err := s.set(request.UserID, models.BotStatus{PlanID: request.ToPlanID, Status: models.BotRunning}); err != nil {
			return nil, err
		}
	} else if err := s.set(request.UserID, models.BotStatus{PlanID: request.ToPlanID, Status: models.BotStopped}); err != nil {
		return nil, err
	}

	s.audit(request.UserID, "ReviewBotSwitch", "Bot switch reviewed", map[string]interface{}{
		"request_id": id,
		"status":     status,
		"admin_note": adminNote,
	})
	return request, nil
}

func (s *botService) SeedPlans(plans []models.BotPlan) error {
	for i := range plans {
		if err := s.botRepo.SavePlan(&plans[i]); err != nil {
			return fmt.Errorf("seed bot plan %s: %w", plans[i].ID, err)
		}
	}
	return nil
}

// set stores the status and pushes it to the user's connections.
func (s *botService) set(userID string, status models.BotStatus) error {
	if err := s.botRepo.SetStatus(userID, status); err != nil {
		return err
	}
	if s.events != nil {
		if err := s.events.Publish(userID, models.EventBot, status); err != nil {
			log.Printf("Failed to publish bot event: %v", err)
		}
	}
	return nil
}

func (s *botService) audit(userID, action, description string, metadata map[string]interface{}) {
	if err := s.logService.LogAction(userID, action, description, "", metadata); err != nil {
		log.Printf("error: %v", err)
	}
}
