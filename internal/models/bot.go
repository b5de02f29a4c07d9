package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BotPlan is an investment plan whose trading bot a user can run.
type BotPlan struct {
	ID            string          `json:"id" bson:"_id"`
	Name          string          `json:"name" bson:"name"`
	MinimumAmount decimal.Decimal `json:"minimumAmount" bson:"minimum_amount"`
	ROI           string          `json:"roi" bson:"roi"`
	Duration      string          `json:"duration" bson:"duration"`
}

type BotRunStatus string

const (
	BotStopped         BotRunStatus = "STOPPED"
	BotRunning         BotRunStatus = "RUNNING"
	BotPendingApproval BotRunStatus = "PENDING_APPROVAL"
)

// BotStatus reports the run status of one plan's bot for the current user.
type BotStatus struct {
	PlanID string       `json:"planId" bson:"plan_id"`
	Status BotRunStatus `json:"status" bson:"status"`
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestDenied   RequestStatus = "DENIED"
)

// BotSwitchRequest asks an admin to move the user's running bot to another plan.
type BotSwitchRequest struct {
	ID         string        `json:"id" bson:"_id"`
	UserID     string        `json:"userId" bson:"user_id"`
	FromPlanID string        `json:"fromPlanId" bson:"from_plan_id"`
	ToPlanID   string        `json:"toPlanId" bson:"to_plan_id"`
	Status     RequestStatus `json:"status" bson:"status"`
	AdminNote  string        `json:"adminNote,omitempty" bson:"admin_note,omitempty"`
	CreatedAt  time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time     `json:"updatedAt" bson:"updated_at"`
}

// BotOverview is the bot plan list together with the user's run statuses.
type BotOverview struct {
	Plans    []BotPlan   `json:"plans"`
	Statuses []BotStatus `json:"statuses"`
}
