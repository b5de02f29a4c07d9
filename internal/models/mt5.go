package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PlanType string

const (
	PlanTypeDemo PlanType = "DEMO"
	PlanTypeReal PlanType = "REAL"
)

// MT5Plan is an MT5 group a user can open an account in.
type MT5Plan struct {
	ID         string          `json:"id" bson:"_id"`
	Name       string          `json:"name" bson:"name"`
	Status     bool            `json:"status" bson:"status"`
	MinDeposit decimal.Decimal `json:"minDeposit" bson:"min_deposit"`
	Spread     string          `json:"spread" bson:"spread"`
	Commission string          `json:"commission" bson:"commission"`
	Type       PlanType        `json:"type" bson:"type"`
	Leverage   *int            `json:"leverage" bson:"leverage,omitempty"`
}

// Chip is the short label shown on a plan card.
func (p MT5Plan) Chip() string {
	if p.Leverage == nil {
		return fmt.Sprintf("%s | Flexible leverage", p.Type)
	}
	return fmt.Sprintf("%s | 1:%d", p.Type, *p.Leverage)
}

// SplitPlans separates plans into their DEMO and REAL subsets, keeping order.
func SplitPlans(plans []MT5Plan) (demo, real []MT5Plan) {
	for _, p := range plans {
		switch p.Type {
		case PlanTypeDemo:
			demo = append(demo, p)
		case PlanTypeReal:
			real = append(real, p)
		}
	}
	return demo, real
}

type MT5Account struct {
	ID          string          `json:"id" bson:"_id"`
	UserID      string          `json:"userId" bson:"user_id"`
	AccountType PlanType        `json:"accountType" bson:"account_type"`
	Login       string          `json:"login" bson:"login"`
	GroupID     string          `json:"groupId" bson:"group_id"`
	GroupName   string          `json:"groupName" bson:"group_name"`
	Balance     decimal.Decimal `json:"balance" bson:"balance"`
	Credit      decimal.Decimal `json:"credit" bson:"credit"`
	Leverage    int             `json:"leverage" bson:"leverage"`
	Equity      Equity          `json:"equity" bson:"equity"`
	CreatedAt   time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" bson:"updated_at"`
}

// Equity holds the account's equity change over reporting periods.
type Equity struct {
	Current decimal.Decimal `json:"current" bson:"current"`
	Daily   decimal.Decimal `json:"daily" bson:"daily"`
	Weekly  decimal.Decimal `json:"weekly" bson:"weekly"`
	Monthly decimal.Decimal `json:"monthly" bson:"monthly"`
}

// Page is the data section of paginated list responses.
type Page[T any] struct {
	List  []T `json:"list"`
	Total int `json:"total"`
	Page  int `json:"page"`
}
