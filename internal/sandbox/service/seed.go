package service

import (
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/shopspring/decimal"
)

func leverage(n int) *int { return &n }

// DefaultMT5Plans are the groups a fresh sandbox offers.
func DefaultMT5Plans() []models.MT5Plan {
	return []models.MT5Plan{
		{ID: "demo-standard", Name: "Standard", Status: true, MinDeposit: decimal.Zero, Spread: "1.2", Commission: "0", Type: models.PlanTypeDemo, Leverage: leverage(100)},
		{ID: "demo-flex", Name: "Flex", Status: true, MinDeposit: decimal.Zero, Spread: "1.0", Commission: "0", Type: models.PlanTypeDemo},
		{ID: "real-standard", Name: "Standard", Status: true, MinDeposit: decimal.NewFromInt(10), Spread: "1.2", Commission: "0", Type: models.PlanTypeReal, Leverage: leverage(100)},
		{ID: "real-pro", Name: "Pro", Status: true, MinDeposit: decimal.NewFromInt(500), Spread: "0.2", Commission: "3.5", Type: models.PlanTypeReal, Leverage: leverage(500)},
		{ID: "real-flex", Name: "Flex", Status: true, MinDeposit: decimal.NewFromInt(100), Spread: "0.8", Commission: "1", Type: models.PlanTypeReal},
	}
}

func DefaultBotPlans() []models.BotPlan {
	return []models.BotPlan{
		{ID: "starter", Name: "Starter", MinimumAmount: decimal.NewFromInt(100), ROI: "4%", Duration: "30 days"},
		{ID: "growth", Name: "Growth", MinimumAmount: decimal.NewFromInt(1000), ROI: "7%", Duration: "60 days"},
		{ID: "premium", Name: "Premium", MinimumAmount: decimal.NewFromInt(5000), ROI: "12%", Duration: "90 days"},
	}
}
