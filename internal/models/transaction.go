package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusApproved TransactionStatus = "APPROVED"
	TransactionStatusRejected TransactionStatus = "REJECTED"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

type Transaction struct {
	ID              string            `bson:"_id" json:"id"`
	UserID          string            `bson:"user_id" json:"userId"`
	TransactionType TransactionType   `bson:"transaction_type" json:"transactionType"`
	Amount          decimal.Decimal   `bson:"amount" json:"amount"`
	Address         string            `bson:"address,omitempty" json:"address,omitempty"`
	AccountID       string            `bson:"account_id,omitempty" json:"accountId,omitempty"`
	Status          TransactionStatus `bson:"status" json:"status"`
	RequestTime     time.Time         `bson:"request_time" json:"requestTime"`
	ResponseTime    *time.Time        `bson:"response_time,omitempty" json:"responseTime,omitempty"`
	AdminNote       string            `bson:"admin_note,omitempty" json:"adminNote,omitempty"`
}
