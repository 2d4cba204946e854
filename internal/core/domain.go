package core

import (
	"strings"
	"time"
)

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountWallet     AccountType = "wallet"
)

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

const (
	StatusPending   TransactionStatus = "pending"
	StatusConfirmed TransactionStatus = "confirmed"
)

type (
	AccountType       string
	CategoryKind      string
	TransactionType   string
	TransactionStatus string

	Account struct {
		ID             string      `json:"id"`
		Name           string      `json:"name"`
		Type           AccountType `json:"type"`
		Bank           string      `json:"bank,omitempty"`
		InitialBalance Money       `json:"initialBalance"`
		CurrentBalance Money       `json:"currentBalance"`
		Color          string      `json:"color,omitempty"`
		Icon           string      `json:"icon,omitempty"`
		IsActive       bool        `json:"isActive"`
		CreatedAt      time.Time   `json:"createdAt"`
		UpdatedAt      time.Time   `json:"updatedAt"`

		// TransactionCount is populated on list reads only.
		TransactionCount int `json:"transactionCount,omitempty"`
	}

	Category struct {
		ID        string       `json:"id"`
		Name      string       `json:"name"`
		Kind      CategoryKind `json:"type"`
		Icon      string       `json:"icon,omitempty"`
		Color     string       `json:"color,omitempty"`
		IsActive  bool         `json:"isActive"`
		CreatedAt time.Time    `json:"createdAt"`
		UpdatedAt time.Time    `json:"updatedAt"`

		// TransactionCount is populated on list reads only.
		TransactionCount int `json:"transactionCount,omitempty"`
	}

	Transaction struct {
		ID          string            `json:"id"`
		Type        TransactionType   `json:"type"`
		Amount      Money             `json:"amount"`
		Date        Date              `json:"date"`
		Description string            `json:"description"`
		AccountID   string            `json:"accountId"`
		CategoryID  string            `json:"categoryId"`
		Status      TransactionStatus `json:"status"`
		Notes       string            `json:"notes,omitempty"`
		CreatedAt   time.Time         `json:"createdAt"`
		UpdatedAt   time.Time         `json:"updatedAt"`

		// Attached relations, populated on reads.
		Account  *Account  `json:"account,omitempty"`
		Category *Category `json:"category,omitempty"`
	}
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountInvestment, AccountWallet:
		return true
	}
	return false
}

func (k CategoryKind) Valid() bool {
	return k == CategoryIncome || k == CategoryExpense
}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionTransfer:
		return true
	}
	return false
}

func (s TransactionStatus) Valid() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return Validation("account name is required")
	}
	if !a.Type.Valid() {
		return Validation("invalid account type")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Validation("category name is required")
	}
	if !c.Kind.Valid() {
		return Validation("invalid category type")
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return Validation("invalid transaction type")
	}
	if t.Amount.Cents <= 0 {
		return Validation("amount must be positive")
	}
	if t.Date.IsZero() {
		return Validation("date is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return Validation("description is required")
	}
	if t.AccountID == "" {
		return Validation("accountId is required")
	}
	if t.CategoryID == "" {
		return Validation("categoryId is required")
	}
	if !t.Status.Valid() {
		return Validation("invalid transaction status")
	}
	return nil
}
