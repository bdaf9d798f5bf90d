package models

import (
	"strings"
	"time"
)

// Operation types shared by supply and bovine operations.
const (
	OperationBuy  = "buy"
	OperationSell = "sell"
)

// Activity carries the fields common to every activity record.
type Activity struct {
	ID                string    `json:"id,omitempty"`
	Name              string    `json:"name,omitempty"`
	Type              string    `json:"type,omitempty"`
	Description       string    `json:"description,omitempty"`
	ExecutionDate     Timestamp `json:"executionDate"`
	EstablishmentCuig string    `json:"establishmentCuig,omitempty"`
	WorkerUserName    string    `json:"workerUserName,omitempty"`
}

// ExecutionYear returns the year the activity was executed in loc.
func (a Activity) ExecutionYear(loc *time.Location) int {
	return a.ExecutionDate.YearIn(loc)
}

// Weighing is a weight measure in kilograms.
type Weighing struct {
	Activity
	Weight      *int64 `json:"weight"`
	Category    string `json:"category,omitempty"`
	DentalNotes string `json:"dentalNotes,omitempty"`
	BovineTag   string `json:"bovineTag,omitempty"`
}

// WeightSafely returns the weight, or zero when none was recorded.
func (w Weighing) WeightSafely() int64 {
	if w.Weight == nil {
		return 0
	}
	return *w.Weight
}

// Feeding records an amount of food given to a bovine.
type Feeding struct {
	Activity
	Food      string `json:"food,omitempty"`
	Amount    *int64 `json:"amount"`
	BovineTag string `json:"bovineTag,omitempty"`
}

// AmountSafely returns the amount of food, or zero when none was recorded.
func (f Feeding) AmountSafely() int64 {
	if f.Amount == nil {
		return 0
	}
	return *f.Amount
}

// Ultrasound records a pregnancy check.
type Ultrasound struct {
	Activity
	ServiceNumber string `json:"serviceNumber,omitempty"`
	Result        string `json:"result,omitempty"`
	BovineTag     string `json:"bovineTag,omitempty"`
}

// HasResult reports whether a non-blank result was recorded.
func (u Ultrasound) HasResult() bool {
	return strings.TrimSpace(u.Result) != ""
}

// IsPositive reports whether the result confirms a pregnancy.
func (u Ultrasound) IsPositive() bool {
	return strings.EqualFold(u.Result, "positivo") || strings.EqualFold(u.Result, "positive")
}

// Bovine is an animal registered in the bovine service.
type Bovine struct {
	Tag               string    `json:"tag"`
	Description       string    `json:"description,omitempty"`
	Genre             string    `json:"genre,omitempty"`
	Category          string    `json:"category,omitempty"`
	Status            string    `json:"status,omitempty"`
	EstablishmentCuig string    `json:"establishmentCuig,omitempty"`
	TaggingDate       Timestamp `json:"taggingDate"`
}

// TaggingYear returns the year the bovine was tagged in loc.
func (b Bovine) TaggingYear(loc *time.Location) int {
	return b.TaggingDate.YearIn(loc)
}

// Batch groups bovines under a name.
type Batch struct {
	BatchName         string   `json:"batchName"`
	EstablishmentCuig string   `json:"establishmentCuig,omitempty"`
	Description       string   `json:"description,omitempty"`
	BovineTags        []string `json:"bovineTags"`
}

// Illness is one disease episode of a bovine.
type Illness struct {
	ID                string     `json:"id,omitempty"`
	BovineTag         string     `json:"bovineTag,omitempty"`
	DiseaseName       string     `json:"diseaseName"`
	StartingDate      Timestamp  `json:"startingDate"`
	EndingDate        *Timestamp `json:"endingDate,omitempty"`
	EstablishmentCuig string     `json:"establishmentCuig,omitempty"`
	WorkerUserName    string     `json:"workerUserName,omitempty"`
}

// StartingYear returns the year the illness started in loc.
func (i Illness) StartingYear(loc *time.Location) int {
	return i.StartingDate.YearIn(loc)
}

// Supply is a purchasable good with a unit price.
type Supply struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Units             string `json:"units,omitempty"`
	Price             int64  `json:"price"`
	EstablishmentCuig string `json:"establishmentCuig,omitempty"`
}

// SupplyOperation is a purchase or sale of some amount of a supply.
type SupplyOperation struct {
	ID                string    `json:"id,omitempty"`
	SupplyName        string    `json:"supplyName"`
	Amount            int64     `json:"amount"`
	OperationType     string    `json:"operationType"`
	Description       string    `json:"description,omitempty"`
	EstablishmentCuig string    `json:"establishmentCuig,omitempty"`
	OperatorUserName  string    `json:"operatorUserName,omitempty"`
	TransactionDate   Timestamp `json:"transactionDate"`
}

// TransactionYear returns the year of the transaction in loc.
func (o SupplyOperation) TransactionYear(loc *time.Location) int {
	return o.TransactionDate.YearIn(loc)
}

// IsBuy reports whether the operation is a purchase.
func (o SupplyOperation) IsBuy() bool {
	return strings.EqualFold(o.OperationType, OperationBuy)
}

// BovineOperation is the purchase or sale of one bovine for an amount of money.
type BovineOperation struct {
	ID                string    `json:"id,omitempty"`
	BovineTag         string    `json:"bovineTag"`
	Amount            int64     `json:"amount"`
	OperationType     string    `json:"operationType"`
	Description       string    `json:"description,omitempty"`
	SellerName        string    `json:"sellerName,omitempty"`
	BuyerName         string    `json:"buyerName,omitempty"`
	EstablishmentCuig string    `json:"establishmentCuig,omitempty"`
	OperatorUserName  string    `json:"operatorUserName,omitempty"`
	TransactionDate   Timestamp `json:"transactionDate"`
}

// TransactionYear returns the year of the transaction in loc.
func (o BovineOperation) TransactionYear(loc *time.Location) int {
	return o.TransactionDate.YearIn(loc)
}

// IsBuy reports whether the bovine was bought.
func (o BovineOperation) IsBuy() bool {
	return strings.EqualFold(o.OperationType, OperationBuy)
}

// IsSell reports whether the bovine was sold.
func (o BovineOperation) IsSell() bool {
	return strings.EqualFold(o.OperationType, OperationSell)
}
