package payout

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordPayoutRequest is submitted by an admin after money has been sent to the artisan.
type RecordPayoutRequest struct {
	ArtisanID            string          `json:"artisanId" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	OrderIDs             []string        `json:"orderIds" binding:"required,min=1"`
	TransactionReference string          `json:"transactionReference"`
}

// SummaryResponse lists what every artisan is currently owed.
type SummaryResponse struct {
	CommissionRate decimal.Decimal `json:"commissionRate"`
	Currency       string          `json:"currency"`
	Rows           []SummaryRow    `json:"rows"`
}

// SummaryRow 单个卖家的待结算汇总。
type SummaryRow struct {
	ArtisanID   string              `json:"artisanId"`
	ArtisanName string              `json:"artisanName,omitempty"`
	TotalSales  decimal.Decimal     `json:"totalSales"`
	Commission  decimal.Decimal     `json:"commission"`
	NetPayable  decimal.Decimal     `json:"netPayable"`
	OrderCount  int                 `json:"orderCount"`
	OrderIDs    []string            `json:"orderIds"`
	PayoutInfo  *PayoutInfoResponse `json:"payoutInfo"`
}

// PayoutInfoResponse 卖家收款信息。
type PayoutInfoResponse struct {
	AccountHolderName string `json:"accountHolderName,omitempty"`
	AccountNumber     string `json:"accountNumber,omitempty"`
	BankName          string `json:"bankName,omitempty"`
	IFSCCode          string `json:"ifscCode,omitempty"`
	UPIID             string `json:"upiId,omitempty"`
}

// PayoutResponse 结算记录返回模型。
type PayoutResponse struct {
	ID                   string          `json:"id"`
	AdminID              string          `json:"adminId"`
	ArtisanID            string          `json:"artisanId"`
	OrderIDs             []string        `json:"orderIds"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	Status               string          `json:"status"`
	TransactionReference string          `json:"transactionReference,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}
