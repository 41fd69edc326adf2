// Package domain holds DTOs for quality http and service contracts
package domain

import "starforge/internal/core/report"

// IssuesInput filters the invalid staged rows
type IssuesInput struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,min=1,max=200" example:"Cancelled order"`
	Limit  int    `json:"limit" validate:"required,min=1,max=500" example:"100"`
}

// ListInput bounds the list endpoints, read from the query string
type ListInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"20"`
}

// Summary is the data quality picture of the warehouse as it stands
type Summary struct {
	Run         *Run           `json:"run,omitempty"`
	Staged      int            `json:"staged" example:"541909"`
	Valid       int            `json:"valid" example:"530104"`
	Invalid     int            `json:"invalid" example:"11805"`
	SuccessRate float64        `json:"success_rate" example:"97.82"`
	Issues      []report.Issue `json:"issues"`
	Delta       int            `json:"delta" example:"0"`
}

// Run is one refresh run log row
type Run struct {
	ID         string  `json:"run_id" example:"4b8d5c2e-8f5e-4e5c-9a55-0c1f0b8f3e21"`
	State      string  `json:"state" example:"DONE"`
	Source     string  `json:"source" example:"online_retail.csv"`
	StartedAt  string  `json:"started_at" example:"2025-09-03T13:00:00Z"`
	FinishedAt *string `json:"finished_at,omitempty" example:"2025-09-03T13:02:11Z"`
	Raw        int     `json:"raw"`
	Skipped    int     `json:"skipped"`
	Staged     int     `json:"staged"`
	Valid      int     `json:"valid"`
	Customers  int     `json:"customers"`
	Products   int     `json:"products"`
	Dates      int     `json:"dates"`
	Countries  int     `json:"countries"`
	Facts      int     `json:"facts"`
	Rejected   int     `json:"rejected"`
	ElapsedMS  int64   `json:"elapsed_ms"`
	Error      string  `json:"error,omitempty"`
}

// InvalidRow is a staged row that failed validation
type InvalidRow struct {
	Position    int64    `json:"position" example:"42"`
	Source      string   `json:"source" example:"online_retail.csv"`
	InvoiceNo   string   `json:"invoice_no" example:"C536379"`
	StockCode   *string  `json:"stock_code,omitempty" example:"85123A"`
	CustomerID  *string  `json:"customer_id,omitempty" example:"17850"`
	Quantity    *int64   `json:"quantity,omitempty" example:"-1"`
	UnitPrice   *string  `json:"unit_price,omitempty" example:"2.55"`
	InvoiceDate *string  `json:"invoice_date,omitempty" example:"2010-12-01T08:26:00Z"`
	Issues      []string `json:"issues"`
}

// Rejection is a valid staged row that did not become a fact
type Rejection struct {
	Position    int64    `json:"position" example:"7"`
	InvoiceNo   string   `json:"invoice_no" example:"536365"`
	StockCode   *string  `json:"stock_code,omitempty" example:"85123A"`
	MissingKeys []string `json:"missing_keys" example:"product"`
	RunID       string   `json:"run_id,omitempty"`
	RejectedAt  string   `json:"rejected_at" example:"2025-09-03T13:02:10Z"`
}
