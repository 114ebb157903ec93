package models

import "time"

// UsageRecord is one answered query in the usage ledger.
type UsageRecord struct {
	ID        string     `json:"id"`
	Question  string     `json:"question"`
	Mode      string     `json:"mode"`
	Tokens    UsageStats `json:"tokens"`
	Cost      float64    `json:"cost"`
	CreatedAt time.Time  `json:"created_at"`
}
