package db

import "time"

type TransferRunModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	Status        string `gorm:"not null"`
	ErrorCode     *string
	DocumentCount int       `gorm:"not null"`
	StartedAt     time.Time `gorm:"not null"`
	FinishedAt    *time.Time
}

func (TransferRunModel) TableName() string {
	return "transfer_runs"
}

type DocumentOutcomeModel struct {
	ID            int64  `gorm:"primaryKey"`
	RunID         string `gorm:"type:uuid;index;not null"`
	DocumentHash  string `gorm:"index;not null"`
	Status        string `gorm:"not null"`
	ErrorCode     *string
	AssetTxID     *string `gorm:"column:asset_tx_id"`
	AssetRound    *int64
	TransferTxID  *string `gorm:"column:transfer_tx_id"`
	TransferRound *int64
	CreatedAt     time.Time `gorm:"not null"`
}

func (DocumentOutcomeModel) TableName() string {
	return "document_outcomes"
}
