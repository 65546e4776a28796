package db

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Ramcharan1706/BlockEstate/internal/config"
)

var errDBUnavailable = errors.New("db unavailable")

type Store struct {
	DB *gorm.DB
}

// NewStore connects to Postgres when a DSN is configured. Without one the
// process runs with in-memory run tracking only.
func NewStore(cfg config.Config) (*Store, error) {
	if cfg.PostgresDSN == "" {
		log.Printf("POSTGRES_DSN not set; run outcomes will not be persisted")
		return &Store{DB: nil}, nil
	}

	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := gdb.AutoMigrate(&TransferRunModel{}, &DocumentOutcomeModel{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{DB: gdb}, nil
}
