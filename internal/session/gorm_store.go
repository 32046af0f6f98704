package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/simp-lee/posadmin/internal/config"
	"github.com/simp-lee/posadmin/internal/domain"
)

// Record is the persisted token of one profile.
type Record struct {
	domain.BaseModel
	Profile string `gorm:"size:64;uniqueIndex;not null"`
	Token   string `gorm:"type:text;not null"`
}

// TableName overrides the default table name.
func (Record) TableName() string {
	return "sessions"
}

// GormStore persists tokens in a SQL database, one row per profile.
type GormStore struct {
	db      *gorm.DB
	profile string
}

// NewGormStore migrates the sessions table and returns a store for profile.
func NewGormStore(db *gorm.DB, profile string) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if profile == "" {
		return nil, errors.New("profile is empty")
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate sessions table: %w", err)
	}
	return &GormStore{db: db, profile: profile}, nil
}

func (g *GormStore) Load(ctx context.Context) (string, error) {
	var rec Record
	err := g.db.WithContext(ctx).Where("profile = ?", g.profile).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.Token, nil
}

func (g *GormStore) Save(ctx context.Context, token string) error {
	return withTx(ctx, g.db, func(tx *gorm.DB) error {
		var rec Record
		err := tx.Where("profile = ?", g.profile).First(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&Record{Profile: g.profile, Token: token}).Error
		case err != nil:
			return err
		}
		return tx.Model(&rec).Update("token", token).Error
	})
}

func (g *GormStore) Delete(ctx context.Context) error {
	return g.db.WithContext(ctx).Where("profile = ?", g.profile).Delete(&Record{}).Error
}

// withTx executes fn within a database transaction.
// It commits on success, rolls back on error or panic.
func withTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// Open builds the Store selected by cfg. The returned close function releases
// the database connection, if any.
func Open(cfg *config.SessionConfig, logger *slog.Logger) (Store, func() error, error) {
	if cfg == nil {
		return nil, nil, errors.New("session config is nil")
	}
	if cfg.Driver == "memory" {
		return NewMemoryStore(), func() error { return nil }, nil
	}

	db, err := config.OpenSessionDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	store, err := NewGormStore(db, cfg.Profile)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return store, sqlDB.Close, nil
}
