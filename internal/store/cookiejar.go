// Package store persists the client-side cookie jar.
// It initializes GORM with SQLite and keeps one row per cookie name.
package store

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/RealityMoez/draw-a-ui/internal/config"
	"github.com/RealityMoez/draw-a-ui/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CookieJar is a persistent name → value cookie store.
type CookieJar struct {
	db *gorm.DB
}

// Open opens the jar database and runs AutoMigrate.
func Open(cfg *config.Config) (*CookieJar, error) {
	var dialector gorm.Dialector
	switch cfg.CookieDBDriver {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.CookieDBPath)
	default:
		return nil, fmt.Errorf("unsupported cookie_db_driver %q (use 'sqlite')", cfg.CookieDBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening cookie jar: %w", err)
	}

	if err := db.AutoMigrate(&models.Cookie{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	log.Printf("[jar] opened %s/%s", cfg.CookieDBDriver, cfg.CookieDBPath)
	return &CookieJar{db: db}, nil
}

// Close releases the underlying connection pool.
func (j *CookieJar) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get returns the cookie value, or "" when it was never set or was cleared.
func (j *CookieJar) Get(name string) (string, error) {
	var c models.Cookie
	err := j.db.Where("name = ?", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading cookie %s: %w", name, err)
	}
	return c.Value, nil
}

// Set creates or updates a cookie.
func (j *CookieJar) Set(name, value string) error {
	var c models.Cookie
	result := j.db.Where("name = ?", name).First(&c)

	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		c = models.Cookie{Name: name, Value: value, Path: "/"}
		if err := j.db.Create(&c).Error; err != nil {
			return fmt.Errorf("creating cookie %s: %w", name, err)
		}
	case result.Error != nil:
		return fmt.Errorf("reading cookie %s: %w", name, result.Error)
	default:
		// Update with a map so an empty value is written, not skipped.
		if err := j.db.Model(&c).Updates(map[string]any{"value": value}).Error; err != nil {
			return fmt.Errorf("updating cookie %s: %w", name, err)
		}
	}
	return nil
}

// Clear sets the cookie to the empty string.
func (j *CookieJar) Clear(name string) error {
	return j.Set(name, "")
}

// Header renders the jar as a raw Cookie request header, skipping empty
// values, ordered by name.
func (j *CookieJar) Header() (string, error) {
	var cookies []models.Cookie
	if err := j.db.Where("value <> ?", "").Order("name").Find(&cookies).Error; err != nil {
		return "", fmt.Errorf("listing cookies: %w", err)
	}
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; "), nil
}
