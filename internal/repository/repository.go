package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vibe-gaming/enrollment/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
	StoreRedis  = "redis"
	StoreDevice = "device"
)

type Repositories struct {
	Registrations Registrations
}

// Deps carries the connections of every backend; only the one selected by
// the store type has to be set.
type Deps struct {
	DB         *sqlx.DB
	Redis      redis.UniversalClient
	HTTPClient *http.Client
	DeviceURL  string
}

func NewRepositories(storeType string, deps Deps) (*Repositories, error) {
	var registrations Registrations

	switch storeType {
	case StoreMemory:
		registrations = newRegistrationMemoryRepository()
	case StoreMySQL:
		if deps.DB == nil {
			return nil, errors.New("mysql store requires a db connection")
		}
		registrations = newRegistrationMySQLRepository(deps.DB)
	case StoreRedis:
		if deps.Redis == nil {
			return nil, errors.New("redis store requires a redis client")
		}
		registrations = newRegistrationRedisRepository(deps.Redis)
	case StoreDevice:
		if deps.DeviceURL == "" {
			return nil, errors.New("device store requires a device url")
		}
		registrations = newRegistrationDeviceRepository(deps.HTTPClient, deps.DeviceURL)
	default:
		return nil, fmt.Errorf("unknown store type %q", storeType)
	}

	return &Repositories{Registrations: registrations}, nil
}

// Registrations is the key-value view of the backing store. Records are keyed
// by session id and never deleted.
type Registrations interface {
	// Create stores r only if no record with the same session id exists.
	Create(ctx context.Context, r *domain.Registration) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Registration, error)
	// ListByStatus returns up to limit records in status, oldest first.
	ListByStatus(ctx context.Context, status domain.RegistrationStatus, limit int) ([]domain.Registration, error)
	// Attach sets the external reference and moves the record to active.
	// It fails with domain.ErrNotFound or domain.ErrAlreadyAttached without writing.
	Attach(ctx context.Context, sessionID string, externalRef string, deviceID string, at time.Time) error
	Ping(ctx context.Context) error
}
