package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/vibe-gaming/enrollment/internal/domain"
)

type registrationMemoryRepository struct {
	items *cache.Cache
	// serializes attach so the status check and the write are one step
	mu sync.Mutex
}

func newRegistrationMemoryRepository() *registrationMemoryRepository {
	return &registrationMemoryRepository{
		items: cache.New(cache.NoExpiration, 0),
	}
}

func (r *registrationMemoryRepository) Create(_ context.Context, registration *domain.Registration) error {
	if err := r.items.Add(registration.SessionID, cloneRegistration(registration), cache.NoExpiration); err != nil {
		return domain.ErrDuplicateEntry
	}

	return nil
}

func (r *registrationMemoryRepository) GetBySessionID(_ context.Context, sessionID string) (*domain.Registration, error) {
	v, ok := r.items.Get(sessionID)
	if !ok {
		return nil, domain.ErrNotFound
	}

	return cloneRegistration(v.(*domain.Registration)), nil
}

func (r *registrationMemoryRepository) ListByStatus(_ context.Context, status domain.RegistrationStatus, limit int) ([]domain.Registration, error) {
	res := make([]domain.Registration, 0)
	for _, item := range r.items.Items() {
		reg := item.Object.(*domain.Registration)
		if reg.Status == status {
			res = append(res, *cloneRegistration(reg))
		}
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].SessionID < res[j].SessionID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}

	return res, nil
}

func (r *registrationMemoryRepository) Attach(_ context.Context, sessionID string, externalRef string, deviceID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.items.Get(sessionID)
	if !ok {
		return domain.ErrNotFound
	}

	reg := cloneRegistration(v.(*domain.Registration))
	if !reg.Status.CanAttach() {
		return domain.ErrAlreadyAttached
	}

	reg.Status = domain.StatusActive
	reg.ExternalRef = &externalRef
	reg.DeviceID = &deviceID
	reg.AttachedAt = &at
	r.items.Set(sessionID, reg, cache.NoExpiration)

	return nil
}

func (r *registrationMemoryRepository) Ping(context.Context) error {
	return nil
}

func cloneRegistration(src *domain.Registration) *domain.Registration {
	dst := *src
	if src.ExternalRef != nil {
		v := *src.ExternalRef
		dst.ExternalRef = &v
	}
	if src.DeviceID != nil {
		v := *src.DeviceID
		dst.DeviceID = &v
	}
	if src.AttachedAt != nil {
		v := *src.AttachedAt
		dst.AttachedAt = &v
	}
	return &dst
}
