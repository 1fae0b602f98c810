package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vibe-gaming/enrollment/internal/domain"
)

// All keys share the {enrollment} hash tag so the record and its status index
// land in one cluster slot and move together inside a script.
const (
	registrationKeyPrefix = "{enrollment}:registration:"
	statusIndexKeyPrefix  = "{enrollment}:registrations:status:"

	fieldSessionID   = "session_id"
	fieldName        = "name"
	fieldEmail       = "email"
	fieldPhone       = "phone"
	fieldStatus      = "status"
	fieldTimestamp   = "timestamp"
	fieldExternalRef = "external_ref"
	fieldDeviceID    = "device_id"
	fieldAttachedAt  = "attached_at"
)

// createScript writes the hash and indexes it only when the key is absent.
// KEYS: record, status index. ARGV: score, session id, hash field/value pairs.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV, 3))
redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
return 1
`)

// attachScript completes an attachable record, moves it to the active index
// and returns its previous status, "" when the key is missing and "!" + status
// when it is not attachable.
// KEYS: record, pending index, waiting index, active index.
// ARGV: external ref, device id, attached at, score, session id.
var attachScript = redis.NewScript(`
local status = redis.call('HGET', KEYS[1], 'status')
if not status then
  return ''
end
if status ~= 'pending' and status ~= 'waiting_for_external_attachment' then
  return '!' .. status
end
redis.call('HSET', KEYS[1], 'status', 'active', 'external_ref', ARGV[1], 'device_id', ARGV[2], 'attached_at', ARGV[3])
if status == 'pending' then
  redis.call('ZREM', KEYS[2], ARGV[5])
else
  redis.call('ZREM', KEYS[3], ARGV[5])
end
redis.call('ZADD', KEYS[4], ARGV[4], ARGV[5])
return status
`)

type registrationRedisRepository struct {
	client redis.UniversalClient
}

func newRegistrationRedisRepository(client redis.UniversalClient) *registrationRedisRepository {
	return &registrationRedisRepository{
		client: client,
	}
}

func registrationKey(sessionID string) string {
	return registrationKeyPrefix + sessionID
}

func statusIndexKey(status domain.RegistrationStatus) string {
	return statusIndexKeyPrefix + string(status)
}

func (r *registrationRedisRepository) Create(ctx context.Context, registration *domain.Registration) error {
	const op = "repository.registration.redis.Create"

	args := []interface{}{
		registration.Timestamp(), registration.SessionID,
		fieldSessionID, registration.SessionID,
		fieldName, registration.Name,
		fieldEmail, registration.Email,
		fieldPhone, registration.Phone,
		fieldStatus, string(registration.Status),
		fieldTimestamp, registration.Timestamp(),
	}
	keys := []string{registrationKey(registration.SessionID), statusIndexKey(registration.Status)}

	created, err := createScript.Run(ctx, r.client, keys, args...).Int()
	if err != nil {
		return fmt.Errorf("%s: write registration failed: %w", op, err)
	}
	if created == 0 {
		return domain.ErrDuplicateEntry
	}

	return nil
}

func (r *registrationRedisRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Registration, error) {
	const op = "repository.registration.redis.GetBySessionID"

	fields, err := r.client.HGetAll(ctx, registrationKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: read registration failed: %w", op, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}

	registration, err := decodeRegistration(fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return registration, nil
}

func (r *registrationRedisRepository) ListByStatus(ctx context.Context, status domain.RegistrationStatus, limit int) ([]domain.Registration, error) {
	const op = "repository.registration.redis.ListByStatus"

	ids, err := r.client.ZRange(ctx, statusIndexKey(status), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: read status index failed: %w", op, err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, registrationKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: read registrations failed: %w", op, err)
	}

	registrations := make([]domain.Registration, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		registration, err := decodeRegistration(fields)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		// guards against an index entry left behind by a record rewritten out of band
		if registration.Status != status {
			continue
		}
		registrations = append(registrations, *registration)
	}

	return registrations, nil
}

func (r *registrationRedisRepository) Attach(ctx context.Context, sessionID string, externalRef string, deviceID string, at time.Time) error {
	const op = "repository.registration.redis.Attach"

	keys := []string{
		registrationKey(sessionID),
		statusIndexKey(domain.StatusPending),
		statusIndexKey(domain.StatusWaitingForExternalAttachment),
		statusIndexKey(domain.StatusActive),
	}

	prev, err := attachScript.Run(ctx, r.client, keys,
		externalRef, deviceID, at.UTC().Format(time.RFC3339Nano), at.UnixMilli(), sessionID,
	).Text()
	if err != nil {
		return fmt.Errorf("%s: attach failed: %w", op, err)
	}

	switch {
	case prev == "":
		return domain.ErrNotFound
	case prev[0] == '!':
		return domain.ErrAlreadyAttached
	}

	return nil
}

func (r *registrationRedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func decodeRegistration(fields map[string]string) (*domain.Registration, error) {
	registration := &domain.Registration{
		SessionID: fields[fieldSessionID],
		Name:      fields[fieldName],
		Email:     fields[fieldEmail],
		Phone:     fields[fieldPhone],
		Status:    domain.RegistrationStatus(fields[fieldStatus]),
	}
	if !registration.Status.IsValid() {
		return nil, errors.New("registration hash has invalid status")
	}

	var ms int64
	if _, err := fmt.Sscan(fields[fieldTimestamp], &ms); err != nil {
		return nil, fmt.Errorf("parse timestamp failed: %w", err)
	}
	registration.CreatedAt = time.UnixMilli(ms).UTC()

	if v, ok := fields[fieldExternalRef]; ok {
		registration.ExternalRef = &v
	}
	if v, ok := fields[fieldDeviceID]; ok {
		registration.DeviceID = &v
	}
	if v, ok := fields[fieldAttachedAt]; ok {
		at, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("parse attached_at failed: %w", err)
		}
		registration.AttachedAt = &at
	}

	return registration, nil
}
