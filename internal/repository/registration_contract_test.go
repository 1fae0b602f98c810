package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/vibe-gaming/enrollment/internal/domain"
)

// RegistrationsSuite exercises the Registrations contract. Each backend test
// embeds it and provides newRepo.
type RegistrationsSuite struct {
	suite.Suite
	newRepo func() Registrations
	// reset clears shared backends between tests
	reset func()
	repo  Registrations
	ctx   context.Context
	base  time.Time
}

func (s *RegistrationsSuite) SetupTest() {
	if s.reset != nil {
		s.reset()
	}
	s.repo = s.newRepo()
	s.ctx = context.Background()
	s.base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RegistrationsSuite) newRegistration(offset time.Duration, status domain.RegistrationStatus) *domain.Registration {
	return &domain.Registration{
		SessionID: uuid.NewString(),
		Name:      "Ana",
		Email:     "ana@example.com",
		Phone:     "",
		Status:    status,
		CreatedAt: s.base.Add(offset),
	}
}

func (s *RegistrationsSuite) TestCreateAndGet() {
	s.Run("stores and finds record by session id", func() {
		reg := s.newRegistration(0, domain.StatusWaitingForExternalAttachment)
		s.Require().NoError(s.repo.Create(s.ctx, reg))

		found, err := s.repo.GetBySessionID(s.ctx, reg.SessionID)
		s.Require().NoError(err)
		s.Equal(reg.SessionID, found.SessionID)
		s.Equal("Ana", found.Name)
		s.Equal("ana@example.com", found.Email)
		s.Equal("", found.Phone)
		s.Equal(domain.StatusWaitingForExternalAttachment, found.Status)
		s.Equal(reg.Timestamp(), found.Timestamp())
		s.Nil(found.ExternalRef)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.repo.GetBySessionID(s.ctx, uuid.NewString())
		s.Require().ErrorIs(err, domain.ErrNotFound)
	})

	s.Run("rejects second record with the same session id", func() {
		reg := s.newRegistration(0, domain.StatusPending)
		s.Require().NoError(s.repo.Create(s.ctx, reg))

		dup := *reg
		dup.Name = "Other"
		s.Require().ErrorIs(s.repo.Create(s.ctx, &dup), domain.ErrDuplicateEntry)

		found, err := s.repo.GetBySessionID(s.ctx, reg.SessionID)
		s.Require().NoError(err)
		s.Equal("Ana", found.Name)
	})
}

func (s *RegistrationsSuite) TestListByStatus() {
	waiting := make([]*domain.Registration, 0, 3)
	for i := 2; i >= 0; i-- {
		reg := s.newRegistration(time.Duration(i)*time.Second, domain.StatusWaitingForExternalAttachment)
		s.Require().NoError(s.repo.Create(s.ctx, reg))
		waiting = append([]*domain.Registration{reg}, waiting...)
	}
	s.Require().NoError(s.repo.Create(s.ctx, s.newRegistration(0, domain.StatusPending)))

	s.Run("filters by status oldest first", func() {
		list, err := s.repo.ListByStatus(s.ctx, domain.StatusWaitingForExternalAttachment, 10)
		s.Require().NoError(err)
		s.Require().Len(list, 3)
		for i, reg := range waiting {
			s.Equal(reg.SessionID, list[i].SessionID, fmt.Sprintf("position %d", i))
		}
	})

	s.Run("honours limit", func() {
		list, err := s.repo.ListByStatus(s.ctx, domain.StatusWaitingForExternalAttachment, 2)
		s.Require().NoError(err)
		s.Len(list, 2)
	})

	s.Run("attached records leave the waiting list", func() {
		s.Require().NoError(s.repo.Attach(s.ctx, waiting[0].SessionID, "fp-1", "scanner-01", s.base.Add(time.Minute)))

		list, err := s.repo.ListByStatus(s.ctx, domain.StatusWaitingForExternalAttachment, 10)
		s.Require().NoError(err)
		s.Len(list, 2)

		active, err := s.repo.ListByStatus(s.ctx, domain.StatusActive, 10)
		s.Require().NoError(err)
		s.Require().Len(active, 1)
		s.Equal(waiting[0].SessionID, active[0].SessionID)
	})
}

func (s *RegistrationsSuite) TestAttach() {
	s.Run("unknown id returns ErrNotFound and writes nothing", func() {
		id := uuid.NewString()
		s.Require().ErrorIs(s.repo.Attach(s.ctx, id, "fp-1", "scanner-01", s.base), domain.ErrNotFound)

		_, err := s.repo.GetBySessionID(s.ctx, id)
		s.Require().ErrorIs(err, domain.ErrNotFound)
	})

	s.Run("sets reference and activates", func() {
		reg := s.newRegistration(0, domain.StatusPending)
		s.Require().NoError(s.repo.Create(s.ctx, reg))

		at := s.base.Add(time.Minute)
		s.Require().NoError(s.repo.Attach(s.ctx, reg.SessionID, "fp-42", "scanner-01", at))

		found, err := s.repo.GetBySessionID(s.ctx, reg.SessionID)
		s.Require().NoError(err)
		s.Equal(domain.StatusActive, found.Status)
		s.Require().NotNil(found.ExternalRef)
		s.Equal("fp-42", *found.ExternalRef)
		s.Require().NotNil(found.DeviceID)
		s.Equal("scanner-01", *found.DeviceID)
		s.Require().NotNil(found.AttachedAt)
		s.True(at.Equal(*found.AttachedAt))
	})

	s.Run("second attach is rejected and keeps the first reference", func() {
		reg := s.newRegistration(0, domain.StatusWaitingForExternalAttachment)
		s.Require().NoError(s.repo.Create(s.ctx, reg))
		s.Require().NoError(s.repo.Attach(s.ctx, reg.SessionID, "fp-1", "scanner-01", s.base))

		err := s.repo.Attach(s.ctx, reg.SessionID, "fp-2", "scanner-02", s.base.Add(time.Second))
		s.Require().ErrorIs(err, domain.ErrAlreadyAttached)

		found, err := s.repo.GetBySessionID(s.ctx, reg.SessionID)
		s.Require().NoError(err)
		s.Equal(domain.StatusActive, found.Status)
		s.Equal("fp-1", *found.ExternalRef)
	})
}
