package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vibe-gaming/enrollment/internal/config"
	"github.com/vibe-gaming/enrollment/internal/domain"
	"github.com/vibe-gaming/enrollment/internal/metrics"
	"github.com/vibe-gaming/enrollment/internal/repository"
	mock_repository "github.com/vibe-gaming/enrollment/internal/repository/mock"
	"github.com/vibe-gaming/enrollment/pkg/qrlink"
	"github.com/vibe-gaming/enrollment/pkg/sessionid"
)

const testBaseURL = "https://kiosk.example.com/register"

func testConfig() *config.Config {
	return &config.Config{
		Store: config.Store{Type: repository.StoreMemory, Timeout: time.Second},
		Registration: config.Registration{
			BaseURL:       testBaseURL,
			InitialStatus: string(domain.StatusWaitingForExternalAttachment),
			ListLimit:     50,
		},
	}
}

func newTestService(t testing.TB, repo repository.Registrations, notifier CompletionNotifier) (*registrationService, *metrics.Metrics) {
	t.Helper()

	m := metrics.New(prometheus.NewRegistry())
	svc, err := newRegistrationService(repo, sessionid.UUIDGenerator{}, notifier, m, testConfig())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	return svc, m
}

func newMemoryRepo(t *testing.T) repository.Registrations {
	t.Helper()

	repos, err := repository.NewRepositories(repository.StoreMemory, repository.Deps{})
	require.NoError(t, err)

	return repos.Registrations
}

func TestSubmit_StoresWaitingRecord(t *testing.T) {
	repo := newMemoryRepo(t)
	svc, m := newTestService(t, repo, nil)
	ctx := context.Background()

	session, err := svc.Submit(ctx, SubmitInput{Name: "Ana", Email: "ana@example.com", Phone: ""})
	require.NoError(t, err)
	assert.True(t, sessionid.Valid(session.ID))
	assert.Equal(t, domain.StatusWaitingForExternalAttachment, session.Status)

	stored, err := repo.GetBySessionID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Name)
	assert.Equal(t, "ana@example.com", stored.Email)
	assert.Equal(t, "", stored.Phone)
	assert.Equal(t, domain.StatusWaitingForExternalAttachment, stored.Status)
	assert.Equal(t, session.ID, stored.SessionID)
	assert.Nil(t, stored.ExternalRef)

	extracted, err := qrlink.Extract(session.QRURL)
	require.NoError(t, err)
	assert.Equal(t, session.ID, extracted)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Submissions.WithLabelValues(metrics.ResultOK)))
}

func TestSubmit_NormalizesInput(t *testing.T) {
	repo := newMemoryRepo(t)
	svc, _ := newTestService(t, repo, nil)

	session, err := svc.Submit(context.Background(), SubmitInput{Name: "  Ana ", Email: " ana@example.com", Phone: "+1 415 555 0100"})
	require.NoError(t, err)

	stored, err := repo.GetBySessionID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Name)
	assert.Equal(t, "ana@example.com", stored.Email)
	assert.Equal(t, "+14155550100", stored.Phone)
}

func TestSubmit_ValidInputWritesOnceAndRoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := SubmitInput{
			Name:  rapid.StringMatching(`[A-Za-z][A-Za-z '-]{0,30}`).Draw(rt, "name"),
			Email: rapid.StringMatching(`[a-z0-9._+]{1,12}@[a-z0-9-]{1,12}\.[a-z]{2,6}`).Draw(rt, "email"),
			Phone: rapid.OneOf(rapid.Just(""), rapid.StringMatching(`\+?[1-9][0-9]{0,15}`)).Draw(rt, "phone"),
		}

		repo := new(mock_repository.Registrations)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Registration")).Return(nil).Once()
		svc, _ := newTestService(t, repo, nil)

		session, err := svc.Submit(context.Background(), input)
		if err != nil {
			rt.Fatalf("submit %+v: %v", input, err)
		}
		repo.AssertNumberOfCalls(rt, "Create", 1)

		written := repo.Calls[0].Arguments.Get(1).(*domain.Registration)
		if written.SessionID != session.ID {
			rt.Fatalf("written id %q != returned id %q", written.SessionID, session.ID)
		}

		extracted, err := qrlink.Extract(session.QRURL)
		if err != nil || extracted != session.ID {
			rt.Fatalf("qr round trip: got %q, %v", extracted, err)
		}
	})
}

func TestSubmit_InvalidEmailNeverWrites(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		email := rapid.OneOf(
			rapid.StringMatching(`[a-z0-9.]{0,20}`),
			rapid.StringMatching(`[a-z]{1,8}@[a-z]{1,8}`),
			rapid.StringMatching(`@[a-z]{1,8}\.[a-z]{2,3}`),
			rapid.StringMatching(`[a-z]{1,8} [a-z]{1,8}@[a-z]{1,8}\.[a-z]{2,3}`),
		).Draw(rt, "email")

		repo := new(mock_repository.Registrations)
		svc, _ := newTestService(t, repo, nil)

		_, err := svc.Submit(context.Background(), SubmitInput{Name: "Ana", Email: email})
		if !errors.Is(err, ErrValidation) {
			rt.Fatalf("email %q: expected validation error, got %v", email, err)
		}
		repo.AssertNotCalled(rt, "Create", mock.Anything, mock.Anything)
	})
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   SubmitInput
		wantErr bool
		field   string
	}{
		{"empty phone passes", SubmitInput{Name: "Ana", Email: "ana@example.com", Phone: ""}, false, ""},
		{"letters in phone fail", SubmitInput{Name: "Ana", Email: "ana@example.com", Phone: "abc"}, true, "phone"},
		{"missing name", SubmitInput{Name: "   ", Email: "ana@example.com"}, true, "name"},
		{"missing email", SubmitInput{Name: "Ana"}, true, "email"},
		{"bad session id", SubmitInput{Name: "Ana", Email: "ana@example.com", SessionID: "a b"}, true, "session_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, newMemoryRepo(t), nil)

			_, err := svc.Submit(context.Background(), tt.input)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrValidation)
			var verr validator.ValidationErrors
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr[0].Field())
		})
	}
}

func TestSubmit_ReusesProvidedSessionOnce(t *testing.T) {
	svc, _ := newTestService(t, newMemoryRepo(t), nil)
	ctx := context.Background()

	session, err := svc.Submit(ctx, SubmitInput{Name: "Ana", Email: "ana@example.com", SessionID: "REG_1735689600000_abc123xyz"})
	require.NoError(t, err)
	assert.Equal(t, "REG_1735689600000_abc123xyz", session.ID)

	_, err = svc.Submit(ctx, SubmitInput{Name: "Bob", Email: "bob@example.com", SessionID: "REG_1735689600000_abc123xyz"})
	require.ErrorIs(t, err, ErrSessionTaken)

	stored, err := svc.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Name)
}

func TestSubmit_StoreErrors(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		wantNet    bool
		wantReason string
	}{
		{"dial failure", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true, ""},
		{"deadline", context.DeadlineExceeded, true, ""},
		{"device rejection", &repository.DeviceRejectedError{Reason: "Sensor busy"}, false, "Sensor busy"},
		{"device non-success response", fmt.Errorf("device: %w: status 503", domain.ErrStoreUnavailable), true, ""},
		{"internal error text stays out of the reason", errors.New("repository.registration.mysql.Create: insert registration failed: Error 1146"), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mock_repository.Registrations)
			repo.On("Create", mock.Anything, mock.Anything).Return(tt.storeErr).Once()
			svc, _ := newTestService(t, repo, nil)

			_, err := svc.Submit(context.Background(), SubmitInput{Name: "Ana", Email: "ana@example.com"})
			require.Error(t, err)
			repo.AssertNumberOfCalls(t, "Create", 1)

			if tt.wantNet {
				assert.ErrorIs(t, err, ErrNetworkUnavailable)
				return
			}
			var rejected *StoreRejectedError
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, tt.wantReason, rejected.Reason)
		})
	}
}

type blockingRepo struct {
	repository.Registrations
}

func (blockingRepo) Create(ctx context.Context, _ *domain.Registration) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSubmit_UnresponsiveStoreTimesOut(t *testing.T) {
	svc, m := newTestService(t, blockingRepo{}, nil)
	svc.storeTimeout = 20 * time.Millisecond

	_, err := svc.Submit(context.Background(), SubmitInput{Name: "Ana", Email: "ana@example.com"})
	require.ErrorIs(t, err, ErrNetworkUnavailable)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Submissions.WithLabelValues(metrics.ResultNetwork)))
}

func TestSubmit_UnreachableDeviceLeavesNoRecord(t *testing.T) {
	repos, err := repository.NewRepositories(repository.StoreDevice, repository.Deps{DeviceURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	svc, _ := newTestService(t, repos.Registrations, nil)

	session, err := svc.Submit(context.Background(), SubmitInput{Name: "Ana", Email: "ana@example.com"})
	require.ErrorIs(t, err, ErrNetworkUnavailable)
	assert.Nil(t, session)
}

func TestSubmit_DeviceErrorResponseIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	repos, err := repository.NewRepositories(repository.StoreDevice, repository.Deps{HTTPClient: srv.Client(), DeviceURL: srv.URL})
	require.NoError(t, err)
	svc, m := newTestService(t, repos.Registrations, nil)

	_, err = svc.Submit(context.Background(), SubmitInput{Name: "Ana", Email: "ana@example.com"})
	require.ErrorIs(t, err, ErrNetworkUnavailable)

	var rejected *StoreRejectedError
	assert.False(t, errors.As(err, &rejected))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Submissions.WithLabelValues(metrics.ResultNetwork)))
}

func TestSubmit_OverlongFieldsFailValidation(t *testing.T) {
	repo := new(mock_repository.Registrations)
	svc, _ := newTestService(t, repo, nil)

	long := strings.Repeat("a", 256)
	inputs := []SubmitInput{
		{Name: long, Email: "ana@example.com"},
		{Name: "Ana", Email: long + "@example.com"},
		{Name: "Ana", Email: "ana@example.com", Phone: "+" + strings.Repeat("1", 33)},
	}

	for _, input := range inputs {
		_, err := svc.Submit(context.Background(), input)
		require.ErrorIs(t, err, ErrValidation)
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	svc, _ = newTestService(t, newMemoryRepo(t), nil)
	_, err := svc.Submit(context.Background(), SubmitInput{Name: strings.Repeat("a", 255), Email: "ana@example.com"})
	require.NoError(t, err)
}

func TestAttach(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown session is not found and writes nothing", func(t *testing.T) {
		repo := newMemoryRepo(t)
		svc, _ := newTestService(t, repo, nil)

		_, err := svc.Attach(ctx, AttachInput{SessionID: "missing", ExternalRef: "fp-1", DeviceID: "scanner-01"})
		require.ErrorIs(t, err, ErrRegistrationNotFound)

		_, err = repo.GetBySessionID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("activates once and rejects reapplication", func(t *testing.T) {
		notifier := new(mock_repository.CompletionNotifier)
		notifier.On("RegistrationCompleted", mock.Anything, mock.AnythingOfType("*domain.Registration")).Return(nil).Once()
		svc, _ := newTestService(t, newMemoryRepo(t), notifier)

		session, err := svc.Submit(ctx, SubmitInput{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)

		attached, err := svc.Attach(ctx, AttachInput{SessionID: session.ID, ExternalRef: "fp-42", DeviceID: "scanner-01"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, attached.Status)

		got, err := svc.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, got.Status)
		require.NotNil(t, got.ExternalRef)
		assert.Equal(t, "fp-42", *got.ExternalRef)

		_, err = svc.Attach(ctx, AttachInput{SessionID: session.ID, ExternalRef: "fp-43", DeviceID: "scanner-02"})
		require.ErrorIs(t, err, ErrAlreadyAttached)

		got, err = svc.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, got.Status)
		assert.Equal(t, "fp-42", *got.ExternalRef)

		notifier.AssertExpectations(t)
		notified := notifier.Calls[0].Arguments.Get(1).(*domain.Registration)
		assert.Equal(t, "ana@example.com", notified.Email)
	})

	t.Run("notifier failure does not fail attach", func(t *testing.T) {
		notifier := new(mock_repository.CompletionNotifier)
		notifier.On("RegistrationCompleted", mock.Anything, mock.Anything).Return(errors.New("queue down"))
		svc, _ := newTestService(t, newMemoryRepo(t), notifier)

		session, err := svc.Submit(ctx, SubmitInput{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)

		_, err = svc.Attach(ctx, AttachInput{SessionID: session.ID, ExternalRef: "fp-1", DeviceID: "scanner-01"})
		require.NoError(t, err)
	})

	t.Run("requires a reference", func(t *testing.T) {
		repo := new(mock_repository.Registrations)
		svc, _ := newTestService(t, repo, nil)

		_, err := svc.Attach(ctx, AttachInput{SessionID: "abc", ExternalRef: "  ", DeviceID: "scanner-01"})
		require.ErrorIs(t, err, ErrValidation)
		repo.AssertNotCalled(t, "Attach", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("device store cannot attach", func(t *testing.T) {
		repo := new(mock_repository.Registrations)
		repo.On("Attach", mock.Anything, "abc", "fp-1", "scanner-01", mock.Anything).Return(domain.ErrUnsupported)
		svc, _ := newTestService(t, repo, nil)

		_, err := svc.Attach(ctx, AttachInput{SessionID: "abc", ExternalRef: "fp-1", DeviceID: "scanner-01"})
		require.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestListPending(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to waiting and clamps limit", func(t *testing.T) {
		repo := new(mock_repository.Registrations)
		repo.On("ListByStatus", mock.Anything, domain.StatusWaitingForExternalAttachment, 50).
			Return([]domain.Registration{{SessionID: "a"}}, nil).Twice()
		svc, _ := newTestService(t, repo, nil)

		list, err := svc.ListPending(ctx, "", 0)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		_, err = svc.ListPending(ctx, "", 1000)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects non attachable status", func(t *testing.T) {
		svc, _ := newTestService(t, new(mock_repository.Registrations), nil)

		_, err := svc.ListPending(ctx, domain.StatusActive, 10)
		require.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("returns only requested status", func(t *testing.T) {
		repo := newMemoryRepo(t)
		svc, _ := newTestService(t, repo, nil)
		_, err := svc.Submit(ctx, SubmitInput{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)

		list, err := svc.ListPending(ctx, domain.StatusWaitingForExternalAttachment, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)

		list, err = svc.ListPending(ctx, domain.StatusPending, 10)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestGet_InvalidIDIsNotFound(t *testing.T) {
	svc, _ := newTestService(t, new(mock_repository.Registrations), nil)

	_, err := svc.Get(context.Background(), "../etc/passwd")
	require.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestNewRegistrationService_RejectsBadConfig(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	cfg := testConfig()
	cfg.Registration.InitialStatus = string(domain.StatusActive)
	_, err := newRegistrationService(newMemoryRepo(t), sessionid.UUIDGenerator{}, nil, m, cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.Registration.BaseURL = "kiosk"
	_, err = newRegistrationService(newMemoryRepo(t), sessionid.UUIDGenerator{}, nil, m, cfg)
	require.ErrorIs(t, err, qrlink.ErrInvalidBaseURL)
}
