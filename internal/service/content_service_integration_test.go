//go:build integration

package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/events"
	"github.com/phrazzld/studio-api/internal/platform/postgres"
	"github.com/phrazzld/studio-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// captureEmitter records emitted events instead of dispatching them.
type captureEmitter struct {
	events []*events.TaskRequestEvent
	err    error
}

func (e *captureEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("Skipping integration test - requires DATABASE_URL environment variable")
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx))

	return db
}

// newIntegrationContentService builds a ContentService over the real
// database with a fresh user and brief, cleaned up through the users
// cascade after the test.
func newIntegrationContentService(
	t *testing.T,
	db *sql.DB,
	emitter events.EventEmitter,
) (*service.ContentService, uuid.UUID, *domain.CreativeBrief) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, logger)
	briefStore := postgres.NewPostgresBriefStore(db, logger)
	contentStore := postgres.NewPostgresContentStore(db, logger)
	violationStore := postgres.NewPostgresViolationStore(db, logger)
	productStore := postgres.NewPostgresProductStore(db, logger)

	user, err := domain.NewUser(uuid.NewString()+"@content-it.example.com", "integration-password")
	require.NoError(t, err)
	require.NoError(t, userStore.Create(ctx, user))
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})

	brief, err := domain.NewCreativeBrief(user.ID, "fall espresso maker launch", domain.BriefFields{
		CampaignName: "Fall Launch",
		Channels:     []string{"email"},
	})
	require.NoError(t, err)
	require.NoError(t, briefStore.Create(ctx, brief))

	svc := service.NewContentService(db, contentStore, violationStore, briefStore, productStore, emitter, logger)
	return svc, user.ID, brief
}

func TestContentService_RequestCopyGeneration_Integration(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	t.Run("creates a pending row and emits the task event", func(t *testing.T) {
		t.Parallel()

		emitter := &captureEmitter{}
		svc, userID, brief := newIntegrationContentService(t, db, emitter)

		content, err := svc.RequestCopyGeneration(ctx, userID, brief.ID, uuid.NullUUID{}, "write the launch email")
		require.NoError(t, err)
		assert.Equal(t, domain.ContentStatusPending, content.Status)

		// Row is committed before the event goes out.
		stored, err := svc.GetContent(ctx, content.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ContentStatusPending, stored.Status)

		require.Len(t, emitter.events, 1)
		var payload struct {
			ContentID uuid.UUID `json:"content_id"`
		}
		require.NoError(t, emitter.events[0].UnmarshalPayload(&payload))
		assert.Equal(t, content.ID, payload.ContentID)
	})

	t.Run("failed emit marks the row failed", func(t *testing.T) {
		t.Parallel()

		emitter := &captureEmitter{err: assert.AnError}
		svc, userID, brief := newIntegrationContentService(t, db, emitter)

		_, err := svc.RequestCopyGeneration(ctx, userID, brief.ID, uuid.NullUUID{}, "write the launch email")
		require.Error(t, err)

		// The committed row is marked failed rather than left pending.
		rows, err := svc.ListContentForUser(ctx, userID, 10, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, domain.ContentStatusFailed, rows[0].Status)
	})

	t.Run("foreign briefs are hidden", func(t *testing.T) {
		t.Parallel()

		emitter := &captureEmitter{}
		svc, _, brief := newIntegrationContentService(t, db, emitter)

		_, err := svc.RequestCopyGeneration(ctx, uuid.New(), brief.ID, uuid.NullUUID{}, "write the launch email")
		assert.ErrorIs(t, err, service.ErrBriefNotFound)
		assert.Empty(t, emitter.events)
	})
}

func TestContentService_CompleteContent_Integration(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	t.Run("clean copy completes", func(t *testing.T) {
		t.Parallel()

		emitter := &captureEmitter{}
		svc, userID, brief := newIntegrationContentService(t, db, emitter)

		content, err := svc.RequestCopyGeneration(ctx, userID, brief.ID, uuid.NullUUID{}, "write the launch email")
		require.NoError(t, err)

		require.NoError(t, svc.CompleteContent(ctx, content.ID, "Meet the machine.", nil))

		stored, violations, err := svc.GetContentForUser(ctx, userID, content.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ContentStatusCompleted, stored.Status)
		assert.Equal(t, "Meet the machine.", stored.Body)
		assert.Empty(t, violations)
	})

	t.Run("violations set completed_with_warnings atomically", func(t *testing.T) {
		t.Parallel()

		emitter := &captureEmitter{}
		svc, userID, brief := newIntegrationContentService(t, db, emitter)

		content, err := svc.RequestCopyGeneration(ctx, userID, brief.ID, uuid.NullUUID{}, "write the launch email")
		require.NoError(t, err)

		violation, err := domain.NewComplianceViolation(content.ID,
			"unsubstantiated_claim", domain.SeverityWarning, "the best espresso")
		require.NoError(t, err)

		require.NoError(t, svc.CompleteContent(ctx, content.ID, "The best espresso.",
			[]*domain.ComplianceViolation{violation}))

		stored, violations, err := svc.GetContentForUser(ctx, userID, content.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ContentStatusCompletedWithWarnings, stored.Status)
		require.Len(t, violations, 1)
		assert.Equal(t, "unsubstantiated_claim", violations[0].Rule)
	})
}
