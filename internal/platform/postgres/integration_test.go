//go:build integration

package postgres_test

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
	"github.com/phrazzld/studio-api/internal/platform/postgres"
	"github.com/phrazzld/studio-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// getTestDB opens a connection to the database named by DATABASE_URL,
// skipping the test when it is not set. The schema must already be
// migrated.
func getTestDB(t *testing.T) *sql.DB {
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

// withTx runs fn inside a transaction that is always rolled back, so
// tests never leave rows behind.
func withTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	fn(t, tx)
}

// insertTestUser creates a user through the store and returns its ID.
func insertTestUser(ctx context.Context, t *testing.T, tx *sql.Tx, email string) uuid.UUID {
	t.Helper()

	userStore := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, testLogger())
	user, err := domain.NewUser(email, "integration-password")
	require.NoError(t, err)
	require.NoError(t, userStore.Create(ctx, user))
	return user.ID
}

// insertTestBrief creates a brief through the store and returns it.
func insertTestBrief(ctx context.Context, t *testing.T, tx *sql.Tx, userID uuid.UUID) *domain.CreativeBrief {
	t.Helper()

	briefStore := postgres.NewPostgresBriefStore(tx, testLogger())
	brief, err := domain.NewCreativeBrief(userID, "fall espresso maker launch", domain.BriefFields{
		CampaignName: "Fall Launch",
		Channels:     []string{"email"},
	})
	require.NoError(t, err)
	require.NoError(t, briefStore.Create(ctx, brief))
	return brief
}

func TestPostgresUserStore(t *testing.T) {
	t.Parallel()

	db := getTestDB(t)

	withTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		userStore := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, testLogger())

		user, err := domain.NewUser("user-store-test@example.com", "integration-password")
		require.NoError(t, err)
		require.NoError(t, userStore.Create(ctx, user))

		t.Run("password is stored hashed", func(t *testing.T) {
			fetched, err := userStore.GetByEmail(ctx, user.Email)
			require.NoError(t, err)
			assert.Equal(t, user.ID, fetched.ID)
			assert.NotEmpty(t, fetched.HashedPassword)
			assert.NotEqual(t, "integration-password", fetched.HashedPassword)
			assert.NoError(t, bcrypt.CompareHashAndPassword(
				[]byte(fetched.HashedPassword), []byte("integration-password")))
		})

		t.Run("duplicate email", func(t *testing.T) {
			dup, err := domain.NewUser("user-store-test@example.com", "another-long-password")
			require.NoError(t, err)
			err = userStore.Create(ctx, dup)
			assert.ErrorIs(t, err, store.ErrEmailExists)
		})

		t.Run("unknown user", func(t *testing.T) {
			_, err := userStore.GetByEmail(ctx, "missing@example.com")
			assert.ErrorIs(t, err, store.ErrUserNotFound)
		})
	})
}

func TestPostgresBriefStore(t *testing.T) {
	t.Parallel()

	db := getTestDB(t)

	withTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		userID := insertTestUser(ctx, t, tx, "brief-store-test@example.com")
		briefStore := postgres.NewPostgresBriefStore(tx, testLogger())

		brief := insertTestBrief(ctx, t, tx, userID)

		t.Run("fields survive the JSONB round trip", func(t *testing.T) {
			fetched, err := briefStore.GetByID(ctx, brief.ID)
			require.NoError(t, err)
			assert.Equal(t, brief.Fields.CampaignName, fetched.Fields.CampaignName)
			assert.Equal(t, []string{"email"}, fetched.Fields.Channels)
		})

		t.Run("list is newest first", func(t *testing.T) {
			second := insertTestBrief(ctx, t, tx, userID)

			briefs, err := briefStore.ListByUser(ctx, userID, 10, 0)
			require.NoError(t, err)
			require.Len(t, briefs, 2)
			assert.Equal(t, second.ID, briefs[0].ID)
		})

		t.Run("unknown brief", func(t *testing.T) {
			_, err := briefStore.GetByID(ctx, uuid.New())
			assert.ErrorIs(t, err, store.ErrBriefNotFound)
		})
	})
}

func TestPostgresContentStore(t *testing.T) {
	t.Parallel()

	db := getTestDB(t)

	withTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		userID := insertTestUser(ctx, t, tx, "content-store-test@example.com")
		brief := insertTestBrief(ctx, t, tx, userID)

		contentStore := postgres.NewPostgresContentStore(tx, testLogger())
		violationStore := postgres.NewPostgresViolationStore(tx, testLogger())

		content, err := domain.NewGeneratedContent(userID, brief.ID, uuid.NullUUID{},
			domain.ContentKindCopy, "write the launch email")
		require.NoError(t, err)
		require.NoError(t, contentStore.Create(ctx, content))

		t.Run("status transitions persist", func(t *testing.T) {
			require.NoError(t, contentStore.UpdateStatus(ctx, content.ID, domain.ContentStatusProcessing))

			fetched, err := contentStore.GetByID(ctx, content.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.ContentStatusProcessing, fetched.Status)
		})

		t.Run("body update persists", func(t *testing.T) {
			content.Body = "Meet the machine that starts your morning."
			require.NoError(t, content.UpdateStatus(domain.ContentStatusCompleted))
			require.NoError(t, contentStore.Update(ctx, content))

			fetched, err := contentStore.GetByID(ctx, content.ID)
			require.NoError(t, err)
			assert.Equal(t, content.Body, fetched.Body)
			assert.Equal(t, domain.ContentStatusCompleted, fetched.Status)
		})

		t.Run("violations attach to the content", func(t *testing.T) {
			violation, err := domain.NewComplianceViolation(content.ID,
				"unsubstantiated_claim", domain.SeverityWarning, "best espresso")
			require.NoError(t, err)
			require.NoError(t, violationStore.CreateBatch(ctx, []*domain.ComplianceViolation{violation}))

			violations, err := violationStore.ListByContent(ctx, content.ID)
			require.NoError(t, err)
			require.Len(t, violations, 1)
			assert.Equal(t, "unsubstantiated_claim", violations[0].Rule)
		})

		t.Run("unknown content", func(t *testing.T) {
			_, err := contentStore.GetByID(ctx, uuid.New())
			assert.ErrorIs(t, err, store.ErrContentNotFound)
		})
	})
}

func TestPostgresProductStore(t *testing.T) {
	t.Parallel()

	db := getTestDB(t)

	withTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		userID := insertTestUser(ctx, t, tx, "product-store-test@example.com")
		productStore := postgres.NewPostgresProductStore(tx, testLogger())

		product, err := domain.NewProduct(userID, "Espresso Maker", "countertop machine", "kitchen", 24900, "")
		require.NoError(t, err)
		require.NoError(t, productStore.Create(ctx, product))

		t.Run("update persists", func(t *testing.T) {
			product.PriceCents = 19900
			product.UpdatedAt = time.Now().UTC()
			require.NoError(t, productStore.Update(ctx, product))

			fetched, err := productStore.GetByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(19900), fetched.PriceCents)
		})

		t.Run("delete removes the row", func(t *testing.T) {
			require.NoError(t, productStore.Delete(ctx, product.ID))

			_, err := productStore.GetByID(ctx, product.ID)
			assert.ErrorIs(t, err, store.ErrProductNotFound)

			assert.ErrorIs(t, productStore.Delete(ctx, product.ID), store.ErrProductNotFound)
		})
	})
}

func TestPostgresConversationStore(t *testing.T) {
	t.Parallel()

	db := getTestDB(t)

	withTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		userID := insertTestUser(ctx, t, tx, "conversation-store-test@example.com")
		convStore := postgres.NewPostgresConversationStore(tx, testLogger())

		conv, err := domain.NewConversation(userID, "Campaign ideas")
		require.NoError(t, err)
		require.NoError(t, convStore.CreateConversation(ctx, conv))

		userMsg, err := domain.NewChatMessage(conv.ID, domain.RoleUser, "How should we pitch this?")
		require.NoError(t, err)
		require.NoError(t, convStore.AppendMessage(ctx, userMsg))

		assistantMsg, err := domain.NewChatMessage(conv.ID, domain.RoleAssistant, "Lead with the morning routine.")
		require.NoError(t, err)
		require.NoError(t, convStore.AppendMessage(ctx, assistantMsg))

		t.Run("messages come back oldest first", func(t *testing.T) {
			messages, err := convStore.ListMessages(ctx, conv.ID)
			require.NoError(t, err)
			require.Len(t, messages, 2)
			assert.Equal(t, domain.RoleUser, messages[0].Role)
			assert.Equal(t, domain.RoleAssistant, messages[1].Role)
		})

		t.Run("touch bumps the timestamp", func(t *testing.T) {
			require.NoError(t, convStore.TouchConversation(ctx, conv.ID))

			fetched, err := convStore.GetConversation(ctx, conv.ID)
			require.NoError(t, err)
			assert.True(t, !fetched.UpdatedAt.Before(conv.UpdatedAt))
		})

		t.Run("unknown conversation", func(t *testing.T) {
			_, err := convStore.GetConversation(ctx, uuid.New())
			assert.ErrorIs(t, err, store.ErrConversationNotFound)
		})
	})
}
