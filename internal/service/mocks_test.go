package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/generation"
	"github.com/phrazzld/studio-api/internal/service/auth"
	"github.com/phrazzld/studio-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockBriefStore mocks the store.BriefStore interface
type MockBriefStore struct {
	mock.Mock
}

func (m *MockBriefStore) Create(ctx context.Context, brief *domain.CreativeBrief) error {
	args := m.Called(ctx, brief)
	return args.Error(0)
}

func (m *MockBriefStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreativeBrief, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreativeBrief), args.Error(1)
}

func (m *MockBriefStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.CreativeBrief, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreativeBrief), args.Error(1)
}

func (m *MockBriefStore) WithTx(tx store.DBTX) store.BriefStore {
	args := m.Called(tx)
	return args.Get(0).(store.BriefStore)
}

// MockProductStore mocks the store.ProductStore interface
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Product, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductStore) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductStore) WithTx(tx store.DBTX) store.ProductStore {
	args := m.Called(tx)
	return args.Get(0).(store.ProductStore)
}

// MockContentStore mocks the store.ContentStore interface
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Create(ctx context.Context, content *domain.GeneratedContent) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedContent), args.Error(1)
}

func (m *MockContentStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.GeneratedContent, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GeneratedContent), args.Error(1)
}

func (m *MockContentStore) Update(ctx context.Context, content *domain.GeneratedContent) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.ContentStatus,
) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockContentStore) WithTx(tx store.DBTX) store.ContentStore {
	args := m.Called(tx)
	return args.Get(0).(store.ContentStore)
}

// MockViolationStore mocks the store.ViolationStore interface
type MockViolationStore struct {
	mock.Mock
}

func (m *MockViolationStore) CreateBatch(ctx context.Context, violations []*domain.ComplianceViolation) error {
	args := m.Called(ctx, violations)
	return args.Error(0)
}

func (m *MockViolationStore) ListByContent(
	ctx context.Context,
	contentID uuid.UUID,
) ([]*domain.ComplianceViolation, error) {
	args := m.Called(ctx, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ComplianceViolation), args.Error(1)
}

func (m *MockViolationStore) WithTx(tx store.DBTX) store.ViolationStore {
	args := m.Called(tx)
	return args.Get(0).(store.ViolationStore)
}

// MockConversationStore mocks the store.ConversationStore interface
type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *MockConversationStore) GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationStore) TouchConversation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockConversationStore) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockConversationStore) ListMessages(
	ctx context.Context,
	conversationID uuid.UUID,
) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatMessage), args.Error(1)
}

func (m *MockConversationStore) WithTx(tx store.DBTX) store.ConversationStore {
	args := m.Called(tx)
	return args.Get(0).(store.ConversationStore)
}

// MockJWTService mocks the auth.JWTService interface
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

// MockPasswordVerifier mocks the auth.PasswordVerifier interface
type MockPasswordVerifier struct {
	mock.Mock
}

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

// MockBriefParser mocks the generation.BriefParser interface
type MockBriefParser struct {
	mock.Mock
}

func (m *MockBriefParser) ParseBrief(ctx context.Context, sourceText string) (domain.BriefFields, error) {
	args := m.Called(ctx, sourceText)
	return args.Get(0).(domain.BriefFields), args.Error(1)
}

// MockChatResponder mocks the generation.ChatResponder interface
type MockChatResponder struct {
	mock.Mock
}

func (m *MockChatResponder) Respond(ctx context.Context, messages []*domain.ChatMessage) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// MockReviewer mocks the generation.ComplianceReviewer interface
type MockReviewer struct {
	mock.Mock
}

func (m *MockReviewer) ReviewCopy(ctx context.Context, copy string) ([]generation.Finding, error) {
	args := m.Called(ctx, copy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]generation.Finding), args.Error(1)
}
