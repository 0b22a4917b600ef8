package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/api/shared"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/service/auth"
	"github.com/phrazzld/studio-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// authedRequest builds a request carrying the given user ID, matching
// what the auth middleware puts in the context.
func authedRequest(method, target string, body io.Reader, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// serve routes the request through a chi router so URL parameters
// resolve the same way they do in production.
func serve(pattern string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.HandleFunc(pattern, handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// fakeUserStore implements store.UserStore with function fields.
type fakeUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, user)
	}
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.GetByEmailFn != nil {
		return s.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

// fakeJWTService implements auth.JWTService with canned tokens.
type fakeJWTService struct {
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (s *fakeJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "access-token", nil
}

func (s *fakeJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.ValidateTokenFn != nil {
		return s.ValidateTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

func (s *fakeJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "refresh-token", nil
}

func (s *fakeJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.ValidateRefreshTokenFn != nil {
		return s.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidRefreshToken
}

// fakeVerifier accepts a single password.
type fakeVerifier struct {
	accept string
}

func (v *fakeVerifier) Compare(hashedPassword, password string) error {
	if password == v.accept {
		return nil
	}
	return errors.New("password mismatch")
}

// fakeBriefStore implements store.BriefStore with function fields.
type fakeBriefStore struct {
	CreateFn     func(ctx context.Context, brief *domain.CreativeBrief) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.CreativeBrief, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.CreativeBrief, error)
}

func (s *fakeBriefStore) Create(ctx context.Context, brief *domain.CreativeBrief) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, brief)
	}
	return nil
}

func (s *fakeBriefStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreativeBrief, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, store.ErrBriefNotFound
}

func (s *fakeBriefStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.CreativeBrief, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (s *fakeBriefStore) WithTx(tx store.DBTX) store.BriefStore { return s }

// fakeBriefParser implements generation.BriefParser.
type fakeBriefParser struct {
	fields domain.BriefFields
	err    error
}

func (p *fakeBriefParser) ParseBrief(ctx context.Context, sourceText string) (domain.BriefFields, error) {
	return p.fields, p.err
}

// fakeProductStore implements store.ProductStore with function fields.
type fakeProductStore struct {
	CreateFn  func(ctx context.Context, product *domain.Product) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	UpdateFn  func(ctx context.Context, product *domain.Product) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (s *fakeProductStore) Create(ctx context.Context, product *domain.Product) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, product)
	}
	return nil
}

func (s *fakeProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, store.ErrProductNotFound
}

func (s *fakeProductStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Product, error) {
	return nil, nil
}

func (s *fakeProductStore) Update(ctx context.Context, product *domain.Product) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, product)
	}
	return nil
}

func (s *fakeProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

func (s *fakeProductStore) WithTx(tx store.DBTX) store.ProductStore { return s }

// fakeContentStore implements store.ContentStore with function fields.
type fakeContentStore struct {
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.GeneratedContent, error)
}

func (s *fakeContentStore) Create(ctx context.Context, content *domain.GeneratedContent) error {
	return nil
}

func (s *fakeContentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, store.ErrContentNotFound
}

func (s *fakeContentStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.GeneratedContent, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (s *fakeContentStore) Update(ctx context.Context, content *domain.GeneratedContent) error {
	return nil
}

func (s *fakeContentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) error {
	return nil
}

func (s *fakeContentStore) WithTx(tx store.DBTX) store.ContentStore { return s }

// fakeViolationStore implements store.ViolationStore with function fields.
type fakeViolationStore struct {
	ListByContentFn func(ctx context.Context, contentID uuid.UUID) ([]*domain.ComplianceViolation, error)
}

func (s *fakeViolationStore) CreateBatch(ctx context.Context, violations []*domain.ComplianceViolation) error {
	return nil
}

func (s *fakeViolationStore) ListByContent(ctx context.Context, contentID uuid.UUID) ([]*domain.ComplianceViolation, error) {
	if s.ListByContentFn != nil {
		return s.ListByContentFn(ctx, contentID)
	}
	return nil, nil
}

func (s *fakeViolationStore) WithTx(tx store.DBTX) store.ViolationStore { return s }

// fakeConversationStore implements store.ConversationStore with
// function fields backed by in-memory state.
type fakeConversationStore struct {
	conversations map[uuid.UUID]*domain.Conversation
	messages      map[uuid.UUID][]*domain.ChatMessage
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		conversations: make(map[uuid.UUID]*domain.Conversation),
		messages:      make(map[uuid.UUID][]*domain.ChatMessage),
	}
}

func (s *fakeConversationStore) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	s.conversations[conv.ID] = conv
	return nil
}

func (s *fakeConversationStore) GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	conv, ok := s.conversations[id]
	if !ok {
		return nil, store.ErrConversationNotFound
	}
	return conv, nil
}

func (s *fakeConversationStore) TouchConversation(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.conversations[id]; !ok {
		return store.ErrConversationNotFound
	}
	return nil
}

func (s *fakeConversationStore) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], msg)
	return nil
}

func (s *fakeConversationStore) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*domain.ChatMessage, error) {
	return s.messages[conversationID], nil
}

func (s *fakeConversationStore) WithTx(tx store.DBTX) store.ConversationStore { return s }

// fakeChatResponder implements generation.ChatResponder.
type fakeChatResponder struct {
	reply string
	err   error
}

func (r *fakeChatResponder) Respond(ctx context.Context, messages []*domain.ChatMessage) (string, error) {
	return r.reply, r.err
}
