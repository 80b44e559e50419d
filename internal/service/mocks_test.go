package service

import (
	"context"
	"time"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/identity"
	"github.com/AIlhomov/Ticketing-System/internal/notification"
	"github.com/AIlhomov/Ticketing-System/internal/repository"
)

type mockTicketRepo struct {
	CreateWithAttachmentsFn func(ctx context.Context, ticket *domain.Ticket, attachments []domain.Attachment) error
	GetByIDFn               func(ctx context.Context, id int64) (*domain.Ticket, error)
	ListFn                  func(ctx context.Context, opts repository.TicketListOptions) ([]domain.Ticket, error)
	UpdateStatusFn          func(ctx context.Context, id int64, status domain.TicketStatus) error
	UpdateFieldsFn          func(ctx context.Context, ticket *domain.Ticket) error
	ClaimFn                 func(ctx context.Context, id, userID int64, cas bool) error
}

func (m *mockTicketRepo) CreateWithAttachments(ctx context.Context, ticket *domain.Ticket, attachments []domain.Attachment) error {
	return m.CreateWithAttachmentsFn(ctx, ticket, attachments)
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockTicketRepo) List(ctx context.Context, opts repository.TicketListOptions) ([]domain.Ticket, error) {
	return m.ListFn(ctx, opts)
}

func (m *mockTicketRepo) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	return m.UpdateStatusFn(ctx, id, status)
}

func (m *mockTicketRepo) UpdateFields(ctx context.Context, ticket *domain.Ticket) error {
	return m.UpdateFieldsFn(ctx, ticket)
}

func (m *mockTicketRepo) Claim(ctx context.Context, id, userID int64, cas bool) error {
	return m.ClaimFn(ctx, id, userID, cas)
}

type mockCategoryRepo struct {
	CreateFn         func(ctx context.Context, category *domain.Category) error
	GetByIDFn        func(ctx context.Context, id int64) (*domain.Category, error)
	GetByNameFn      func(ctx context.Context, name string) (*domain.Category, error)
	LookupOrCreateFn func(ctx context.Context, name string) (*domain.Category, error)
	ListFn           func(ctx context.Context) ([]domain.Category, error)
	DeleteFn         func(ctx context.Context, id int64) error
	CountTicketsFn   func(ctx context.Context, id int64) (int64, error)
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	return m.CreateFn(ctx, category)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return m.GetByNameFn(ctx, name)
}

func (m *mockCategoryRepo) LookupOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	return m.LookupOrCreateFn(ctx, name)
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	return m.ListFn(ctx)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id int64) error {
	return m.DeleteFn(ctx, id)
}

func (m *mockCategoryRepo) CountTickets(ctx context.Context, id int64) (int64, error) {
	return m.CountTicketsFn(ctx, id)
}

type mockAttachmentRepo struct {
	ListByTicketFn func(ctx context.Context, ticketID int64) ([]domain.Attachment, error)
}

func (m *mockAttachmentRepo) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error) {
	return m.ListByTicketFn(ctx, ticketID)
}

type mockCommentRepo struct {
	CreateFn       func(ctx context.Context, comment *domain.Comment) error
	ListByTicketFn func(ctx context.Context, ticketID int64) ([]domain.Comment, error)
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	return m.CreateFn(ctx, comment)
}

func (m *mockCommentRepo) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	return m.ListByTicketFn(ctx, ticketID)
}

type mockUserRepo struct {
	CreateFn          func(ctx context.Context, user *domain.User) error
	UpdateFn          func(ctx context.Context, user *domain.User) error
	DeleteFn          func(ctx context.Context, id int64) error
	GetByIDFn         func(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameFn   func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFn      func(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleIDFn   func(ctx context.Context, googleID string) (*domain.User, error)
	GetByResetTokenFn func(ctx context.Context, token string) (*domain.User, error)
	SetResetTokenFn   func(ctx context.Context, id int64, token string, expiresAt time.Time) error
	UpdatePasswordFn  func(ctx context.Context, id int64, passwordHash string) error
	ListFn            func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.CreateFn(ctx, user)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.UpdateFn(ctx, user)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.DeleteFn(ctx, id)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.GetByUsernameFn(ctx, username)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.GetByEmailFn(ctx, email)
}

func (m *mockUserRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return m.GetByGoogleIDFn(ctx, googleID)
}

func (m *mockUserRepo) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return m.GetByResetTokenFn(ctx, token)
}

func (m *mockUserRepo) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	return m.SetResetTokenFn(ctx, id, token, expiresAt)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.UpdatePasswordFn(ctx, id, passwordHash)
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return m.ListFn(ctx)
}

type mockArticleRepo struct {
	CreateFn  func(ctx context.Context, article *domain.Article) error
	GetByIDFn func(ctx context.Context, id int64) (*domain.Article, error)
	ListFn    func(ctx context.Context) ([]domain.Article, error)
	UpdateFn  func(ctx context.Context, article *domain.Article) error
	DeleteFn  func(ctx context.Context, id int64) error
}

func (m *mockArticleRepo) Create(ctx context.Context, article *domain.Article) error {
	return m.CreateFn(ctx, article)
}

func (m *mockArticleRepo) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockArticleRepo) List(ctx context.Context) ([]domain.Article, error) {
	return m.ListFn(ctx)
}

func (m *mockArticleRepo) Update(ctx context.Context, article *domain.Article) error {
	return m.UpdateFn(ctx, article)
}

func (m *mockArticleRepo) Delete(ctx context.Context, id int64) error {
	return m.DeleteFn(ctx, id)
}

// recordingMailer captures sent messages for assertions.
type recordingMailer struct {
	sent []notification.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg notification.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockGoogleVerifier struct {
	AuthCodeURLFn func(state string) string
	ExchangeFn    func(ctx context.Context, code string) (*identity.GoogleIdentity, error)
}

func (m *mockGoogleVerifier) AuthCodeURL(state string) string {
	return m.AuthCodeURLFn(state)
}

func (m *mockGoogleVerifier) Exchange(ctx context.Context, code string) (*identity.GoogleIdentity, error) {
	return m.ExchangeFn(ctx, code)
}

func ptr[T any](v T) *T {
	return &v
}
