package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/answer"
	"github.com/GaurishMcK/HR-Nexus/internal/api/middleware"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/notify"
	"github.com/GaurishMcK/HR-Nexus/internal/pagination"
	"github.com/GaurishMcK/HR-Nexus/internal/service"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

type MockHelpdeskService struct {
	mock.Mock
}

func (m *MockHelpdeskService) Ask(ctx context.Context, user *domain.User, text string) (*service.AskResult, error) {
	args := m.Called(ctx, user, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AskResult), args.Error(1)
}

func (m *MockHelpdeskService) History(ctx context.Context, userID, cursor string, limit int) (*pagination.PageResult[*domain.ChatMessage], error) {
	args := m.Called(ctx, userID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.PageResult[*domain.ChatMessage]), args.Error(1)
}

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) List(ctx context.Context, actor *domain.User, input service.ListTicketsInput) (*pagination.PageResult[*domain.Ticket], error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.PageResult[*domain.Ticket]), args.Error(1)
}

func (m *MockTicketService) Stats(ctx context.Context, actor *domain.User) (*domain.TicketStats, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketStats), args.Error(1)
}

func (m *MockTicketService) UpdateStatus(ctx context.Context, actor *domain.User, id int64, status string) (*domain.Ticket, error) {
	args := m.Called(ctx, actor, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) Reply(ctx context.Context, actor *domain.User, input service.ReplyInput) (*domain.Ticket, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) Draft(ctx context.Context, actor *domain.User, sess *session.Session, id int64) (*answer.Draft, error) {
	args := m.Called(ctx, actor, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*answer.Draft), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) SetLanguage(ctx context.Context, user *domain.User, language string) (*domain.User, error) {
	args := m.Called(ctx, user, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockIndexService struct {
	mock.Mock
}

func (m *MockIndexService) Rebuild(ctx context.Context) (*service.RebuildResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RebuildResult), args.Error(1)
}

func (m *MockIndexService) UploadPolicy(ctx context.Context, name string, content []byte) (*service.RebuildResult, error) {
	args := m.Called(ctx, name, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RebuildResult), args.Error(1)
}

type MockComplianceService struct {
	mock.Mock
}

func (m *MockComplianceService) Scan(ctx context.Context, sess *session.Session) (*domain.RegulationSnapshot, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegulationSnapshot), args.Error(1)
}

func (m *MockComplianceService) Analyze(ctx context.Context, sess *session.Session) (*domain.ImpactAnalysis, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImpactAnalysis), args.Error(1)
}

func (m *MockComplianceService) Draft(ctx context.Context, sess *session.Session, recipient string) (*domain.NotificationDraft, error) {
	args := m.Called(ctx, sess, recipient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationDraft), args.Error(1)
}

func (m *MockComplianceService) Dispatch(ctx context.Context, sess *session.Session) (*notify.Event, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notify.Event), args.Error(1)
}

var (
	john  = &domain.User{ID: "EMP001", Name: "John Doe", Role: domain.RoleEmployee, Region: "US", Language: "English"}
	alice = &domain.User{ID: "HR001", Name: "Alice (HR)", Role: domain.RoleHR, Region: "US"}
	admin = &domain.User{ID: "HR_ADMIN", Name: "System Admin", Role: domain.RoleAdmin, Region: "US"}
)

// newRequest builds a request as the router would hand it to a handler:
// user resolved, session attached and URL params set.
func newRequest(method, target, body string, user *domain.User, sess *session.Session, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := req.Context()
	if user != nil {
		ctx = middleware.WithUser(ctx, user)
	}
	if sess != nil {
		ctx = session.WithSession(ctx, sess)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}
