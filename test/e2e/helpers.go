//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GaurishMcK/HR-Nexus/internal/answer"
	"github.com/GaurishMcK/HR-Nexus/internal/api/handlers"
	"github.com/GaurishMcK/HR-Nexus/internal/assignment"
	"github.com/GaurishMcK/HR-Nexus/internal/compliance"
	"github.com/GaurishMcK/HR-Nexus/internal/corpus"
	"github.com/GaurishMcK/HR-Nexus/internal/notify"
	hropenai "github.com/GaurishMcK/HR-Nexus/internal/openai"
	"github.com/GaurishMcK/HR-Nexus/internal/regulation"
	"github.com/GaurishMcK/HR-Nexus/internal/repository"
	"github.com/GaurishMcK/HR-Nexus/internal/retrieval"
	"github.com/GaurishMcK/HR-Nexus/internal/server"
	"github.com/GaurishMcK/HR-Nexus/internal/service"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
	"github.com/GaurishMcK/HR-Nexus/internal/storage"
	"github.com/GaurishMcK/HR-Nexus/internal/testutil"
	"github.com/GaurishMcK/HR-Nexus/internal/triage"
	"github.com/jackc/pgx/v5/pgxpool"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap/zaptest"
)

const (
	fakeDimensions = 16
	legalRecipient = "legal@company.com"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	PostgresC  *testutil.PostgresContainer
	RustFSC    *testutil.RustFSContainer
	Pool       *pgxpool.Pool
	S3Client   *storage.S3Client
	LLM        *httptest.Server
	Server     *httptest.Server
	Events     *eventLog
	HTTPClient *http.Client

	sessions map[string]string
}

// APIResponse is the response envelope.
type APIResponse struct {
	Status int
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Code   string          `json:"code,omitempty"`
}

// SetupE2EEnv starts Postgres and RustFS, a fake model endpoint and the API
// server wired the way hrnexusd wires it.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	s3C := testutil.NewRustFSContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, testutil.MigrationsDir())

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     testutil.RustFSAccessKey,
		SecretAccessKey: testutil.RustFSSecretKey,
		Bucket:          "hrnexus-e2e",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to ensure bucket: %v", err)
	}

	env := &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		PostgresC:  pgC,
		RustFSC:    s3C,
		Pool:       pool,
		S3Client:   s3Client,
		LLM:        httptest.NewServer(http.HandlerFunc(fakeModel)),
		Events:     &eventLog{},
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		sessions:   map[string]string{},
	}
	env.Server = httptest.NewServer(env.buildRouter(t))

	if _, err := service.Seed(ctx, repository.NewUserRepository(pool), repository.NewPayrollRepository(pool), nil); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	return env
}

func (e *E2ETestEnv) buildRouter(t *testing.T) http.Handler {
	logger := zaptest.NewLogger(t)

	users := repository.NewUserRepository(e.Pool)
	tickets := repository.NewTicketRepository(e.Pool)
	chat := repository.NewChatRepository(e.Pool)
	payroll := repository.NewPayrollRepository(e.Pool)
	tx := repository.NewTxRunner(e.Pool)

	llm := hropenai.NewClientWithConfig(hropenai.Config{
		APIKey:              "test",
		BaseURL:             e.LLM.URL + "/v1",
		EmbeddingDimensions: fakeDimensions,
	})
	index := retrieval.NewIndex(llm, repository.NewPolicyChunkRepository(e.Pool), retrieval.WithLogger(logger))
	retriever := retrieval.NewRetriever(index, logger)

	dispatcher := notify.NewInMemoryDispatcher(logger)
	for _, typ := range []notify.EventType{notify.EventTicketEscalated, notify.EventTicketReplied, notify.EventTicketStatusChanged, notify.EventComplianceNotice} {
		dispatcher.Subscribe(typ, e.Events.record)
	}

	ticketSvc := service.NewTicketService(tickets, users, tx,
		assignment.NewBalancer(users),
		answer.NewDrafter(retriever, llm, payroll, logger),
		dispatcher, logger)

	helpdeskSvc := service.NewHelpdeskService(service.HelpdeskDeps{
		Chat:        chat,
		Tx:          tx,
		Classifier:  triage.NewClassifier(llm, logger),
		Router:      triage.NewRouter(),
		Retriever:   retriever,
		Synthesizer: answer.NewSynthesizer(llm),
		Escalator:   ticketSvc,
		Logger:      logger,
	})

	regPage := filepath.Join(t.TempDir(), "gov_page.html")
	page, err := os.ReadFile(filepath.Join("..", "..", "internal", "regulation", "testdata", "gov_page.html"))
	if err != nil {
		t.Fatalf("failed to read regulation page: %v", err)
	}
	if err := os.WriteFile(regPage, page, 0o644); err != nil {
		t.Fatalf("failed to write regulation page: %v", err)
	}
	engine := compliance.NewEngine(regulation.NewHTMLSource(regPage), index, llm, logger)

	userSvc := service.NewUserService(users)
	indexSvc := service.NewIndexService(corpus.NewS3Source(e.S3Client, "", logger), index, logger)

	return server.NewRouter(server.RouterConfig{
		Logger:            logger,
		Users:             userSvc,
		Sessions:          session.NewMemoryStore(time.Hour),
		InquiryHandler:    handlers.NewInquiryHandler(helpdeskSvc),
		MeHandler:         handlers.NewMeHandler(userSvc),
		TicketHandler:     handlers.NewTicketHandler(ticketSvc),
		AdminHandler:      handlers.NewAdminHandler(indexSvc),
		ComplianceHandler: handlers.NewComplianceHandler(service.NewComplianceService(engine, dispatcher, legalRecipient, logger)),
	})
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.Server != nil {
		e.Server.Close()
	}
	if e.LLM != nil {
		e.LLM.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// Get performs a GET as userID.
func (e *E2ETestEnv) Get(path, userID string) (*APIResponse, error) {
	return e.doRequest(http.MethodGet, path, nil, userID)
}

// Post performs a POST as userID.
func (e *E2ETestEnv) Post(path string, body any, userID string) (*APIResponse, error) {
	return e.doRequest(http.MethodPost, path, body, userID)
}

// Put performs a PUT as userID.
func (e *E2ETestEnv) Put(path string, body any, userID string) (*APIResponse, error) {
	return e.doRequest(http.MethodPut, path, body, userID)
}

// Patch performs a PATCH as userID.
func (e *E2ETestEnv) Patch(path string, body any, userID string) (*APIResponse, error) {
	return e.doRequest(http.MethodPatch, path, body, userID)
}

// doRequest sends a request and returns the decoded envelope for any status.
// Each user keeps the session the server last issued to them.
func (e *E2ETestEnv) doRequest(method, path string, body any, userID string) (*APIResponse, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.Server.URL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
		if sid := e.sessions[userID]; sid != "" {
			req.Header.Set("X-Session-ID", sid)
		}
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if sid := resp.Header.Get("X-Session-ID"); sid != "" && userID != "" {
		e.sessions[userID] = sid
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	out := &APIResponse{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}
	return out, nil
}

type eventLog struct {
	events []notify.Event
}

func (l *eventLog) record(_ context.Context, ev notify.Event) error {
	l.events = append(l.events, ev)
	return nil
}

func (l *eventLog) types() []notify.EventType {
	out := make([]notify.EventType, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Type
	}
	return out
}

// fakeModel answers the chat and embedding endpoints with deterministic
// output. Prompts mentioning "useless" classify as hostile grievances.
func fakeModel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/embeddings"):
		var req openai.EmbeddingRequestStrings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data := make([]openai.Embedding, len(req.Input))
		for i, text := range req.Input {
			data[i] = openai.Embedding{Object: "embedding", Index: i, Embedding: fakeEmbedding(text)}
		}
		_ = json.NewEncoder(w).Encode(openai.EmbeddingResponse{Object: "list", Data: data})

	case strings.HasSuffix(r.URL.Path, "/chat/completions"):
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) < 2 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "fake",
			Object: "chat.completion",
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: fakeReply(req.Messages[0].Content, req.Messages[1].Content)},
				FinishReason: openai.FinishReasonStop,
			}},
		})

	default:
		http.NotFound(w, r)
	}
}

func fakeReply(system, prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(system, "JSON classifier"):
		if strings.Contains(lower, "useless") {
			return `{"intent": "GRIEVANCE_ESCALATION", "type": "L3_SUBJECTIVE", "tone": 4}`
		}
		return `{"intent": "POLICY_FACTS", "type": "L1_FACTUAL", "tone": 1}`
	case strings.Contains(system, "drafting replies"):
		return "Per policy, your overtime will be corrected in the next payroll run."
	case strings.Contains(lower, "extract the 3 main keywords"):
		return "remote work, disconnect, after hours"
	case strings.Contains(lower, "compare these two texts"):
		return "| Current Policy | New Requirement |\n|---|---|\n| none | disconnect after 6 PM |\n\nCompliance Risk Score: High"
	case strings.Contains(lower, "draft a formal email"):
		return "Dear Counsel, please approve the policy update."
	default:
		return "The notice period is 30 days."
	}
}

func fakeEmbedding(text string) []float32 {
	vec := make([]float32, fakeDimensions)
	vec[0] = 1
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[h.Sum32()%fakeDimensions]++
	}
	return vec
}
