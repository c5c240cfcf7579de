package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/auth"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/service"
)

// tokenVerifier accepts tokens of the form "tok-<userID>".
type tokenVerifier struct{}

func (tokenVerifier) Verify(token string) (auth.Claims, error) {
	if id, ok := strings.CutPrefix(token, "tok-"); ok {
		// token aliases fiber's reusable request buffer; copy before it
		// escapes the handler, as the real JWT verifier does implicitly.
		return auth.Claims{ID: strings.Clone(id)}, nil
	}
	return auth.Claims{}, domain.ErrUnauthorized
}

type staticIssuer struct{}

func (staticIssuer) Issue(userID, _ string) (string, error) { return "tok-" + userID, nil }

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(context.Context, domain.Event) {}

type memMessageRepo struct {
	mu    sync.Mutex
	seq   int
	order []string
	msgs  map[string]domain.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{msgs: map[string]domain.Message{}}
}

func (r *memMessageRepo) Insert(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	m.ID = fmt.Sprintf("m%03d", r.seq)
	r.order = append(r.order, m.ID)
	r.msgs[m.ID] = *m
	return nil
}

func (r *memMessageRepo) FindByID(_ context.Context, id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.msgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *memMessageRepo) UpdateText(_ context.Context, id, sender, text string, at time.Time) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.msgs[id]
	if !ok || m.From != sender {
		return nil, domain.ErrNotFound
	}
	m.Text = text
	m.IsEdited = true
	m.EditedAt = &at
	r.msgs[id] = m
	return &m, nil
}

func (r *memMessageRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.msgs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.msgs, id)
	return nil
}

func (r *memMessageRepo) Conversation(_ context.Context, a, b string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Message{}
	for _, id := range r.order {
		m, ok := r.msgs[id]
		if !ok {
			continue
		}
		if (m.From == a && m.To == b) || (m.From == b && m.To == a) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*domain.User{}} }

func (r *memUserRepo) Insert(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	u.ID = fmt.Sprintf("u%03d", r.seq)
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.Email == email })
}

func (r *memUserRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.Phone == phone })
}

func (r *memUserRepo) findBy(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *memUserRepo) ListAll(context.Context) ([]domain.User, error) { return nil, nil }

func (r *memUserRepo) FindMany(context.Context, []string) ([]domain.User, error) { return nil, nil }

func (r *memUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *memUserRepo) AddFriendRequest(context.Context, string, string) error    { return nil }
func (r *memUserRepo) AcceptFriendRequest(context.Context, string, string) error { return nil }
func (r *memUserRepo) RejectFriendRequest(context.Context, string, string) error { return nil }

type testApp struct {
	app   *fiber.App
	users *memUserRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zap.NewNop().Sugar()
	users := newMemUserRepo()
	msgRepo := newMemMessageRepo()

	app := NewServer(Deps{
		Verifier: tokenVerifier{},
		Users:    service.NewUserService(users, staticIssuer{}),
		Friends:  service.NewFriendService(users, nil, log),
		Posts:    service.NewPostService(nil),
		Messages: service.NewMessageService(msgRepo, users, nopDispatcher{}, log),
		Socket:   func(*websocket.Conn) {},
		Log:      log,
	})
	return &testApp{app: app, users: users}
}

func (ta *testApp) seedUser(t *testing.T, name string) string {
	t.Helper()
	u := &domain.User{Fullname: name, Email: name + "@example.com", Phone: name}
	require.NoError(t, ta.users.Insert(context.Background(), u))
	return u.ID
}

func (ta *testApp) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAuthMiddleware(t *testing.T) {
	req := require.New(t)
	ta := newTestApp(t)

	resp := ta.do(t, http.MethodGet, "/api/messages/someone", "", nil)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	req.Equal("No token provided", body["message"])

	reqHTTP := httptest.NewRequest(http.MethodGet, "/api/messages/someone", nil)
	reqHTTP.Header.Set("Authorization", "Bearer bogus")
	resp, err := ta.app.Test(reqHTTP, -1)
	req.NoError(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
	decodeBody(t, resp, &body)
	req.Equal("Invalid token", body["message"])
}

func TestRegisterEndpoint(t *testing.T) {
	req := require.New(t)
	ta := newTestApp(t)

	resp := ta.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"fullname": "Alice Test",
		"dob":      "1990-01-01",
		"phone":    "9800000001",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	req.Equal(http.StatusCreated, resp.StatusCode)
	var body map[string]any
	decodeBody(t, resp, &body)
	req.Equal("You registered successfully!", body["message"])
	req.Equal("Alice Test", body["fullname"])
	req.NotEmpty(body["token"])

	// short password fails validation
	resp = ta.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"fullname": "Bob",
		"dob":      "1990-01-01",
		"phone":    "9800000002",
		"email":    "bob@example.com",
		"password": "short",
	})
	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestSendAndEditMessageEndpoints(t *testing.T) {
	req := require.New(t)
	ta := newTestApp(t)
	alice := ta.seedUser(t, "alice")
	bob := ta.seedUser(t, "bob")

	resp := ta.do(t, http.MethodPost, "/api/messages/", "tok-"+alice, map[string]string{
		"to": bob, "text": "hi",
	})
	req.Equal(http.StatusOK, resp.StatusCode)
	var msg domain.Message
	decodeBody(t, resp, &msg)
	req.NotEmpty(msg.ID)
	req.Equal(alice, msg.From)
	req.Equal(bob, msg.To)

	// recipient cannot edit
	resp = ta.do(t, http.MethodPut, "/api/messages/"+msg.ID, "tok-"+bob, map[string]string{"text": "nope"})
	req.Equal(http.StatusForbidden, resp.StatusCode)

	resp = ta.do(t, http.MethodPut, "/api/messages/"+msg.ID, "tok-"+alice, map[string]string{"text": "hi!"})
	req.Equal(http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &msg)
	req.Equal("hi!", msg.Text)
	req.True(msg.IsEdited)
}

func TestHistoryEndpoint(t *testing.T) {
	req := require.New(t)
	ta := newTestApp(t)
	alice := ta.seedUser(t, "alice")
	bob := ta.seedUser(t, "bob")

	for _, text := range []string{"one", "two"} {
		resp := ta.do(t, http.MethodPost, "/api/messages/", "tok-"+alice, map[string]string{
			"to": bob, "text": text,
		})
		req.Equal(http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := ta.do(t, http.MethodGet, "/api/messages/"+alice, "tok-"+bob, nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var history []domain.Message
	decodeBody(t, resp, &history)
	req.Len(history, 2)
	req.Equal("one", history[0].Text)
	req.Equal("two", history[1].Text)
}

func TestDeleteMessageEndpoint(t *testing.T) {
	req := require.New(t)
	ta := newTestApp(t)
	alice := ta.seedUser(t, "alice")
	bob := ta.seedUser(t, "bob")

	resp := ta.do(t, http.MethodPost, "/api/messages/", "tok-"+alice, map[string]string{
		"to": bob, "text": "bye",
	})
	var msg domain.Message
	decodeBody(t, resp, &msg)

	resp = ta.do(t, http.MethodDelete, "/api/messages/"+msg.ID, "tok-"+bob, nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	req.Equal("Deleted successfully", body["msg"])

	resp = ta.do(t, http.MethodDelete, "/api/messages/"+msg.ID, "tok-"+bob, nil)
	req.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUnavailableBackendsReturn503(t *testing.T) {
	req := require.New(t)
	ta := newTestApp(t)
	alice := ta.seedUser(t, "alice")

	resp := ta.do(t, http.MethodGet, "/api/presence/"+alice, "tok-"+alice, nil)
	req.Equal(http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()

	resp = ta.do(t, http.MethodPost, "/notify", "tok-"+alice, map[string]string{
		"userId": alice, "message": "ping",
	})
	req.Equal(http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthz(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
