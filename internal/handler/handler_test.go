package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"todoapp/internal/handler"
	"todoapp/internal/httpserver"
	"todoapp/internal/model"
	"todoapp/internal/service/auth"
	"todoapp/internal/service/todo"
	"todoapp/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// In-memory stores mirroring the repository semantics. pgx.ErrNoRows is
// what the real repos surface for missing-or-foreign rows.

type fakeUsers struct {
	byEmail map[string]*model.User
	nextID  int
}

func (f *fakeUsers) Create(ctx context.Context, u *model.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return &pgconn.PgError{Code: "23505"}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

type fakeSessions struct {
	byToken map[string]int
	next    int
}

func (f *fakeSessions) Create(ctx context.Context, userID int) (string, error) {
	f.next++
	token := fmt.Sprintf("token-%d", f.next)
	f.byToken[token] = userID
	return token, nil
}

func (f *fakeSessions) Destroy(ctx context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

func (f *fakeSessions) Resolve(ctx context.Context, token string) (int, error) {
	uid, ok := f.byToken[token]
	if !ok {
		return 0, session.ErrNoSession
	}
	return uid, nil
}

type fakeStore struct {
	lists      map[int]model.List
	tasks      map[int]model.Task
	nextListID int
	nextTaskID int
}

func (f *fakeStore) Create(ctx context.Context, l *model.List) error {
	f.nextListID++
	l.ID = f.nextListID
	f.lists[l.ID] = *l
	return nil
}

func (f *fakeStore) ByUser(ctx context.Context, userID int) ([]model.List, error) {
	lists := []model.List{}
	for _, l := range f.lists {
		if l.UserID == userID {
			lists = append(lists, l)
		}
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })
	return lists, nil
}

func (f *fakeStore) ByIDForUser(ctx context.Context, listID, userID int) (*model.List, error) {
	l, ok := f.lists[listID]
	if !ok || l.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return &l, nil
}

func (f *fakeStore) DeleteOwned(ctx context.Context, listID, userID int) error {
	l, ok := f.lists[listID]
	if !ok || l.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.lists, listID)
	for id, t := range f.tasks {
		if t.ListID == listID {
			delete(f.tasks, id)
		}
	}
	return nil
}

func (f *fakeStore) owned(taskID, userID int) (model.Task, bool) {
	t, ok := f.tasks[taskID]
	if !ok {
		return model.Task{}, false
	}
	l, ok := f.lists[t.ListID]
	if !ok || l.UserID != userID {
		return model.Task{}, false
	}
	return t, true
}

type fakeTasks struct {
	*fakeStore
}

func (f fakeTasks) Create(ctx context.Context, t *model.Task) error {
	f.nextTaskID++
	t.ID = f.nextTaskID
	f.tasks[t.ID] = *t
	return nil
}

func (f fakeTasks) ByList(ctx context.Context, listID int) ([]model.Task, error) {
	tasks := []model.Task{}
	for _, t := range f.tasks {
		if t.ListID == listID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID > tasks[j].ID })
	return tasks, nil
}

func (f fakeTasks) ToggleOwned(ctx context.Context, taskID, userID int) (bool, error) {
	t, ok := f.owned(taskID, userID)
	if !ok {
		return false, pgx.ErrNoRows
	}
	t.Complete = !t.Complete
	f.tasks[taskID] = t
	return t.Complete, nil
}

func (f fakeTasks) DeleteOwned(ctx context.Context, taskID, userID int) error {
	if _, ok := f.owned(taskID, userID); !ok {
		return pgx.ErrNoRows
	}
	delete(f.tasks, taskID)
	return nil
}

func (f fakeTasks) UpdateTextOwned(ctx context.Context, taskID, userID int, text string) error {
	t, ok := f.owned(taskID, userID)
	if !ok {
		return pgx.ErrNoRows
	}
	t.Text = text
	f.tasks[taskID] = t
	return nil
}

type env struct {
	router   *httpserver.Router
	users    *fakeUsers
	sessions *fakeSessions
	store    *fakeStore
}

func newEnv(t *testing.T) *env {
	t.Helper()

	users := &fakeUsers{byEmail: map[string]*model.User{}}
	sessions := &fakeSessions{byToken: map[string]int{}}
	store := &fakeStore{lists: map[int]model.List{}, tasks: map[int]model.Task{}}

	logger := zap.NewNop()
	authService := auth.NewService(users, sessions)
	todoService := todo.NewService(store, fakeTasks{store})

	router := httpserver.NewRouter(
		handler.NewAuthHandler(authService, time.Hour, logger),
		handler.NewHomeHandler(todoService, logger),
		handler.NewListHandler(todoService, logger),
		handler.NewTaskHandler(todoService, logger),
		sessions,
		logger,
		nil,
		nil,
	)

	return &env{router: router, users: users, sessions: sessions, store: store}
}

// sessionCookie registers a user directly and returns their cookie.
func (e *env) sessionCookie(t *testing.T, email string) *http.Cookie {
	t.Helper()
	e.users.nextID++
	uid := e.users.nextID
	e.users.byEmail[email] = &model.User{ID: uid, Name: "Test", Email: email}
	token, err := e.sessions.Create(context.Background(), uid)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func (e *env) doJSON(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.Engine.ServeHTTP(w, req)
	return w
}

func (e *env) doForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.Engine.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name && c.Value != "" {
			return c
		}
	}
	return nil
}

func TestLoginRequiredForAPIRoutes(t *testing.T) {
	e := newEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/create-list"},
		{http.MethodGet, "/get-tasks-for-list/1"},
		{http.MethodPost, "/add-task"},
		{http.MethodPost, "/toggle-task/1"},
		{http.MethodPost, "/delete-task/1"},
		{http.MethodPost, "/update-task-text/1"},
		{http.MethodPost, "/delete-list/1"},
	}

	for _, p := range paths {
		t.Run(p.path, func(t *testing.T) {
			w := e.doJSON(t, p.method, p.path, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "login required", decodeJSON(t, w)["error"])
		})
	}
}

func TestHomeLoggedOut(t *testing.T) {
	e := newEnv(t)

	w := e.doJSON(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	assert.Equal(t, false, body["logged_in"])
	assert.Empty(t, body["lists"])
	assert.Empty(t, body["tasks"])
}

func TestRegisterFlow(t *testing.T) {
	e := newEnv(t)

	form := url.Values{
		"name":     {"Ada"},
		"email":    {"ada@example.com"},
		"password": {"hunter2"},
	}
	w := e.doForm(t, "/register", form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookie := responseCookie(w, session.CookieName)
	require.NotNil(t, cookie, "registration must establish a session")

	// First home view creates the default list.
	w = e.doJSON(t, http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, true, body["logged_in"])
	assert.Equal(t, todo.DefaultListName, body["current_list_name"])
	lists := body["lists"].([]any)
	require.Len(t, lists, 1)

	// Registering the same email again redirects to the login page.
	w = e.doForm(t, "/register", form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLoginFlow(t *testing.T) {
	e := newEnv(t)

	form := url.Values{
		"name":     {"Ada"},
		"email":    {"ada@example.com"},
		"password": {"hunter2"},
	}
	e.doForm(t, "/register", form)

	w := e.doForm(t, "/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"wrong"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Nil(t, responseCookie(w, session.CookieName))

	w = e.doForm(t, "/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"hunter2"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotNil(t, responseCookie(w, session.CookieName))
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	cookie := e.sessionCookie(t, "ada@example.com")

	w := e.doJSON(t, http.MethodGet, "/logout", nil, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// The session is gone server-side; the old cookie no longer works.
	w = e.doJSON(t, http.MethodPost, "/create-list", gin.H{"name": "X"}, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRequiresLogin(t *testing.T) {
	e := newEnv(t)

	w := e.doJSON(t, http.MethodGet, "/logout", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestCreateList(t *testing.T) {
	e := newEnv(t)
	cookie := e.sessionCookie(t, "ada@example.com")

	w := e.doJSON(t, http.MethodPost, "/create-list", gin.H{"name": "Work"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Work", body["name"])
	assert.NotZero(t, body["id"])

	w = e.doJSON(t, http.MethodPost, "/create-list", gin.H{"name": "   "}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddTask(t *testing.T) {
	e := newEnv(t)
	cookie := e.sessionCookie(t, "ada@example.com")

	w := e.doJSON(t, http.MethodPost, "/create-list", gin.H{"name": "Work"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	listID := int(decodeJSON(t, w)["id"].(float64))

	w = e.doJSON(t, http.MethodPost, "/add-task", gin.H{
		"text":     "write report",
		"list_id":  listID,
		"due_date": "2024-02-29",
		"priority": "high",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "write report", body["text"])
	assert.Equal(t, false, body["complete"])
	assert.Equal(t, "2024-02-29", body["due_date"])
	assert.Equal(t, "high", body["priority"])

	// Invalid calendar date.
	w = e.doJSON(t, http.MethodPost, "/add-task", gin.H{
		"text":     "bad",
		"list_id":  listID,
		"due_date": "2024-02-30",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Blank text.
	w = e.doJSON(t, http.MethodPost, "/add-task", gin.H{
		"text":    "   ",
		"list_id": listID,
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Someone else's list looks nonexistent.
	other := e.sessionCookie(t, "eve@example.com")
	w = e.doJSON(t, http.MethodPost, "/add-task", gin.H{
		"text":    "sneaky",
		"list_id": listID,
	}, other)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTasksForList(t *testing.T) {
	e := newEnv(t)
	cookie := e.sessionCookie(t, "ada@example.com")

	w := e.doJSON(t, http.MethodPost, "/create-list", gin.H{"name": "Work"}, cookie)
	listID := int(decodeJSON(t, w)["id"].(float64))

	for _, text := range []string{"first", "second"} {
		w = e.doJSON(t, http.MethodPost, "/add-task", gin.H{"text": text, "list_id": listID}, cookie)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = e.doJSON(t, http.MethodGet, fmt.Sprintf("/get-tasks-for-list/%d", listID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Work", body["list_name"])
	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].(map[string]any)["text"])
	assert.Equal(t, "first", tasks[1].(map[string]any)["text"])

	other := e.sessionCookie(t, "eve@example.com")
	w = e.doJSON(t, http.MethodGet, fmt.Sprintf("/get-tasks-for-list/%d", listID), nil, other)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleDeleteUpdate(t *testing.T) {
	e := newEnv(t)
	cookie := e.sessionCookie(t, "ada@example.com")

	w := e.doJSON(t, http.MethodPost, "/create-list", gin.H{"name": "Work"}, cookie)
	listID := int(decodeJSON(t, w)["id"].(float64))
	w = e.doJSON(t, http.MethodPost, "/add-task", gin.H{"text": "flip", "list_id": listID}, cookie)
	taskID := int(decodeJSON(t, w)["id"].(float64))

	w = e.doJSON(t, http.MethodPost, fmt.Sprintf("/toggle-task/%d", taskID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeJSON(t, w)["new_status"])

	w = e.doJSON(t, http.MethodPost, fmt.Sprintf("/toggle-task/%d", taskID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeJSON(t, w)["new_status"])

	w = e.doJSON(t, http.MethodPost, fmt.Sprintf("/update-task-text/%d", taskID), gin.H{"text": "renamed"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "renamed", decodeJSON(t, w)["new_text"])

	// Foreign and missing task ids answer identically.
	other := e.sessionCookie(t, "eve@example.com")
	wForeign := e.doJSON(t, http.MethodPost, fmt.Sprintf("/delete-task/%d", taskID), nil, other)
	wMissing := e.doJSON(t, http.MethodPost, "/delete-task/99999", nil, other)
	assert.Equal(t, http.StatusNotFound, wForeign.Code)
	assert.Equal(t, wMissing.Code, wForeign.Code)
	assert.Equal(t, decodeJSON(t, wMissing)["error"], decodeJSON(t, wForeign)["error"])

	w = e.doJSON(t, http.MethodPost, fmt.Sprintf("/delete-task/%d", taskID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeJSON(t, w)["success"])
}

func TestDeleteList(t *testing.T) {
	e := newEnv(t)
	cookie := e.sessionCookie(t, "ada@example.com")

	w := e.doJSON(t, http.MethodPost, "/create-list", gin.H{"name": "Doomed"}, cookie)
	listID := int(decodeJSON(t, w)["id"].(float64))
	e.doJSON(t, http.MethodPost, "/add-task", gin.H{"text": "gone soon", "list_id": listID}, cookie)

	w = e.doJSON(t, http.MethodPost, fmt.Sprintf("/delete-list/%d", listID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, e.store.tasks, "cascade must remove the list's tasks")

	w = e.doJSON(t, http.MethodPost, fmt.Sprintf("/delete-list/%d", listID), nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
