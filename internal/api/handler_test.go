package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/avern/runyard/internal/auth"
	"github.com/avern/runyard/internal/runner"
	"github.com/avern/runyard/internal/sandbox"
	"github.com/avern/runyard/internal/store"
	"github.com/avern/runyard/internal/vault"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memQuerier implements store.Querier in memory for handler tests.
type memQuerier struct {
	mu    sync.Mutex
	users map[string]*store.User
	files map[uuid.UUID]store.File
}

func newMemQuerier() *memQuerier {
	return &memQuerier{
		users: make(map[string]*store.User),
		files: make(map[uuid.UUID]store.File),
	}
}

func (q *memQuerier) CreateUser(_ context.Context, arg store.CreateUserParams) (store.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	u := store.User{ID: arg.ID, Email: arg.Email, PasswordHash: arg.PasswordHash, CreatedAt: time.Now()}
	q.users[arg.Email] = &u
	return u, nil
}

func (q *memQuerier) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	u, ok := q.users[email]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	return *u, nil
}

func (q *memQuerier) GetUserByID(_ context.Context, id uuid.UUID) (store.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, u := range q.users {
		if u.ID == id {
			return *u, nil
		}
	}
	return store.User{}, pgx.ErrNoRows
}

func (q *memQuerier) AppendSavedFile(_ context.Context, arg store.AppendSavedFileParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, u := range q.users {
		if u.ID == arg.UserID {
			u.SavedFileIDs = append(u.SavedFileIDs, arg.FileID)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (q *memQuerier) CreateFile(_ context.Context, arg store.CreateFileParams) (store.File, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	f := store.File{
		ID:           arg.ID,
		OwnerID:      arg.OwnerID,
		OriginalName: arg.OriginalName,
		StoredName:   arg.StoredName,
		UploadedAt:   time.Now(),
	}
	q.files[arg.ID] = f
	return f, nil
}

func (q *memQuerier) GetFile(_ context.Context, arg store.GetFileParams) (store.File, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	f, ok := q.files[arg.ID]
	if !ok || f.OwnerID != arg.OwnerID {
		return store.File{}, pgx.ErrNoRows
	}
	return f, nil
}

func (q *memQuerier) ListFilesByOwner(_ context.Context, ownerID uuid.UUID) ([]store.File, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []store.File
	for _, f := range q.files {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (q *memQuerier) RenameFile(_ context.Context, arg store.RenameFileParams) (store.File, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	f, ok := q.files[arg.ID]
	if !ok || f.OwnerID != arg.OwnerID {
		return store.File{}, pgx.ErrNoRows
	}
	f.OriginalName = arg.Name
	q.files[arg.ID] = f
	return f, nil
}

func (q *memQuerier) CreateStagedSubmission(_ context.Context, arg store.CreateStagedSubmissionParams) (store.StagedSubmission, error) {
	return store.StagedSubmission{ID: arg.ID, Filename: arg.Filename, Code: arg.Code}, nil
}

func (q *memQuerier) DeleteStagedSubmission(context.Context, uuid.UUID) error {
	return nil
}

var _ store.Querier = (*memQuerier)(nil)

// memBlobStore implements vault.BlobStore in memory.
type memBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (m *memBlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[key] = data
	m.mu.Unlock()
	return nil
}

func (m *memBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	data, ok := m.blobs[key]
	m.mu.Unlock()
	if !ok {
		return nil, vault.ErrBlobMissing
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBlobStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.blobs, key)
	m.mu.Unlock()
	return nil
}

// stubRunner returns a fixed result or error.
type stubRunner struct {
	result *sandbox.Result
	err    error
	got    runner.Request
}

func (s *stubRunner) Run(_ context.Context, req runner.Request) (*sandbox.Result, error) {
	s.got = req
	return s.result, s.err
}

func newTestHandler(run CodeRunner) (*Handler, *auth.Service, *memQuerier) {
	q := newMemQuerier()
	authSvc := auth.NewService(q, "test-secret")
	vaultSvc := vault.NewService(q, newMemBlobStore(), zap.NewNop())
	return NewHandler(run, authSvc, vaultSvc), authSvc, q
}

// ginCtx builds a Gin test context, optionally with an authenticated user set.
func ginCtx(method, path string, body []byte, contentType string, user *store.User, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.Request = req
	c.Params = params
	if user != nil {
		c.Set("user", user)
	}
	return c, w
}

// --- /run ---

func TestRun_PassesSandboxResultThrough(t *testing.T) {
	code := 0
	run := &stubRunner{result: &sandbox.Result{Stdout: "2\n", ExitCode: &code}}
	h, _, _ := newTestHandler(run)

	body, _ := json.Marshal(map[string]string{"language": "python", "code": "print(1+1)"})
	c, w := ginCtx("POST", "/run", body, "application/json", nil, nil)
	h.Run(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["stdout"] != "2\n" {
		t.Errorf("stdout = %v", resp["stdout"])
	}
	if resp["exit_code"] != float64(0) {
		t.Errorf("exit_code = %v", resp["exit_code"])
	}
	if run.got.Language != "python" {
		t.Errorf("language forwarded = %q", run.got.Language)
	}
}

func TestRun_MissingFields_Returns400(t *testing.T) {
	h, _, _ := newTestHandler(&stubRunner{})

	for _, body := range []string{`{"language":"python"}`, `{"code":"x"}`, `{}`, `not json`} {
		c, w := ginCtx("POST", "/run", []byte(body), "application/json", nil, nil)
		h.Run(c)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
		var resp map[string]string
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["error"] != "Language and code are required" {
			t.Errorf("body %q: error = %q", body, resp["error"])
		}
	}
}

func TestRun_UnsupportedLanguage_Returns400(t *testing.T) {
	run := &stubRunner{err: fmt.Errorf("%w for cobol", runner.ErrUnsupportedLanguage)}
	h, _, _ := newTestHandler(run)

	body, _ := json.Marshal(map[string]string{"language": "cobol", "code": "x"})
	c, w := ginCtx("POST", "/run", body, "application/json", nil, nil)
	h.Run(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "No default version for cobol" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestRun_SandboxUnreachable_Returns502(t *testing.T) {
	run := &stubRunner{err: fmt.Errorf("%w: connection refused", sandbox.ErrUnreachable)}
	h, _, _ := newTestHandler(run)

	body, _ := json.Marshal(map[string]string{"language": "python", "code": "x"})
	c, w := ginCtx("POST", "/run", body, "application/json", nil, nil)
	h.Run(c)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestRun_SandboxReportedFailure_SurfacesMessage(t *testing.T) {
	run := &stubRunner{err: &sandbox.RemoteError{StatusCode: 400, Message: "runtime is unknown"}}
	h, _, _ := newTestHandler(run)

	body, _ := json.Marshal(map[string]string{"language": "python", "code": "x"})
	c, w := ginCtx("POST", "/run", body, "application/json", nil, nil)
	h.Run(c)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "runtime is unknown" {
		t.Errorf("error = %q", resp["error"])
	}
}

// --- /register and /login ---

func TestRegister_Duplicate_Returns400(t *testing.T) {
	h, _, _ := newTestHandler(&stubRunner{})

	body, _ := json.Marshal(map[string]string{"email": "a@x.com", "password": "pw"})
	c, w := ginCtx("POST", "/register", body, "application/json", nil, nil)
	h.Register(c)
	if w.Code != http.StatusOK {
		t.Fatalf("first register: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body2, _ := json.Marshal(map[string]string{"email": "a@x.com", "password": "pw2"})
	c, w = ginCtx("POST", "/register", body2, "application/json", nil, nil)
	h.Register(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second register: expected 400, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "User already exists" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestLogin_FormCredentials(t *testing.T) {
	h, _, _ := newTestHandler(&stubRunner{})

	body, _ := json.Marshal(map[string]string{"email": "a@x.com", "password": "hunter2"})
	c, _ := ginCtx("POST", "/register", body, "application/json", nil, nil)
	h.Register(c)

	form := url.Values{"username": {"a@x.com"}, "password": {"hunter2"}}
	c, w := ginCtx("POST", "/login", []byte(form.Encode()), "application/x-www-form-urlencoded", nil, nil)
	h.Login(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["access_token"] == "" {
		t.Error("no access_token in response")
	}
	if resp["token_type"] != "bearer" {
		t.Errorf("token_type = %q", resp["token_type"])
	}
}

func TestLogin_BadCredentials_Returns401(t *testing.T) {
	h, _, _ := newTestHandler(&stubRunner{})

	form := url.Values{"username": {"nobody@x.com"}, "password": {"pw"}}
	c, w := ginCtx("POST", "/login", []byte(form.Encode()), "application/x-www-form-urlencoded", nil, nil)
	h.Login(c)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// --- file handlers ---

func registerUser(t *testing.T, q *memQuerier, email string) *store.User {
	t.Helper()
	u, err := q.CreateUser(context.Background(), store.CreateUserParams{
		ID: uuid.New(), Email: email, PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &u
}

func uploadFile(t *testing.T, h *Handler, u *store.User, name, content string) uuid.UUID {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", name)
	fw.Write([]byte(content))
	mw.Close()

	c, w := ginCtx("POST", "/upload", buf.Bytes(), mw.FormDataContentType(), u, nil)
	h.Upload(c)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		FileID uuid.UUID `json:"file_id"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.FileID
}

func TestUploadDownload_RoundTrip(t *testing.T) {
	h, _, q := newTestHandler(&stubRunner{})
	u := registerUser(t, q, "a@x.com")

	id := uploadFile(t, h, u, "notes.txt", "hello vault")

	c, w := ginCtx("GET", "/download/"+id.String(), nil, "", u,
		gin.Params{{Key: "id", Value: id.String()}})
	h.Download(c)

	if w.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "hello vault" {
		t.Errorf("downloaded %q", w.Body.String())
	}
}

func TestDownload_OtherAccount_Returns404(t *testing.T) {
	h, _, q := newTestHandler(&stubRunner{})
	alice := registerUser(t, q, "alice@x.com")
	bob := registerUser(t, q, "bob@x.com")

	id := uploadFile(t, h, alice, "notes.txt", "private")

	c, w := ginCtx("GET", "/download/"+id.String(), nil, "", bob,
		gin.Params{{Key: "id", Value: id.String()}})
	h.Download(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for cross-account download, got %d", w.Code)
	}
}

func TestRename_WhitespaceName_Returns400(t *testing.T) {
	h, _, q := newTestHandler(&stubRunner{})
	u := registerUser(t, q, "a@x.com")
	id := uploadFile(t, h, u, "notes.txt", "x")

	body, _ := json.Marshal(map[string]string{"filename": "  "})
	c, w := ginCtx("PUT", "/files/"+id.String()+"/rename", body, "application/json", u,
		gin.Params{{Key: "id", Value: id.String()}})
	h.Rename(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "Filename cannot be empty" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestRename_InvalidID_Returns400(t *testing.T) {
	h, _, q := newTestHandler(&stubRunner{})
	u := registerUser(t, q, "a@x.com")

	body, _ := json.Marshal(map[string]string{"filename": "new.txt"})
	c, w := ginCtx("PUT", "/files/nope/rename", body, "application/json", u,
		gin.Params{{Key: "id", Value: "nope"}})
	h.Rename(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRename_OtherAccount_Returns404(t *testing.T) {
	h, _, q := newTestHandler(&stubRunner{})
	alice := registerUser(t, q, "alice@x.com")
	bob := registerUser(t, q, "bob@x.com")
	id := uploadFile(t, h, alice, "notes.txt", "x")

	body, _ := json.Marshal(map[string]string{"filename": "mine-now.txt"})
	c, w := ginCtx("PUT", "/files/"+id.String()+"/rename", body, "application/json", bob,
		gin.Params{{Key: "id", Value: id.String()}})
	h.Rename(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for cross-account rename, got %d", w.Code)
	}
}

// --- full router through the auth middleware ---

func TestRouter_BearerAuthEndToEnd(t *testing.T) {
	code := 0
	run := &stubRunner{result: &sandbox.Result{Stdout: "2\n", ExitCode: &code}}
	h, authSvc, _ := newTestHandler(run)

	router := gin.New()
	RegisterRoutes(router, h, authSvc)

	// Unauthenticated /files is rejected.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/files", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", w.Code)
	}

	// Register and log in.
	regBody, _ := json.Marshal(map[string]string{"email": "a@x.com", "password": "pw"})
	w = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/register", bytes.NewReader(regBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("register: %d: %s", w.Code, w.Body.String())
	}

	form := url.Values{"username": {"a@x.com"}, "password": {"pw"}}
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d: %s", w.Code, w.Body.String())
	}
	var login struct {
		AccessToken string `json:"access_token"`
	}
	json.Unmarshal(w.Body.Bytes(), &login)

	// Authenticated /files succeeds and is empty.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/files", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("files: %d: %s", w.Code, w.Body.String())
	}

	// A garbage token is rejected.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/files", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", w.Code)
	}
}

func TestRouter_PingAndHealth(t *testing.T) {
	h, authSvc, _ := newTestHandler(&stubRunner{})
	router := gin.New()
	RegisterRoutes(router, h, authSvc)

	for _, path := range []string{"/ping", "/health", "/alive"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}

	var resp map[string]string
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "alive" {
		t.Errorf("ping status = %q", resp["status"])
	}
}

// --- /me ---

func TestMe_ReturnsUserAndFiles(t *testing.T) {
	h, _, q := newTestHandler(&stubRunner{})
	u := registerUser(t, q, "a@x.com")
	uploadFile(t, h, u, "notes.txt", "x")

	// FromContext reads the freshest user row; reload it so saved file ids
	// reflect the upload.
	fresh, _ := q.GetUserByEmail(context.Background(), "a@x.com")
	c, w := ginCtx("GET", "/me", nil, "", &fresh, nil)
	h.Me(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		User  map[string]any   `json:"user"`
		Files []map[string]any `json:"files"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.User["email"] != "a@x.com" {
		t.Errorf("user = %v", resp.User)
	}
	if len(resp.Files) != 1 {
		t.Errorf("files = %v", resp.Files)
	}
}
