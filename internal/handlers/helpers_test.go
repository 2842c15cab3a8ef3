package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tactache/tactache-api/internal/constants"
	"github.com/tactache/tactache-api/internal/database"
	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/policy"
	"github.com/tactache/tactache-api/internal/repository"
	"github.com/tactache/tactache-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// envelope mirrors the JSON wrapper of every API response
type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
	Refresh bool            `json:"refresh"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	services Services
}

func newTestEnv(t *testing.T, pol policy.Policy) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	log := nopLogger()
	require.NoError(t, database.Migrate(db, log))

	taskRepo := repository.NewTaskRepository(db)
	svc := Services{
		Auth:     services.NewAuthService(repository.NewUserRepository(db)),
		Tasks:    services.NewTaskService(taskRepo, pol, time.UTC),
		Comments: services.NewCommentService(repository.NewCommentRepository(db), taskRepo, pol),
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	RegisterRoutes(r, svc, log, time.UTC)

	return testEnv{db: db, router: r, services: svc}
}

func (e testEnv) do(t *testing.T, method, url string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates an account and returns the session cookies of a login.
func (e testEnv) register(t *testing.T, username string, role models.Role) (*models.User, []*http.Cookie) {
	t.Helper()

	user, err := e.services.Auth.Register(context.Background(), services.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
		Role:     string(role),
	})
	require.NoError(t, err)

	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username_or_email": username,
		"password":          "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")

	return user, cookies
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
