package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tactache/tactache-api/internal/dto"
	apierrors "github.com/tactache/tactache-api/internal/errors"
	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/policy"
)

// TaskHandlerTestSuite drives the task endpoints through the router
type TaskHandlerTestSuite struct {
	suite.Suite
	env testEnv

	manager       *models.User
	managerCookie []*http.Cookie
	collab        *models.User
	collabCookie  []*http.Cookie
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T(), policy.Default())
	suite.manager, suite.managerCookie = suite.env.register(suite.T(), "marie", models.RoleManager)
	suite.collab, suite.collabCookie = suite.env.register(suite.T(), "alice", models.RoleCollaborator)
}

func (suite *TaskHandlerTestSuite) createTask(cookies []*http.Cookie, body map[string]interface{}) dto.TaskDTO {
	w := suite.env.do(suite.T(), http.MethodPost, "/api/tasks", body, cookies)
	suite.Require().Equal(http.StatusOK, w.Code)

	var task dto.TaskDTO
	decodeData(suite.T(), w, &task)
	return task
}

func taskURL(id uint64, suffix string) string {
	return fmt.Sprintf("/api/tasks/%d%s", id, suffix)
}

func (suite *TaskHandlerTestSuite) TestRequiresSession() {
	for _, route := range []struct{ method, url string }{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodGet, "/api/tasks/1"},
		{http.MethodGet, "/api/calendar"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/tasks/export"},
	} {
		w := suite.env.do(suite.T(), route.method, route.url, nil, nil)
		suite.Equal(http.StatusUnauthorized, w.Code, route.url)
		suite.Equal(apierrors.ErrCodeUnauthorized, decode(suite.T(), w).Code)
	}
}

func (suite *TaskHandlerTestSuite) TestCreateAndGetTask() {
	created := suite.createTask(suite.collabCookie, map[string]interface{}{
		"title":       "Write report",
		"description": "quarterly",
		"due_date":    "2024-03-01T10:00",
	})

	suite.Equal("Write report", created.Title)
	suite.Equal(models.TaskStatusTodo, created.Status)
	suite.Equal("À Faire", created.StatusLabel)
	suite.Equal("2024-03-01T10:00", created.DueDate)
	suite.Equal(suite.collab.ID, created.CreatedBy)
	suite.Require().NotNil(created.Creator)
	suite.Equal("alice", created.Creator.Username)

	w := suite.env.do(suite.T(), http.MethodGet, taskURL(created.ID, ""), nil, suite.managerCookie)
	suite.Require().Equal(http.StatusOK, w.Code)
	var fetched dto.TaskDTO
	decodeData(suite.T(), w, &fetched)
	suite.Equal(created.ID, fetched.ID)
	suite.Equal("2024-03-01T10:00", fetched.DueDate)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Failures() {
	w := suite.env.do(suite.T(), http.MethodPost, "/api/tasks", "{not json", suite.collabCookie)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, "/api/tasks", map[string]interface{}{"title": "  "}, suite.collabCookie)
	suite.Equal(http.StatusOK, w.Code)
	body := decode(suite.T(), w)
	suite.False(body.Success)
	suite.Equal(apierrors.ErrCodeInvalidInput, body.Code)
	suite.Equal("title is required", body.Error)

	w = suite.env.do(suite.T(), http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":       "delegate",
		"assigned_to": suite.manager.ID,
	}, suite.collabCookie)
	body = decode(suite.T(), w)
	suite.False(body.Success)
	suite.Equal(apierrors.ErrCodeInsufficientPermissions, body.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_BadAndMissingID() {
	w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks/abc", nil, suite.collabCookie)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/tasks/9999", nil, suite.collabCookie)
	suite.Equal(http.StatusOK, w.Code)
	body := decode(suite.T(), w)
	suite.False(body.Success)
	suite.Equal(apierrors.ErrCodeNotFound, body.Code)
}

func (suite *TaskHandlerTestSuite) TestBoard() {
	w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks", nil, suite.collabCookie)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"success":true,"data":{"todo":[],"in_progress":[],"done":[]}}`, w.Body.String())

	task := suite.createTask(suite.collabCookie, map[string]interface{}{"title": "ship it"})
	w = suite.env.do(suite.T(), http.MethodPut, taskURL(task.ID, ""), map[string]interface{}{
		"title":  "ship it",
		"status": "done",
	}, suite.collabCookie)
	suite.Require().True(decode(suite.T(), w).Success)

	var board dto.BoardDTO
	decodeData(suite.T(), suite.env.do(suite.T(), http.MethodGet, "/api/tasks", nil, suite.managerCookie), &board)
	suite.Empty(board.Todo)
	suite.Require().Len(board.Done, 1)
	suite.Equal("Terminé", board.Done[0].StatusLabel)
}

func (suite *TaskHandlerTestSuite) TestAssigneeUpdatesButCannotDelete() {
	task := suite.createTask(suite.managerCookie, map[string]interface{}{
		"title":       "shared",
		"assigned_to": suite.collab.ID,
	})

	w := suite.env.do(suite.T(), http.MethodPut, taskURL(task.ID, ""), map[string]interface{}{
		"title":       "shared",
		"status":      "in_progress",
		"assigned_to": suite.collab.ID,
	}, suite.collabCookie)
	var updated dto.TaskDTO
	decodeData(suite.T(), w, &updated)
	suite.Equal(models.TaskStatusInProgress, updated.Status)

	w = suite.env.do(suite.T(), http.MethodDelete, taskURL(task.ID, ""), nil, suite.collabCookie)
	suite.Equal(http.StatusOK, w.Code)
	body := decode(suite.T(), w)
	suite.False(body.Success)
	suite.Equal(apierrors.ErrCodeInsufficientPermissions, body.Code)
	suite.Contains(body.Error, "creator or a manager")

	w = suite.env.do(suite.T(), http.MethodDelete, taskURL(task.ID, ""), nil, suite.managerCookie)
	suite.True(decode(suite.T(), w).Success)

	w = suite.env.do(suite.T(), http.MethodDelete, taskURL(task.ID, ""), nil, suite.managerCookie)
	suite.Equal(apierrors.ErrCodeNotFound, decode(suite.T(), w).Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_DeniedAsksForRefresh() {
	task := suite.createTask(suite.managerCookie, map[string]interface{}{"title": "manager only"})

	w := suite.env.do(suite.T(), http.MethodPut, taskURL(task.ID, ""), map[string]interface{}{"title": "hijack"}, suite.collabCookie)
	body := decode(suite.T(), w)
	suite.False(body.Success)
	suite.True(body.Refresh)
	suite.Equal(apierrors.ErrCodeInsufficientPermissions, body.Code)

	w = suite.env.do(suite.T(), http.MethodPut, taskURL(9999, ""), map[string]interface{}{"title": "ghost"}, suite.collabCookie)
	suite.Equal(apierrors.ErrCodeNotFound, decode(suite.T(), w).Code)
}

func (suite *TaskHandlerTestSuite) TestCalendarAndReschedule() {
	dated := suite.createTask(suite.collabCookie, map[string]interface{}{"title": "dated", "due_date": "2024-03-01T10:00"})
	suite.createTask(suite.collabCookie, map[string]interface{}{"title": "undated"})

	var events []dto.CalendarEventDTO
	decodeData(suite.T(), suite.env.do(suite.T(), http.MethodGet, "/api/calendar", nil, suite.managerCookie), &events)
	suite.Require().Len(events, 1)
	suite.Equal(dated.ID, events[0].ID)
	suite.Equal("2024-03-01T10:00:00", events[0].Start)
	suite.True(events[0].AllDay)
	suite.Equal(models.TaskStatusTodo, events[0].ExtendedProps.Status)

	w := suite.env.do(suite.T(), http.MethodPatch, taskURL(dated.ID, "/due-date"), map[string]string{"new_date": "2024-03-08T09:30:00"}, suite.collabCookie)
	var moved dto.TaskDTO
	decodeData(suite.T(), w, &moved)
	suite.Equal("2024-03-08T09:30", moved.DueDate)

	w = suite.env.do(suite.T(), http.MethodPatch, taskURL(dated.ID, "/due-date"), map[string]string{"new_date": ""}, suite.collabCookie)
	suite.Equal(apierrors.ErrCodeInvalidInput, decode(suite.T(), w).Code)
}

func (suite *TaskHandlerTestSuite) TestComments() {
	task := suite.createTask(suite.collabCookie, map[string]interface{}{"title": "discuss"})

	w := suite.env.do(suite.T(), http.MethodPost, taskURL(task.ID, "/comments"), map[string]string{"content": "first"}, suite.managerCookie)
	var comment dto.CommentDTO
	decodeData(suite.T(), w, &comment)
	suite.Equal("first", comment.Content)
	suite.Require().NotNil(comment.Author)
	suite.Equal("marie", comment.Author.Username)

	suite.env.do(suite.T(), http.MethodPost, taskURL(task.ID, "/comments"), map[string]string{"content": "second"}, suite.collabCookie)

	w = suite.env.do(suite.T(), http.MethodPost, taskURL(task.ID, "/comments"), map[string]string{"content": " "}, suite.collabCookie)
	suite.Equal(apierrors.ErrCodeInvalidInput, decode(suite.T(), w).Code)

	var page dto.CommentListResponse
	decodeData(suite.T(), suite.env.do(suite.T(), http.MethodGet, taskURL(task.ID, "/comments?limit=1"), nil, suite.collabCookie), &page)
	suite.Equal(int64(2), page.Pagination.Total)
	suite.Equal(1, page.Pagination.Limit)
	suite.Require().Len(page.Comments, 1)
	suite.Equal("first", page.Comments[0].Content)

	w = suite.env.do(suite.T(), http.MethodGet, taskURL(9999, "/comments"), nil, suite.collabCookie)
	suite.Equal(apierrors.ErrCodeNotFound, decode(suite.T(), w).Code)
}

func (suite *TaskHandlerTestSuite) TestExport() {
	suite.createTask(suite.collabCookie, map[string]interface{}{"title": "export me", "due_date": "2024-03-01"})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks/export", nil, suite.collabCookie)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "attachment")
	suite.True(bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = suite.env.do(suite.T(), http.MethodGet, "/api/tasks/export?status=archived", nil, suite.collabCookie)
	suite.Equal(apierrors.ErrCodeInvalidInput, decode(suite.T(), w).Code)
}

func (suite *TaskHandlerTestSuite) TestInvolvedVisibility() {
	suite.env = newTestEnv(suite.T(), policy.Policy{Visibility: policy.VisibilityInvolved})
	_, ownerCookie := suite.env.register(suite.T(), "olivia", models.RoleCollaborator)
	_, otherCookie := suite.env.register(suite.T(), "oscar", models.RoleCollaborator)

	task := suite.createTask(ownerCookie, map[string]interface{}{"title": "private"})

	w := suite.env.do(suite.T(), http.MethodGet, taskURL(task.ID, ""), nil, otherCookie)
	body := decode(suite.T(), w)
	suite.False(body.Success)
	suite.True(body.Refresh)

	var board dto.BoardDTO
	decodeData(suite.T(), suite.env.do(suite.T(), http.MethodGet, "/api/tasks", nil, otherCookie), &board)
	suite.Empty(board.Todo)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
