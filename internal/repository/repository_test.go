package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type RepositoryTestSuite struct {
	suite.Suite
	db       *gorm.DB
	ctx      context.Context
	tasks    TaskRepository
	comments CommentRepository
	users    UserRepository
	alice    *models.User
	bob      *models.User
}

func (suite *RepositoryTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(suite.db.AutoMigrate(&models.User{}, &models.Task{}, &models.Comment{}))

	suite.ctx = context.Background()
	suite.tasks = NewTaskRepository(suite.db)
	suite.comments = NewCommentRepository(suite.db)
	suite.users = NewUserRepository(suite.db)

	suite.alice = suite.createUser("alice", models.RoleManager)
	suite.bob = suite.createUser("bob", models.RoleCollaborator)
}

func (suite *RepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *RepositoryTestSuite) createUser(name string, role models.Role) *models.User {
	user := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	suite.Require().NoError(suite.users.Create(suite.ctx, user))
	return user
}

func (suite *RepositoryTestSuite) createTask(title string, createdBy uint64, assignedTo *uint64, due *time.Time) *models.Task {
	task := &models.Task{Title: title, Status: models.TaskStatusTodo, CreatedBy: createdBy, AssignedTo: assignedTo, DueDate: due}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task))
	return task
}

func at(day int) *time.Time {
	t := time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC)
	return &t
}

func (suite *RepositoryTestSuite) TestList_OrdersByDueDateWithUndatedLast() {
	undated := suite.createTask("undated", suite.alice.ID, nil, nil)
	late := suite.createTask("late", suite.alice.ID, nil, at(20))
	early := suite.createTask("early", suite.alice.ID, nil, at(5))

	tasks, err := suite.tasks.List(suite.ctx, TaskFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 3)
	suite.Equal([]uint64{early.ID, late.ID, undated.ID}, []uint64{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	suite.Equal("alice", tasks[0].Creator.Username)
}

func (suite *RepositoryTestSuite) TestList_Filters() {
	bobID := suite.bob.ID
	mine := suite.createTask("bob's", suite.bob.ID, nil, nil)
	assigned := suite.createTask("assigned to bob", suite.alice.ID, &bobID, at(3))
	suite.createTask("alice only", suite.alice.ID, nil, at(4))

	tasks, err := suite.tasks.List(suite.ctx, TaskFilter{InvolvedUserID: &bobID})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Equal(assigned.ID, tasks[0].ID)
	suite.Equal(mine.ID, tasks[1].ID)
	suite.Require().NotNil(tasks[0].Assignee)
	suite.Equal("bob", tasks[0].Assignee.Username)

	dated, err := suite.tasks.List(suite.ctx, TaskFilter{OnlyDated: true})
	suite.Require().NoError(err)
	suite.Len(dated, 2)

	done := models.TaskStatusDone
	none, err := suite.tasks.List(suite.ctx, TaskFilter{Status: &done})
	suite.Require().NoError(err)
	suite.Empty(none)
}

func (suite *RepositoryTestSuite) TestUpdate_WritesZeroValues() {
	bobID := suite.bob.ID
	task := suite.createTask("draft", suite.alice.ID, &bobID, at(1))

	task.Description = ""
	task.AssignedTo = nil
	task.DueDate = nil
	task.Status = models.TaskStatusDone
	suite.Require().NoError(suite.tasks.Update(suite.ctx, task))

	reloaded, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Nil(reloaded.AssignedTo)
	suite.Nil(reloaded.DueDate)
	suite.Equal(models.TaskStatusDone, reloaded.Status)
	suite.Equal(suite.alice.ID, reloaded.CreatedBy)
}

func (suite *RepositoryTestSuite) TestUpdateDueDate() {
	task := suite.createTask("move me", suite.alice.ID, nil, nil)

	suite.Require().NoError(suite.tasks.UpdateDueDate(suite.ctx, task.ID, at(9)))
	reloaded, err := suite.tasks.FindByIDForUpdate(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(reloaded.DueDate)
	suite.True(at(9).Equal(*reloaded.DueDate))

	err = suite.tasks.UpdateDueDate(suite.ctx, 9999, at(9))
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *RepositoryTestSuite) TestDelete_CascadesComments() {
	task := suite.createTask("doomed", suite.alice.ID, nil, nil)
	other := suite.createTask("survivor", suite.alice.ID, nil, nil)
	suite.Require().NoError(suite.comments.Create(suite.ctx, &models.Comment{TaskID: task.ID, UserID: suite.bob.ID, Content: "a"}))
	suite.Require().NoError(suite.comments.Create(suite.ctx, &models.Comment{TaskID: other.ID, UserID: suite.bob.ID, Content: "b"}))

	suite.Require().NoError(suite.tasks.Delete(suite.ctx, task.ID))

	var remaining int64
	suite.db.Model(&models.Comment{}).Count(&remaining)
	suite.Equal(int64(1), remaining)

	suite.ErrorIs(suite.tasks.Delete(suite.ctx, task.ID), gorm.ErrRecordNotFound)
}

func (suite *RepositoryTestSuite) TestWithinTransaction_RollsBack() {
	boom := errors.New("boom")
	err := suite.tasks.WithinTransaction(suite.ctx, func(repo TaskRepository) error {
		if err := repo.Create(suite.ctx, &models.Task{Title: "ghost", Status: models.TaskStatusTodo, CreatedBy: suite.alice.ID}); err != nil {
			return err
		}
		return boom
	})
	suite.ErrorIs(err, boom)

	tasks, err := suite.tasks.List(suite.ctx, TaskFilter{})
	suite.Require().NoError(err)
	suite.Empty(tasks)
}

func (suite *RepositoryTestSuite) TestUserExists() {
	ok, err := suite.tasks.UserExists(suite.ctx, suite.bob.ID)
	suite.Require().NoError(err)
	suite.True(ok)

	ok, err = suite.tasks.UserExists(suite.ctx, 9999)
	suite.Require().NoError(err)
	suite.False(ok)
}

func (suite *RepositoryTestSuite) TestComments_ListOldestFirstPaginated() {
	task := suite.createTask("chatty", suite.alice.ID, nil, nil)
	for _, content := range []string{"first", "second", "third"} {
		suite.Require().NoError(suite.comments.Create(suite.ctx, &models.Comment{TaskID: task.ID, UserID: suite.bob.ID, Content: content}))
	}

	page, total, err := suite.comments.ListByTask(suite.ctx, task.ID, utils.NewPaginationParams(1, 2))
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Require().Len(page, 2)
	suite.Equal("first", page[0].Content)
	suite.Equal("bob", page[0].Author.Username)

	page, _, err = suite.comments.ListByTask(suite.ctx, task.ID, utils.NewPaginationParams(2, 2))
	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Equal("third", page[0].Content)
}

func (suite *RepositoryTestSuite) TestUsers_Lookup() {
	byEmail, err := suite.users.FindByIdentifier(suite.ctx, "bob@example.com")
	suite.Require().NoError(err)
	suite.Equal(suite.bob.ID, byEmail.ID)

	byName, err := suite.users.FindByIdentifier(suite.ctx, "alice")
	suite.Require().NoError(err)
	suite.Equal(suite.alice.ID, byName.ID)

	_, err = suite.users.FindByIdentifier(suite.ctx, "carol")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	taken, err := suite.users.ExistsByUsernameOrEmail(suite.ctx, "someone", "alice@example.com")
	suite.Require().NoError(err)
	suite.True(taken)

	users, err := suite.users.List(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(users, 2)
	suite.Equal("alice", users[0].Username)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
