package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tasks-api/internal/config"
	"tasks-api/internal/database"
	"tasks-api/internal/models"
	"tasks-api/internal/repositories"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm/logger"
)

type TaskRepositoryTestSuite struct {
	suite.Suite
	pool *database.DatabasePool
	repo *repositories.GormTaskRepository
	ctx  context.Context
}

func (suite *TaskRepositoryTestSuite) SetupTest() {
	pool, err := database.NewDatabasePool(&database.PoolConfig{
		Driver:       config.DriverSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 1,
		LogLevel:     logger.Silent,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(pool.Migrate())

	suite.pool = pool
	suite.repo = repositories.NewTaskRepository(pool.DB)
	suite.ctx = context.Background()
}

func (suite *TaskRepositoryTestSuite) TearDownTest() {
	suite.NoError(suite.pool.Close())
}

func (suite *TaskRepositoryTestSuite) seed(title string, completed bool, createdAt time.Time) models.Task {
	task := models.Task{Title: title, Color: "#000000", Completed: completed, CreatedAt: createdAt}
	suite.Require().NoError(suite.repo.Create(suite.ctx, &task))
	return task
}

func (suite *TaskRepositoryTestSuite) TestCreate_AssignsIdentityAndDefaults() {
	task := models.Task{Title: "Buy milk", Color: "#ff0000"}

	err := suite.repo.Create(suite.ctx, &task)

	suite.Require().NoError(err)
	assert.NotEqual(suite.T(), uuid.Nil, task.ID)
	assert.False(suite.T(), task.Completed)
	assert.False(suite.T(), task.CreatedAt.IsZero())
	assert.False(suite.T(), task.UpdatedAt.IsZero())
}

func (suite *TaskRepositoryTestSuite) TestFindByID() {
	created := suite.seed("Buy milk", false, time.Now())

	found, err := suite.repo.FindByID(suite.ctx, created.ID)

	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	assert.Equal(suite.T(), created.ID, found.ID)
	assert.Equal(suite.T(), "Buy milk", found.Title)
	assert.Equal(suite.T(), "#000000", found.Color)
}

func (suite *TaskRepositoryTestSuite) TestFindByID_Missing() {
	found, err := suite.repo.FindByID(suite.ctx, uuid.Must(uuid.NewV4()))

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), found)
}

func (suite *TaskRepositoryTestSuite) TestCount_WithFilter() {
	now := time.Now()
	suite.seed("one", true, now)
	suite.seed("two", false, now.Add(time.Second))
	suite.seed("three", true, now.Add(2*time.Second))

	total, err := suite.repo.Count(suite.ctx, models.TaskFilter{})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(3), total)

	completed := true
	done, err := suite.repo.Count(suite.ctx, models.TaskFilter{Completed: &completed})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), done)
}

func (suite *TaskRepositoryTestSuite) TestFindPage_OrdersNewestFirst() {
	base := time.Now()
	for i, title := range []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6"} {
		suite.seed(title, false, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := suite.repo.FindPage(suite.ctx, 0, 5)
	suite.Require().NoError(err)
	suite.Require().Len(first, 5)
	assert.Equal(suite.T(), "t6", first[0].Title)
	assert.Equal(suite.T(), "t2", first[4].Title)

	second, err := suite.repo.FindPage(suite.ctx, 5, 5)
	suite.Require().NoError(err)
	suite.Require().Len(second, 2)
	assert.Equal(suite.T(), "t1", second[0].Title)
	assert.Equal(suite.T(), "t0", second[1].Title)

	beyond, err := suite.repo.FindPage(suite.ctx, 10, 5)
	suite.Require().NoError(err)
	assert.NotNil(suite.T(), beyond)
	assert.Empty(suite.T(), beyond)
}

func (suite *TaskRepositoryTestSuite) TestUpdate_FullFields() {
	created := suite.seed("Buy milk", false, time.Now().Add(-time.Hour))
	completed := true

	err := suite.repo.Update(suite.ctx, created.ID, models.TaskChanges{
		Title:     "Buy oat milk",
		Color:     "#00ff00",
		Completed: &completed,
	})
	suite.Require().NoError(err)

	found, err := suite.repo.FindByID(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	assert.Equal(suite.T(), "Buy oat milk", found.Title)
	assert.Equal(suite.T(), "#00ff00", found.Color)
	assert.True(suite.T(), found.Completed)
	assert.True(suite.T(), found.UpdatedAt.After(created.UpdatedAt))
}

func (suite *TaskRepositoryTestSuite) TestUpdate_OmittedCompletedIsUnchanged() {
	created := suite.seed("Buy milk", true, time.Now())

	err := suite.repo.Update(suite.ctx, created.ID, models.TaskChanges{Title: "Buy milk", Color: "#123456"})
	suite.Require().NoError(err)

	found, err := suite.repo.FindByID(suite.ctx, created.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), found.Completed)
	assert.Equal(suite.T(), "#123456", found.Color)
}

func (suite *TaskRepositoryTestSuite) TestUpdate_Missing() {
	err := suite.repo.Update(suite.ctx, uuid.Must(uuid.NewV4()), models.TaskChanges{Title: "x", Color: "y"})

	assert.True(suite.T(), errors.Is(err, repositories.ErrTaskNotFound))
}

func (suite *TaskRepositoryTestSuite) TestDelete() {
	created := suite.seed("Buy milk", false, time.Now())

	suite.Require().NoError(suite.repo.Delete(suite.ctx, created.ID))

	found, err := suite.repo.FindByID(suite.ctx, created.ID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), found)

	err = suite.repo.Delete(suite.ctx, created.ID)
	assert.True(suite.T(), errors.Is(err, repositories.ErrTaskNotFound))
}

func (suite *TaskRepositoryTestSuite) TestClosedDatabaseReturnsErrors() {
	suite.Require().NoError(suite.pool.Close())

	_, err := suite.repo.Count(suite.ctx, models.TaskFilter{})
	assert.Error(suite.T(), err)

	_, err = suite.repo.FindPage(suite.ctx, 0, 5)
	assert.Error(suite.T(), err)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}
