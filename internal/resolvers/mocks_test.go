package resolvers

import (
	"context"

	"launch-booking/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockDatabase is a mock implementation of the database.Service interface
type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) Health() map[string]string {
	return map[string]string{"status": "up"}
}

func (m *MockDatabase) Close() error {
	return nil
}

func (m *MockDatabase) FindOrCreateUser(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockDatabase) BookTrips(ctx context.Context, userID int64, launchIDs []string) ([]string, error) {
	args := m.Called(userID, launchIDs)
	booked, _ := args.Get(0).([]string)
	return booked, args.Error(1)
}

func (m *MockDatabase) CancelTrip(ctx context.Context, userID int64, launchID string) (bool, error) {
	args := m.Called(userID, launchID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDatabase) GetLaunchIDsByUser(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(userID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockDatabase) IsBookedOnLaunch(ctx context.Context, userID int64, launchID string) (bool, error) {
	args := m.Called(userID, launchID)
	return args.Bool(0), args.Error(1)
}

// MockLaunches is a mock implementation of the launches.Service interface
type MockLaunches struct {
	mock.Mock
}

func (m *MockLaunches) GetAllLaunches(ctx context.Context) ([]models.Launch, error) {
	args := m.Called()
	launches, _ := args.Get(0).([]models.Launch)
	return launches, args.Error(1)
}

func (m *MockLaunches) GetLaunchByID(ctx context.Context, id string) (*models.Launch, error) {
	args := m.Called(id)
	launch, _ := args.Get(0).(*models.Launch)
	return launch, args.Error(1)
}

func (m *MockLaunches) GetLaunchesByIDs(ctx context.Context, ids []string) ([]models.Launch, error) {
	args := m.Called(ids)
	launches, _ := args.Get(0).([]models.Launch)
	return launches, args.Error(1)
}
