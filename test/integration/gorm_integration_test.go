package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/repository/specification"
	"lab-assistant-be/internal/repository/unitofwork"
	"lab-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.LabRequestRepository())
	assert.NotNil(t, uow.IncidentRepository())
	assert.NotNil(t, uow.ToolCallRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Request round trip", func(t *testing.T) {
		ctx := context.Background()
		request := entity.LabRequest{
			Id:       uuid.New(),
			Text:     "integration round trip",
			Priority: entity.RequestPriorityNormal,
			Status:   entity.RequestStatusQueued,
		}
		assert.NoError(t, uow.LabRequestRepository().Create(ctx, &request))

		found, err := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: request.Id})
		assert.NoError(t, err)
		assert.NotNil(t, found)
		assert.Equal(t, entity.RequestStatusQueued, found.Status)

		t.Run("Claim is single shot", func(t *testing.T) {
			claimed, err := uow.LabRequestRepository().Claim(ctx, request.Id)
			assert.NoError(t, err)
			assert.True(t, claimed)

			again, err := uow.LabRequestRepository().Claim(ctx, request.Id)
			assert.NoError(t, err)
			assert.False(t, again)
		})
	})

	t.Run("Incident text search", func(t *testing.T) {
		ctx := context.Background()
		incidents, err := uow.IncidentRepository().FindAll(ctx, specification.MatchingText{Query: "database"})
		assert.NoError(t, err)
		t.Logf("MatchingText(database) returned %d incidents", len(incidents))
	})
}
