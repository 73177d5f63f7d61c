package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backend/internal/cache"
	"backend/internal/danlon"
	"backend/internal/engine"
	"backend/internal/models"
	"backend/internal/repositories"
)

func setupSyncTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.OAuthToken{},
		&models.PendingSession{},
		&models.PayCodeMapping{},
		&models.EmployeeMapping{},
	))
	return db
}

// fakeDanlonServer serves the GraphQL endpoint only (the stored token in
// these tests never needs a refresh), answering the employee roster
// query and recording the mutation body it receives.
func fakeDanlonServer(t *testing.T, mutationBody *string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Query == employeeListQuery {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": employeeListResult{
					Employees: []liveEmployee{
						{ID: "emp-1", Name: "Jens Hansen"},
					},
				},
			})
			return
		}

		*mutationBody = req.Query
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"createPayParts": map[string]interface{}{"created": 1}},
		})
	})
	return httptest.NewServer(mux)
}

func TestOrchestrator_Sync_NameMatchAndFallback(t *testing.T) {
	var mutationBody string
	server := fakeDanlonServer(t, &mutationBody)
	defer server.Close()

	db := setupSyncTestDB(t)
	tokens := repositories.NewOAuthTokenRepository(db)
	payCodes := repositories.NewPayCodeMappingRepository(db)
	employeeMaps := repositories.NewEmployeeMappingRepository(db)

	require.NoError(t, tokens.Upsert(&models.OAuthToken{
		UserID:       "user-1",
		CompanyID:    "company-1",
		AccessToken:  "valid-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	require.NoError(t, employeeMaps.ReplaceAll("user-1", "company-1", []models.EmployeeMapping{
		{DanlonEmployeeID: "fallback-emp", IsFallback: true},
	}))

	cfg := danlon.Config{GraphQLURL: server.URL + "/graphql"}
	graph := danlon.NewGraphQLClient(cfg, logrus.New())
	broker := danlon.NewOAuthBroker(cfg, tokens, graph, logrus.New())
	store := cache.NewStore(cache.DefaultTTL)

	sessionID := store.Put(engine.Result{
		Daily: []models.DailyOutput{
			{Worker: "Jens Hansen", Date: "12-01-2026", NormalHours: 7.4},
			{Worker: "Unknown Worker", Date: "12-01-2026", NormalHours: 3.7},
		},
	})

	orch := NewOrchestrator(store, payCodes, employeeMaps, broker, graph, logrus.New())
	result, err := orch.Sync(context.Background(), sessionID, "user-1", "company-1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.SkippedItems)
	assert.Empty(t, result.UnmatchedWorkers)
	assert.Contains(t, mutationBody, "emp-1")
	assert.Contains(t, mutationBody, "fallback-emp")
}

func TestOrchestrator_Sync_SessionNotFound(t *testing.T) {
	db := setupSyncTestDB(t)
	payCodes := repositories.NewPayCodeMappingRepository(db)
	employeeMaps := repositories.NewEmployeeMappingRepository(db)
	cfg := danlon.Config{}
	graph := danlon.NewGraphQLClient(cfg, logrus.New())
	tokens := repositories.NewOAuthTokenRepository(db)
	broker := danlon.NewOAuthBroker(cfg, tokens, graph, logrus.New())
	store := cache.NewStore(cache.DefaultTTL)

	orch := NewOrchestrator(store, payCodes, employeeMaps, broker, graph, logrus.New())
	_, err := orch.Sync(context.Background(), "missing-session", "user-1", "company-1")
	require.Error(t, err)
}
