package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientdb/internal/api/dto"
	"github.com/martijn/clientdb/internal/core/domain"
	"github.com/martijn/clientdb/internal/core/repository"
	"github.com/martijn/clientdb/internal/infrastructure/sqldb"
)

// testEnv holds all test dependencies
type testEnv struct {
	db         *sqldb.DB
	router     *gin.Engine
	clientRepo repository.ClientRepository
}

// setupTestEnv creates a test environment with in-memory SQLite database
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqldb.New(sqldb.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := sqldb.NewSchemaManager(db).Create(context.Background()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	clientRepo := sqldb.NewClientRepository(db)
	clientHandler := NewClientHandler(clientRepo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/clients", clientHandler.CreateClient)
	router.GET("/clients", clientHandler.FindClients)
	router.GET("/clients/:id", clientHandler.GetClient)
	router.PATCH("/clients/:id", clientHandler.UpdateClient)
	router.DELETE("/clients/:id", clientHandler.DeleteClient)
	router.POST("/clients/:id/phones", clientHandler.AddPhone)
	router.DELETE("/clients/:id/phones/:number", clientHandler.DeletePhone)

	return &testEnv{
		db:         db,
		router:     router,
		clientRepo: clientRepo,
	}
}

// seedTestData adds the four reference clients and their phone numbers
func (env *testEnv) seedTestData(t *testing.T) {
	t.Helper()

	clients := []struct {
		firstName string
		surname   string
		email     string
		phones    []string
	}{
		{"Michael", "Scott", "m.scott@gmail.com", []string{"+1000011"}},
		{"Dwight", "Schrute", "d.schrute@yahoo.com", []string{"+1000012", "+10025647"}},
		{"Jim", "Halpert", "j.halpert@aol.com", nil},
		{"Pam", "Beesly", "p.beesly@gmail.com", []string{"+1089089872", "+71828182"}},
	}

	ctx := context.Background()
	for _, c := range clients {
		client := domain.NewClient(c.firstName, c.surname, c.email)
		if err := env.clientRepo.Create(ctx, client); err != nil {
			t.Fatalf("failed to seed client %s: %v", c.email, err)
		}
		for _, phone := range c.phones {
			if err := env.clientRepo.AddPhone(ctx, client.ID, phone); err != nil {
				t.Fatalf("failed to seed phone %s: %v", phone, err)
			}
		}
	}
}

// makeRequest performs a request with an optional JSON body
func (env *testEnv) makeRequest(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// parseResponse decodes the response body into v
func parseResponse(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
}

// parseErrorResponse parses the response body into ErrorResponse
func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	parseResponse(t, w, &resp)
	return resp
}

// ptr is a helper to create a pointer to a value
func ptr[T any](v T) *T {
	return &v
}
