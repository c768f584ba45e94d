package itests

import (
	"AdminAPI/internal"
	"AdminAPI/internal/config"
	"AdminAPI/internal/db"
	"AdminAPI/internal/endpoint"
	"AdminAPI/internal/handler"
	"AdminAPI/internal/logger"
	"AdminAPI/internal/resolver"
	"AdminAPI/internal/router"
	"AdminAPI/internal/store"
	"context"
	"fmt"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

const testTenant = "itest"

var (
	testBaseURL string
	setupErr    error
	endpoints   *endpoint.Registry
)

type document struct {
	tenant     string
	collection string
	id         string
	createdAt  time.Time
	data       map[string]any
}

func day(month time.Month, d, hour int) time.Time {
	return time.Date(2024, month, d, hour, 0, 0, 0, time.UTC)
}

var seed = []document{
	{testTenant, "roles", "r1", day(1, 1, 0), map[string]any{"name": "admin"}},
	{testTenant, "roles", "r2", day(1, 1, 1), map[string]any{"name": "editor"}},
	{testTenant, "roles", "r3", day(1, 1, 2), map[string]any{"name": "viewer"}},
	{testTenant, "people", "p1", day(1, 5, 10), map[string]any{
		"name": "Alice", "email": "alice@example.com", "status": "active", "age": 34, "role_id": "r1",
		"address": map[string]any{"city": "Berlin"},
	}},
	{testTenant, "people", "p2", day(1, 20, 9), map[string]any{
		"name": "Bob", "email": "bob@example.com", "status": "blocked", "age": 27, "role_id": "r2",
		"address": map[string]any{"city": "Paris"},
	}},
	{testTenant, "people", "p3", day(2, 2, 8), map[string]any{
		"name": "Carol", "email": "carol@example.com", "status": "active", "age": 41, "role_id": "r1",
		"address": map[string]any{"city": "Berlin"},
	}},
	{testTenant, "people", "p4", day(2, 14, 12), map[string]any{
		"name": "Dave", "email": "dave@example.com", "status": "active", "age": 19, "role_id": "r3",
		"address": map[string]any{"city": "Madrid"},
	}},
	{testTenant, "people", "p5", day(3, 1, 15), map[string]any{
		"name": "Eve", "email": "eve@example.com", "status": "blocked", "age": 52, "role_id": "r2",
		"address": map[string]any{"city": "Paris"},
	}},
	{testTenant, "people", "p6", day(3, 9, 7), map[string]any{
		"name": "Frank", "email": "frank@example.com", "status": "active", "age": 30, "role_id": "r1",
		"address": map[string]any{"city": "Berlin"},
	}},
	{"other", "people", "x1", day(1, 1, 0), map[string]any{"name": "Mallory", "status": "active"}},
}

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	cfg := config.LoadConfig()

	teardown, err := SetupTestDB(cfg.PostgresDSN)
	if err != nil {
		setupErr = err
		log.Printf("itests skipped: %v", err)
		os.Exit(m.Run())
	}

	code := func() int {
		defer func() {
			if err := teardown(); err != nil {
				log.Printf("drop test DB failed: %v", err)
			}
		}()
		if err := seedDocuments(context.Background(), seed); err != nil {
			log.Printf("seed failed: %v", err)
			return 1
		}

		root, err := internal.FindRepoRoot()
		if err != nil {
			log.Printf("repo root not found: %v", err)
			return 1
		}
		endpoints, err = endpoint.LoadDir(filepath.Join(root, "db"))
		if err != nil {
			log.Printf("load endpoints: %v", err)
			return 1
		}

		h := handler.New(resolver.New(endpoints, store.NewPostgres(db.Pool, 0)))
		srv := httptest.NewServer(router.New(h, config.CORSConfig{AllowOrigin: "*"}))
		defer srv.Close()
		testBaseURL = srv.URL
		return m.Run()
	}()
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if setupErr != nil {
		t.Skipf("postgres unavailable: %v", setupErr)
	}
}

func seedDocuments(ctx context.Context, docs []document) error {
	for _, d := range docs {
		data, err := json.Marshal(d.data)
		if err != nil {
			return err
		}
		if _, err := db.Pool.Exec(ctx,
			`INSERT INTO documents (tenant_id, collection, id, data, created_at) VALUES ($1, $2, $3, $4, $5)`,
			d.tenant, d.collection, d.id, data, d.createdAt,
		); err != nil {
			return fmt.Errorf("insert %s/%s: %w", d.collection, d.id, err)
		}
	}
	return nil
}
