package testutils

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"halisaha-backend/internal/database"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for readiness ping
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"gorm.io/gorm"
)

const (
	pgUser     = "halisaha"
	pgPassword = "halisaha"
	pgDatabase = "halisaha_test"
)

// tables lists every table the schema creates, children first
var tables = []string{
	"notifications",
	"team_join_requests",
	"team_members",
	"teams",
	"users",
}

// One Postgres container serves every suite in the test binary.
var (
	containerOnce sync.Once
	containerErr  error
	pool          *dockertest.Pool
	resource      *dockertest.Resource
	sharedDB      *gorm.DB
)

// BaseTestSuite hands integration suites a migrated database that is emptied around each test
type BaseTestSuite struct {
	DB *gorm.DB
}

// SetupTestSuite starts the shared Postgres container on first use and returns a suite bound to it
func SetupTestSuite(t *testing.T) *BaseTestSuite {
	containerOnce.Do(func() { containerErr = startPostgres() })
	if containerErr != nil {
		t.Fatalf("failed to start test database: %v", containerErr)
	}
	return &BaseTestSuite{DB: sharedDB}
}

// CleanupSharedContainer closes the pool and purges the container. TestMain calls it once.
func CleanupSharedContainer() {
	if sharedDB != nil {
		if sqlDB, err := sharedDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		sharedDB = nil
	}
	if pool == nil || resource == nil {
		return
	}
	log.Printf("Purging test database container %s", resource.Container.Name)
	if err := pool.Purge(resource); err != nil {
		log.Printf("WARN: could not purge test database container: %v", err)
	}
	pool, resource = nil, nil
}

func (s *BaseTestSuite) SetupTest()         { s.CleanTestDB() }
func (s *BaseTestSuite) TearDownTest()      { s.CleanTestDB() }
func (s *BaseTestSuite) TeardownTestSuite() { s.CleanTestDB() }

// CleanTestDB truncates every application table
func (s *BaseTestSuite) CleanTestDB() {
	if s.DB == nil {
		return
	}
	m := s.DB.Migrator()
	for _, t := range tables {
		if m.HasTable(t) {
			s.DB.Exec(`TRUNCATE TABLE "` + t + `" CASCADE`)
		}
	}
}

func startPostgres() error {
	p, err := dockertest.NewPool("")
	if err != nil {
		return fmt.Errorf("could not connect to docker: %w", err)
	}
	pool = p

	resource, err = pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=" + pgUser,
			"POSTGRES_PASSWORD=" + pgPassword,
			"POSTGRES_DB=" + pgDatabase,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return fmt.Errorf("could not start postgres: %w", err)
	}

	port := resource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://%s:%s@127.0.0.1:%s/%s?sslmode=disable", pgUser, pgPassword, port, pgDatabase)

	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error { return ping(dsn) }); err != nil {
		return fmt.Errorf("postgres never became ready: %w", err)
	}

	sharedDB, err = database.Initialize(dsn, nil)
	if err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	log.Printf("Test database ready on port %s", port)
	return nil
}

func ping(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Ping()
}
