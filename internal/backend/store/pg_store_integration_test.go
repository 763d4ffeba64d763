package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	perrors "github.com/abgdnv/produtos/internal/errors"
	"github.com/abgdnv/produtos/internal/product"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "PRODUTOS_SKIP_INTEGRATION_TESTS"

// PgStoreSuite runs PgStore against a PostgreSQL container migrated with the embedded files.
type PgStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       ProductStore
	logger      *slog.Logger
	ctx         context.Context
}

func (s *PgStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("produtos"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")
	for i := 0; i < 10; i++ {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		if err = s.dbPool.Ping(s.ctx); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	require.NoError(s.T(), Migrate(connStr), "Failed to apply migrations")
	// a second run is a no-op
	require.NoError(s.T(), Migrate(connStr))

	s.store = NewPgStore(s.dbPool)
}

func (s *PgStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest isolates every test by truncating the table.
func (s *PgStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE produtos RESTART IDENTITY")
	require.NoError(s.T(), err, "Failed to truncate produtos table")
}

func TestPgStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PgStoreSuite))
}

func (s *PgStoreSuite) create(name, description, price string) product.Product {
	s.T().Helper()
	p, err := s.store.Create(s.ctx, product.Draft{Name: name, Description: description, Price: price})
	require.NoError(s.T(), err)
	return p
}

func (s *PgStoreSuite) TestCreateAndFindByID() {
	created := s.create("Mesa", "Mesa de madeira", "199.90")

	s.Equal(int64(1), created.ID)
	s.Equal("199.90", created.Price)

	found, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created, found)
}

func (s *PgStoreSuite) TestPriceIsNormalizedToTwoDecimals() {
	created := s.create("Abajur", "Abajur azul", "35")

	s.Equal("35.00", created.Price)
}

func (s *PgStoreSuite) TestLargePriceIsStored() {
	created := s.create("Iate", "Iate de luxo", "123456789012345.5")

	s.Equal("123456789012345.50", created.Price)

	updated, err := s.store.Update(s.ctx, created.ID, product.Draft{Name: "Iate", Description: "Iate de luxo", Price: "12345678901"})
	s.Require().NoError(err)
	s.Equal("12345678901.00", updated.Price)
}

func (s *PgStoreSuite) TestFindAll_OrderedByID() {
	a := s.create("Mesa", "Mesa de madeira", "199.90")
	b := s.create("Cadeira", "Cadeira de escritório", "350.00")

	updated, err := s.store.Update(s.ctx, a.ID, product.Draft{Name: "Mesa", Description: "Mesa de madeira", Price: "149.90"})
	s.Require().NoError(err)

	list, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Equal([]product.Product{updated, b}, list)
}

func (s *PgStoreSuite) TestFindAll_Empty() {
	list, err := s.store.FindAll(s.ctx)

	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}

func (s *PgStoreSuite) TestDelete() {
	created := s.create("Mesa", "Mesa de madeira", "199.90")

	s.Require().NoError(s.store.DeleteByID(s.ctx, created.ID))

	_, err := s.store.FindByID(s.ctx, created.ID)
	s.ErrorIs(err, perrors.ErrProductNotFound)
	s.ErrorIs(s.store.DeleteByID(s.ctx, created.ID), perrors.ErrProductNotFound)
}

func (s *PgStoreSuite) TestUpdate_NotFound() {
	_, err := s.store.Update(s.ctx, 404, product.Draft{Name: "Mesa", Description: "Mesa de madeira", Price: "1"})

	s.ErrorIs(err, perrors.ErrProductNotFound)
}
