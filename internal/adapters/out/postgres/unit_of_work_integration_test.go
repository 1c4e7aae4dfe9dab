package postgres_test

import (
	"context"
	"testing"
	"time"

	"returns/internal/adapters/out/postgres"
	"returns/internal/adapters/out/postgres/returnrepo"
	"returns/internal/adapters/out/postgres/shipmentrepo"
	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/retstatus"
	"returns/internal/core/domain/model/returncase"
	"returns/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies that the dedup insert, the shipment
// bookkeeping, and the return mutation land atomically.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&shipmentrepo.ShipmentDTO{},
		&shipmentrepo.ShipmentEventDTO{},
		&returnrepo.ReturnDTO{},
		&returnrepo.ReturnEventDTO{},
	))

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(
		suite.db.Exec("TRUNCATE TABLE return_shipments, shipment_events, returns, return_events").Error,
	)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

// noopTracker satisfies the repositories' aggregate tracker for seeding.
type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

func (suite *UnitOfWorkIntegrationTestSuite) seedAggregates() (*shipment.ReturnShipment, *returncase.Return) {
	ctx := context.Background()

	ret, err := returncase.NewReturn(kernel.NewUUID(), retstatus.PickedUp, time.Now().UTC())
	suite.Require().NoError(err)
	returnID := ret.ID()

	booking, err := shipment.NewReturnShipment(kernel.NewUUID(), "everestx", "TRK-1", "EX-1", true, &returnID)
	suite.Require().NoError(err)

	suite.Require().NoError(returnrepo.NewGormReturnRepository(suite.db, noopTracker{}).Add(ctx, ret))
	suite.Require().NoError(shipmentrepo.NewGormShipmentRepository(suite.db, noopTracker{}).Add(ctx, booking))

	return booking, ret
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAllWrites() {
	ctx := context.Background()
	booking, ret := suite.seedAggregates()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	eventAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	suite.Require().NoError(booking.RecordEvent(eventAt, "evt-1", "IN_TRANSIT", "in_transit", "{}"))
	inserted, err := uow.ShipmentRepository().AppendEventIfAbsent(ctx, booking)
	suite.Require().NoError(err)
	suite.True(inserted)
	suite.Require().NoError(uow.ShipmentRepository().Update(ctx, booking))

	loaded, err := uow.ReturnRepository().Get(ctx, ret.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Transition(retstatus.InTransit, eventAt, 48*time.Hour))
	suite.Require().NoError(uow.ReturnRepository().Update(ctx, loaded))

	suite.Require().NoError(uow.Commit(ctx))

	var eventCount int64
	suite.Require().NoError(suite.db.Model(&shipmentrepo.ShipmentEventDTO{}).Count(&eventCount).Error)
	suite.Equal(int64(1), eventCount)

	var dto returnrepo.ReturnDTO
	suite.Require().NoError(suite.db.First(&dto, "id = ?", ret.ID().Bytes()).Error)
	suite.Equal("in_transit", dto.Status)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllWrites() {
	ctx := context.Background()
	booking, ret := suite.seedAggregates()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	eventAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	suite.Require().NoError(booking.RecordEvent(eventAt, "evt-1", "IN_TRANSIT", "in_transit", "{}"))
	inserted, err := uow.ShipmentRepository().AppendEventIfAbsent(ctx, booking)
	suite.Require().NoError(err)
	suite.True(inserted)
	suite.Require().NoError(uow.ShipmentRepository().Update(ctx, booking))

	loaded, err := uow.ReturnRepository().Get(ctx, ret.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Transition(retstatus.InTransit, eventAt, 48*time.Hour))
	suite.Require().NoError(uow.ReturnRepository().Update(ctx, loaded))

	suite.Require().NoError(uow.Rollback(ctx))

	// Nothing landed: the event insert, the bookkeeping, and the transition
	// all rolled back together.
	var eventCount int64
	suite.Require().NoError(suite.db.Model(&shipmentrepo.ShipmentEventDTO{}).Count(&eventCount).Error)
	suite.Equal(int64(0), eventCount)

	var dto returnrepo.ReturnDTO
	suite.Require().NoError(suite.db.First(&dto, "id = ?", ret.ID().Bytes()).Error)
	suite.Equal("picked_up", dto.Status)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()

	err := uow.Rollback(context.Background())

	suite.Require().Error(err)
	suite.ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_IsIdempotent() {
	ctx := context.Background()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
