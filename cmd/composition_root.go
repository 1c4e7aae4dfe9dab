package cmd

import (
	"strconv"
	"time"

	"returns/internal/adapters/out/postgres"
	"returns/internal/core/application/usecases/commands"
	"returns/internal/core/application/usecases/queries"
	"returns/internal/core/domain/services"

	"gorm.io/gorm"
)

// defaultInspectSLAHours is the seller inspection window applied when no
// override is configured.
const defaultInspectSLAHours = 48

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}
}

func (c *CompositionRoot) CreateProcessShipmentEventHandler() commands.ProcessShipmentEventHandler {
	var f commands.WebhookUoWFactory = FuncWebhookUoWFactory(func() commands.WebhookUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessShipmentEventHandler(
		f,
		services.NewSystemTransitionPolicy(),
		c.inspectWindow(),
	)
}

func (c *CompositionRoot) CreateGetReturnStatusQueryHandler() queries.GetReturnStatusQueryHandler {
	return queries.NewGetReturnStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOverdueInspectionsQueryHandler() queries.GetOverdueInspectionsQueryHandler {
	return queries.NewGetOverdueInspectionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) inspectWindow() time.Duration {
	hours, err := strconv.Atoi(c.config.InspectSLAHours)
	if err != nil || hours <= 0 {
		hours = defaultInspectSLAHours
	}
	return time.Duration(hours) * time.Hour
}

type FuncWebhookUoWFactory func() commands.WebhookUoW

func (f FuncWebhookUoWFactory) Create() commands.WebhookUoW {
	return f()
}
