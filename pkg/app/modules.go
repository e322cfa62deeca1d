package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/camp/campapi"
	"github.com/Abraxas-365/nccerp/pkg/camp/campinfra"
	"github.com/Abraxas-365/nccerp/pkg/camp/campsrv"
	"github.com/Abraxas-365/nccerp/pkg/college/collegeapi"
	"github.com/Abraxas-365/nccerp/pkg/college/collegeinfra"
	"github.com/Abraxas-365/nccerp/pkg/college/collegesrv"
	"github.com/Abraxas-365/nccerp/pkg/contact/contactapi"
	"github.com/Abraxas-365/nccerp/pkg/contact/contactinfra"
	"github.com/Abraxas-365/nccerp/pkg/contact/contactsrv"
	"github.com/Abraxas-365/nccerp/pkg/dashboard/dashboardapi"
	"github.com/Abraxas-365/nccerp/pkg/dashboard/dashboardsrv"
	"github.com/Abraxas-365/nccerp/pkg/directory"
	"github.com/Abraxas-365/nccerp/pkg/directory/directoryapi"
	"github.com/Abraxas-365/nccerp/pkg/directory/directoryredis"
	"github.com/Abraxas-365/nccerp/pkg/directory/directorysheets"
	"github.com/Abraxas-365/nccerp/pkg/directory/directorysrv"
	"github.com/Abraxas-365/nccerp/pkg/dispatch/dispatchsrv"
	"github.com/Abraxas-365/nccerp/pkg/document/documentapi"
	"github.com/Abraxas-365/nccerp/pkg/document/documentsrv"
	"github.com/Abraxas-365/nccerp/pkg/iam/iamcontainer"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/Abraxas-365/nccerp/pkg/notifx"
	"github.com/Abraxas-365/nccerp/pkg/notifx/notifxconsole"
	"github.com/Abraxas-365/nccerp/pkg/notifx/notifxses"
	"github.com/Abraxas-365/nccerp/pkg/notifx/notifxtwilio"
	"github.com/Abraxas-365/nccerp/pkg/selection/selectionapi"
	"github.com/Abraxas-365/nccerp/pkg/selection/selectioninfra"
	"github.com/Abraxas-365/nccerp/pkg/selection/selectionsrv"
	"github.com/Abraxas-365/nccerp/pkg/unit/unitapi"
	"github.com/Abraxas-365/nccerp/pkg/unit/unitinfra"
	"github.com/Abraxas-365/nccerp/pkg/unit/unitsrv"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// Modules are the wired services and their HTTP handlers
type Modules struct {
	IAM *iamcontainer.Container

	UnitService      *unitsrv.UnitService
	CollegeService   *collegesrv.CollegeService
	ContactService   *contactsrv.ContactService
	DirectoryService *directorysrv.DirectoryService
	Dispatcher       *dispatchsrv.Dispatcher
	CampService      *campsrv.CampService
	SelectionService *selectionsrv.SelectionService
	DocumentService  *documentsrv.DocumentService
	DashboardService *dashboardsrv.DashboardService

	UnitHandlers      *unitapi.UnitHandlers
	CollegeHandlers   *collegeapi.CollegeHandlers
	ContactHandlers   *contactapi.ContactHandlers
	DirectoryHandlers *directoryapi.DirectoryHandlers
	CampHandlers      *campapi.CampHandlers
	SelectionHandlers *selectionapi.SelectionHandlers
	DocumentHandlers  *documentapi.DocumentHandlers
	DashboardHandlers *dashboardapi.DashboardHandlers
}

func (c *Container) initModules(ctx context.Context) error {
	logx.Info("📦 Initializing modules...")
	cfg := c.Config

	c.IAM = iamcontainer.New(iamcontainer.Deps{DB: c.DB, Cfg: cfg})
	users := c.IAM.UserService

	c.UnitService = unitsrv.NewUnitService(unitinfra.NewPostgresUnitRepository(c.DB), users)
	c.CollegeService = collegesrv.NewCollegeService(collegeinfra.NewPostgresCollegeRepository(c.DB), c.UnitService, users)
	c.ContactService = contactsrv.NewContactService(contactinfra.NewPostgresContactRepository(c.DB))

	source, err := c.directorySource(ctx)
	if err != nil {
		return err
	}
	c.DirectoryService = directorysrv.NewDirectoryService(source, c.CollegeService, users, cfg.Sheets)

	sender, err := c.sender(ctx)
	if err != nil {
		return err
	}
	opts := dispatchsrv.Options{
		Mode:        cfg.Notifx.DispatchMode,
		Queue:       cfg.Jobx.Queues[0],
		Workers:     cfg.Notifx.SendWorkers,
		SendTimeout: cfg.Notifx.SendTimeout,
		PortalURL:   cfg.Server.PortalURL,
		FromAddress: cfg.Notifx.FromAddress,
		Sheets:      cfg.Sheets,
	}
	if cfg.Notifx.WhatsAppProvider == "twilio" {
		opts.Twilio = &cfg.Twilio
	}
	c.Dispatcher = dispatchsrv.NewDispatcher(sender, c.DirectoryService, c.ContactService, c.CollegeService, c.Jobs, opts)
	c.Dispatcher.RegisterJobs(c.Jobs)

	expiry := cfg.Storage.URLExpiry
	c.CampService = campsrv.NewCampService(
		campinfra.NewPostgresCampRepository(c.DB),
		c.FileSystem,
		c.Dispatcher,
		c.UnitService,
		c.CollegeService,
		expiry,
	)
	c.SelectionService = selectionsrv.NewSelectionService(
		selectioninfra.NewRepos(c.DB),
		selectioninfra.NewPostgresUnitOfWork(c.DB),
		c.CampService,
		c.CollegeService,
		c.Dispatcher,
		c.IAM.Audit,
	)
	c.DocumentService = documentsrv.NewDocumentService(c.SelectionService, c.FileSystem, expiry)
	c.DashboardService = dashboardsrv.NewDashboardService(users, c.CampService, c.CollegeService, c.SelectionService)

	c.UnitHandlers = unitapi.NewUnitHandlers(c.UnitService)
	c.CollegeHandlers = collegeapi.NewCollegeHandlers(c.CollegeService)
	c.ContactHandlers = contactapi.NewContactHandlers(c.ContactService)
	c.DirectoryHandlers = directoryapi.NewDirectoryHandlers(c.DirectoryService, c.CollegeService)
	c.CampHandlers = campapi.NewCampHandlers(c.CampService, c.CollegeService)
	c.SelectionHandlers = selectionapi.NewSelectionHandlers(c.SelectionService)
	c.DocumentHandlers = documentapi.NewDocumentHandlers(c.DocumentService)
	c.DashboardHandlers = dashboardapi.NewDashboardHandlers(c.DashboardService)

	if missing := c.Dispatcher.Missing(); len(missing) > 0 {
		logx.Warnf("  ⚠️ Camp broadcasts disabled until configured: %v", missing)
	}
	logx.Info("✅ Modules initialized")
	return nil
}

// directorySource returns nil when the spreadsheet is not configured
func (c *Container) directorySource(ctx context.Context) (directory.Source, error) {
	sc := c.Config.Sheets
	if len(sc.Missing()) > 0 {
		logx.Warn("  ⚠️ Google Sheets not configured, directory reads will fail")
		return nil, nil
	}
	sheets, err := directorysheets.New(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	logx.Infof("  ✅ Sheets directory configured (cache ttl: %s)", sc.CacheTTL)
	return directoryredis.New(sheets, c.Redis, sc.CacheTTL), nil
}

// sender builds the notifx client for the configured WhatsApp and email providers
func (c *Container) sender(ctx context.Context) (*notifx.Client, error) {
	nc := c.Config.Notifx

	var whatsapp notifx.WhatsAppSender
	switch nc.WhatsAppProvider {
	case "twilio":
		tw := c.Config.Twilio
		whatsapp = notifxtwilio.New(tw.AccountSID, tw.AuthToken, tw.WhatsAppNumber)
	default:
		whatsapp = notifxconsole.New()
	}

	opts := []notifx.ClientOption{
		notifx.WithCountryCode(nc.DefaultCountryCode),
		notifx.WithRetry(3, 500*time.Millisecond),
	}
	switch nc.EmailProvider {
	case "ses":
		awsCfg, err := c.awsConfig(ctx, nc.AWSRegion)
		if err != nil {
			return nil, err
		}
		opts = append(opts, notifx.WithEmail(notifxses.New(ses.NewFromConfig(awsCfg), nc.FromAddress, nc.FromName)))
	case "console":
		opts = append(opts, notifx.WithEmail(notifxconsole.New()))
	}

	logx.Infof("  ✅ Notifications configured (whatsapp: %s, email: %s, mode: %s)",
		nc.WhatsAppProvider, nc.EmailProvider, nc.DispatchMode)
	return notifx.NewClient(whatsapp, opts...), nil
}
