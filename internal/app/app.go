package app

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/phenrril/customseal/internal/adapters/catalog"
	"github.com/phenrril/customseal/internal/adapters/export/xlsx"
	"github.com/phenrril/customseal/internal/adapters/httpserver"
	"github.com/phenrril/customseal/internal/adapters/notify/mail"
	"github.com/phenrril/customseal/internal/adapters/repo/memory"
	pgrepo "github.com/phenrril/customseal/internal/adapters/repo/postgres"
	"github.com/phenrril/customseal/internal/adapters/storage/localfs"
	"github.com/phenrril/customseal/internal/config"
	"github.com/phenrril/customseal/internal/domain"
	"github.com/phenrril/customseal/internal/usecase"
	"github.com/phenrril/customseal/internal/views"
)

type App struct {
	Cfg         config.Config
	DB          *gorm.DB
	Tmpl        *template.Template
	WizardUC    *usecase.WizardUC
	DesignUC    *usecase.DesignUC
	Catalog     *catalog.Catalog
	Storage     *localfs.Storage
	OAuthConfig *oauth2.Config
}

func OpenDB(cfg config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DB.DSNString()), &gorm.Config{})
}

// NewApp arma el grafo de dependencias. Con db nil los diseños no se persisten.
func NewApp(cfg config.Config, db *gorm.DB) (*App, error) {
	flow, err := usecase.ParseFlow(cfg.WizardFlow)
	if err != nil {
		return nil, err
	}
	frames, err := catalog.Load(cfg.FrameCatalog)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, err
	}
	storage := localfs.New(cfg.StorageDir, "/uploads", cfg.MaxUploadBytes())

	var designRepo domain.DesignRepo
	if db != nil {
		designRepo = pgrepo.NewDesignRepo(db)
	} else {
		log.Warn().Msg("sin base de datos, los diseños no se guardan")
	}

	var notifier domain.Notifier
	mcfg := mail.Config{Host: cfg.SMTP.Host, Port: cfg.SMTP.Port, User: cfg.SMTP.User, Pass: cfg.SMTP.Pass, From: cfg.SMTP.From}
	if mcfg.Enabled() {
		notifier = mail.New(mcfg)
	} else {
		log.Warn().Msg("SMTP no configurado, se omite envío de email")
	}

	var oauthCfg *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email"},
			Endpoint:     google.Endpoint,
		}
	}

	viewsDir := ""
	if cfg.IsDev() {
		if _, err := os.Stat("internal/views"); err == nil {
			viewsDir = "internal/views"
		}
	}
	tmpl, err := views.Parse(viewsDir)
	if err != nil {
		return nil, err
	}

	a := &App{
		Cfg:         cfg,
		DB:          db,
		Tmpl:        tmpl,
		Catalog:     frames,
		Storage:     storage,
		OAuthConfig: oauthCfg,
	}
	a.WizardUC = usecase.NewWizardUC(flow, memory.NewSessionRepo(), frames, storage, designRepo, notifier)
	if designRepo != nil {
		a.DesignUC = &usecase.DesignUC{Designs: designRepo, Exporter: xlsx.New()}
	}
	return a, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Tmpl, a.WizardUC, a.DesignUC, a.OAuthConfig, httpserver.Options{
		UploadsDir:     a.Cfg.StorageDir,
		MaxUploadBytes: a.Cfg.MaxUploadBytes(),
		SessionKey:     a.Cfg.SessionKey,
		SessionTTL:     a.Cfg.SessionTTL,
		AdminAllowed:   a.Cfg.AdminAllowedEmails,
		AdminSecret:    a.Cfg.JWTAdminSecret,
	})
}

func (a *App) Migrate() error {
	if a.DB == nil {
		return nil
	}
	return pgrepo.Migrate(a.DB)
}

// RunJanitor libera las sesiones inactivas hasta que ctx termine.
func (a *App) RunJanitor(ctx context.Context) {
	every := a.Cfg.SweepEvery
	if every <= 0 {
		every = 5 * time.Minute
	}
	a.WizardUC.RunJanitor(ctx, a.Cfg.SessionTTL, every)
}
