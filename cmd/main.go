package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"clubhub/cmd/buildCFG"
	"clubhub/internal/api/api"
	"clubhub/internal/auth"
	rabbitReader "clubhub/internal/consumerWorker"
	"clubhub/internal/mailer"
	"clubhub/internal/model"
	"clubhub/internal/rabbit"
	"clubhub/internal/repo"
	"clubhub/internal/repo/memrepo"
	"clubhub/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	zlog.Init()
	log := zlog.Logger

	cfg, err := buildCFG.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	appCfg, err := buildCFG.BuildAppConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build app config")
	}
	authCfg, err := buildCFG.BuildAuthConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build auth config")
	}
	mailCfg, err := buildCFG.BuildMailConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build mail config")
	}
	rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	driver, err := buildCFG.StorageDriver(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build storage config")
	}

	var repository repo.Repository
	var rollback func()
	switch driver {
	case "memory":
		repository = memrepo.New()
		log.Warn().Msg("using in-memory storage, data is lost on restart")
	default:
		pg, down := openPostgres(cfg, &log)
		repository, rollback = pg, down
	}

	var pub service.Publisher
	var rmq *rabbit.Client
	if rabbitCfg.Enabled {
		rmq, err = rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue, &log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()
		pub = rmq
	} else {
		log.Warn().Msg("RabbitMQ disabled, notifications are not sent")
	}

	tokens := auth.NewIssuer(authCfg.Secret, authCfg.Issuer, authCfg.TokenTTL)
	defaults := model.DefaultSettings()
	if appCfg.SiteName != "" {
		defaults.SiteName = appCfg.SiteName
	}
	serviceInstance := service.NewService(repository, &log, pub, tokens, service.Options{
		AutoConfirm:         appCfg.AutoConfirm,
		AllowSubmissionOnly: appCfg.AllowSubmissionOnly,
		AdminEmails:         authCfg.AdminEmails,
		Location:            appCfg.Location,
		ReminderLead:        appCfg.ReminderLead,
		NotifyEmail:         mailCfg.NotifyEmail,
		DefaultSettings:     defaults,
	})

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := serviceInstance.LoadSettings(startCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to load site settings")
	}
	startCancel()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	var reader *rabbitReader.Reader
	if rmq != nil {
		siteName := func() string { return serviceInstance.Settings().SiteName }
		reader = rabbitReader.NewReader(rmq, repository, buildMailer(mailCfg, &log), siteName, &log)
		reader.Start(workerCtx)
	}

	app := api.NewRouters(&api.Routers{
		Service:      serviceInstance,
		Logger:       &log,
		AllowOrigins: serverCfg.CORSOrigins,
	})
	srv := &http.Server{
		Addr:         ":" + serverCfg.Port,
		Handler:      app,
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down server")
	}

	cancelWorkers()
	if reader != nil {
		reader.Stop()
	}
	if rollback != nil {
		rollback()
	}
	log.Info().Msg("Shutdown complete")
}

// openPostgres connects, applies migrations and returns the store together
// with the shutdown hook that rolls them back when configured to.
func openPostgres(cfg *viper.Viper, log *zerolog.Logger) (*repo.Postgres, func()) {
	masterDSN, slaveDSNs, poolOptions, dbCfg, err := buildCFG.BuildDBConfig(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	if err := db.Master.Ping(); err != nil {
		log.Fatal().Err(err).Msg("DB ping failed")
	}
	log.Info().Msg("Database connected successfully")

	repository, err := repo.NewRepository(db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repository")
	}
	migrationPath := dbCfg.MigrationsDir
	if !filepath.IsAbs(migrationPath) {
		cwd, err := os.Getwd()
		if err != nil {
			log.Fatal().Err(err).Msg("cannot get working directory")
		}
		migrationPath = filepath.Join(cwd, migrationPath)
	}
	if err := repository.MigrateUp(migrationPath); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("Migrations applied successfully")

	if !dbCfg.MigrateDownOnShutdown {
		return repository, nil
	}
	return repository, func() {
		log.Info().Msg("Rolling back migrations...")
		if err := repository.MigrateDown(migrationPath); err != nil {
			log.Error().Err(err).Msg("failed to rollback migrations")
			return
		}
		log.Info().Msg("Migrations rolled back successfully")
	}
}

func buildMailer(mc buildCFG.MailConfig, log *zerolog.Logger) mailer.Mailer {
	from := mailer.Sender{Name: mc.FromName, Address: mc.FromAddress}
	switch mc.Driver {
	case "smtp":
		return mailer.NewSMTP(mc.SMTPHost, mc.SMTPPort, mc.SMTPUsername, mc.SMTPPassword, from, log)
	case "sendgrid":
		return mailer.NewSendGrid(mc.SendgridAPIKey, from, log)
	default:
		return mailer.NewLog(log)
	}
}
