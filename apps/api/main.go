package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/feedback"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/task"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database"
	"github.com/trezcool/darasa/storage/database/mongo"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.Lshortfile)

	var appLogger core.Logger
	if conf.Debug {
		appLogger = logsvc.NewStdLogger(std)
	} else {
		appLogger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up DB
	db, err := database.Open(conf)
	errAndDie(std, err)
	defer func() { _ = database.Close(db) }()

	// set up repositories
	usrRepo := mongorepos.NewUserRepository(db)
	clsRepo := mongorepos.NewClassRepository(db)
	tskRepo := mongorepos.NewTaskRepository(db)
	subRepo := mongorepos.NewSubmissionRepository(db)
	fbRepo := mongorepos.NewFeedbackRepository(db)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, appLogger)
	}
	clock := core.NewClock()

	usrSvc := user.NewService(usrRepo, clock)
	clsSvc := class.NewService(clsRepo, usrRepo, mailSvc, clock, conf)
	tskSvc := task.NewService(tskRepo, clsRepo, clock, appLogger)
	subSvc := submission.NewService(subRepo, tskRepo, clsRepo, usrRepo, clock)
	fbSvc := feedback.NewService(fbRepo, subRepo, clsRepo, usrRepo, clock)

	// background due-date sweeper
	sweeper := task.NewSweeper(tskSvc, conf.SweepInterval, appLogger)
	sweeper.Start()
	defer sweeper.Stop()

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(conf.Server.Address(), shutdown, &echoapi.Deps{
		Conf:          conf,
		Logger:        appLogger,
		UserSvc:       usrSvc,
		ClassSvc:      clsSvc,
		TaskSvc:       tskSvc,
		SubmissionSvc: subSvc,
		FeedbackSvc:   fbSvc,
	})
	go app.Start()

	<-shutdown
	std.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		std.Printf("graceful shutdown failed: %v", err)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
