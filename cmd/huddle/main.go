package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/huddlehq/huddle/archive"
	"github.com/huddlehq/huddle/config"
	"github.com/huddlehq/huddle/scheduler"
	"github.com/huddlehq/huddle/server"
	"github.com/huddlehq/huddle/services"
	"github.com/huddlehq/huddle/store"
)

func main() {
	// load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logrus.Error("Error loading .env file. If not deploying, consider checking.")
	}

	path := os.Getenv("HUDDLE_CONFIG")
	if path == "" {
		path = "huddle.yaml"
	}
	conf, err := config.Load(path)
	if err != nil {
		logrus.Fatal(err)
	}

	// env overrides for deploy platforms
	if port := os.Getenv("PORT"); port != "" {
		conf.Addr = ":" + port
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		conf.ArchiveDSN = dsn
	}
	if key := os.Getenv("TOKEN_KEY"); key != "" {
		conf.TokenKey = key
	}
	if conf.TokenKey == "" {
		logrus.Fatal("no token signing key configured")
	}

	// open the audit archive, if one is configured
	rec := archive.NewNop()
	if conf.ArchiveDSN != "" {
		rec, err = archive.NewPostgres(conf.ArchiveDSN)
		if err != nil {
			logrus.Fatal(err)
		}
	}
	defer rec.Close()

	ws := store.New()
	timers := scheduler.New()
	go timers.Run()
	defer timers.Stop()

	// setup all services
	auth, err := services.NewAuthenticater(ws, []byte(conf.TokenKey), time.Duration(conf.TokenTTLHours)*time.Hour)
	if err != nil {
		logrus.Fatal(err)
	}

	member, err := services.NewMembership(ws, rec)
	if err != nil {
		logrus.Fatal(err)
	}

	msg, err := services.NewMessenger(ws, rec)
	if err != nil {
		logrus.Fatal(err)
	}

	sched, err := services.NewScheduler(ws, timers, rec)
	if err != nil {
		logrus.Fatal(err)
	}

	notify, err := services.NewNotifier(ws)
	if err != nil {
		logrus.Fatal(err)
	}

	get, err := services.NewGetter(ws)
	if err != nil {
		logrus.Fatal(err)
	}

	admin, err := services.NewAdmin(ws)
	if err != nil {
		logrus.Fatal(err)
	}

	// build the server and inject dependencies
	srv := server.NewServer(auth, member, msg, sched, notify, get, admin)

	logrus.Infof("listening on %s", conf.Addr)
	if err := http.ListenAndServe(conf.Addr, srv.Serve()); err != nil {
		logrus.Fatal(err)
	}
}
