package main

import (
	"log"
	"net/http"

	"github.com/carerota/backend/internal/middleware"
	"github.com/carerota/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSocket(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.ctx = s.newContext()
	s.migrateDB()
	s.loadRepos()
	s.loadPubsub()
	s.loadDelivery()
	s.loadDomains()
	s.loadSocketRouter()

	if s.subscriber != nil {
		s.subscriber.Subscribe(s.ctx)
		defer s.subscriber.Stop(s.ctx)
	}

	s.server = &http.Server{
		Addr:    s.configs.SocketServer.Address(),
		Handler: s.router.Handler(),
	}

	log.Printf("Starting socket server on %s\n", s.configs.SocketServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadSocketRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	router.Websocket(s.router, "/ws/chat", s.socketDomain.ServeChat)
	router.Websocket(s.router, "/ws/tasks", s.socketDomain.ServeTasks)
	router.Websocket(s.router, "/ws/timesheet", s.socketDomain.ServeTimesheet)
}
