package main

import (
	"log"
	"net/http"

	"github.com/carerota/backend/internal/middleware"
	"github.com/carerota/backend/pkg/router"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.ctx = s.newContext()
	s.migrateDB()
	s.loadRepos()
	s.loadPubsub()
	s.loadDelivery()
	s.loadDomains()
	s.loadAPIRouter()

	s.server = &http.Server{
		Addr: s.configs.ApiServer.Address(),
		Handler: cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler(s.router.Handler()),
	}

	log.Printf("Starting api server on %s\n", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadAPIRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate)
	{
		// Notification history API
		router.GET(authRouter, "/getNotifications", s.notificationDomain.Get)
		router.GET(authRouter, "/getUnreadNotificationCount", s.notificationDomain.GetUnreadCount)
		router.POST(authRouter, "/readNotification", s.notificationDomain.Read)
		router.POST(authRouter, "/readAllNotifications", s.notificationDomain.ReadAll)
		router.POST(authRouter, "/deleteNotification", s.notificationDomain.Delete)

		// Device API
		router.POST(authRouter, "/registerDevice", s.deviceDomain.Register)
		router.POST(authRouter, "/removeDevice", s.deviceDomain.Remove)

		// Chat API
		router.POST(authRouter, "/sendChatMessage", s.chatDomain.SendMessage)

		// Shift and task API
		router.POST(authRouter, "/notifyShiftAssignments", s.shiftDomain.NotifyAssignments)
		router.POST(authRouter, "/publishTaskUpdate", s.shiftDomain.PublishTaskUpdate)

		// Timesheet API
		router.POST(authRouter, "/scanTimesheet", s.timesheetDomain.Scan)

		// Join request API
		router.POST(authRouter, "/createJoinRequest", s.joinRequestDomain.Create)
		router.POST(authRouter, "/acceptJoinRequest", s.joinRequestDomain.Accept)
	}
}
