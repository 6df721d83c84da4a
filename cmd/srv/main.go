package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var server srv

func main() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "CareRota"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `Serves the business API: shifts, chat, timesheets, devices, notification history.`,
		},
		{
			Action:      server.startSocket,
			Name:        "socket",
			Usage:       "Start the socket service",
			Category:    "Websocket",
			Description: `Serves the three realtime channels (chat, tasks, timesheet) and the relay subscriber.`,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
