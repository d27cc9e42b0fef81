package main

import (
	"os"

	"github.com/klokku/okc/internal/app"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	application := app.NewApplication()
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
