package main

import (
	"github.com/spf13/pflag"
	"log"
	"zapata/internal/pkg/app"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.json", "path to the JSON config file")
	pflag.Parse()

	if err := app.New(*configPath); err != nil {
		log.Fatal(err)
	}
}
