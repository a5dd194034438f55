package main

import (
	"flag"
	"log"

	"rates-updater/internal/service"
)

func main() {
	info := flag.Bool("v", false, "will display the version of the program")
	flag.Parse()
	if *info {
		service.Version()
		return
	}
	srv, err := service.New()
	if err != nil {
		log.Fatalln("Init service:", err)
	}
	srv.Start()
}
