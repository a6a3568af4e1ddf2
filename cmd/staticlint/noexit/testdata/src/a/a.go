package main

import (
	"log"
	"os"
)

func run() error { return nil }

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %v", err) // want `log.Fatalf called in main.main`
	}

	defer func() {
		os.Exit(0)
	}()

	os.Exit(1) // want `os.Exit called in main.main`
}

func helper() {
	os.Exit(2)
}
