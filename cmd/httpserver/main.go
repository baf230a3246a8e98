package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dzikrisyairozi/multi-thread-web-server/internal/config"
	"github.com/dzikrisyairozi/multi-thread-web-server/internal/resource"
	"github.com/dzikrisyairozi/multi-thread-web-server/internal/response"
	"github.com/dzikrisyairozi/multi-thread-web-server/internal/server"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigFile, "path to the KEY: value settings file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	root := cfg.Root()
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		log.Fatalf("Configuration error: root %q is not a directory", root)
	}

	resolver := resource.NewResolver(root, cfg.DefaultDocument())
	assembler := response.NewAssembler(cfg.Timeout())

	srv, err := server.Serve(cfg.Addr(), server.NewFileHandler(resolver, assembler), cfg.Timeout())
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
	defer srv.Close()
	log.Printf("Server started: http://%s (root %s, timeout %s)", srv.Addr(), root, cfg.Timeout())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Server gracefully stopped")
}
