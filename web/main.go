package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/chess-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of .fen layout scenes")
	modelsDir := flag.String("models", "models", "Directory of piece models")
	flag.Parse()

	webServer := server.NewServer(*port, *scenesDir, *modelsDir)

	log.Printf("Chess Path Tracer Web Server")
	log.Printf("Try http://localhost:%d/api/render?scene=chess", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
