package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"launch-booking/internal/database"
	"launch-booking/internal/launches"
	"launch-booking/internal/resolvers"
	"launch-booking/internal/schema"

	graphql "github.com/graph-gophers/graphql-go"
	_ "github.com/joho/godotenv/autoload"
)

type Server struct {
	port     int
	db       database.Service
	contract *schema.Contract
	schema   *graphql.Schema
	limiter  *rateLimiter
}

func NewServer() *http.Server {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	contract, err := schema.Load()
	if err != nil {
		log.Fatalf("Invalid schema: %v", err)
	}

	db := database.New()
	launchAPI := launches.New()

	gqlSchema, err := resolvers.NewSchema(db, launchAPI)
	if err != nil {
		log.Fatalf("Error binding resolvers to schema: %v", err)
	}

	s := &Server{
		port:     port,
		db:       db,
		contract: contract,
		schema:   gqlSchema,
		limiter:  newRateLimiter(limit, burst, visitorIdleTTL),
	}
	go s.limiter.visitors.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	srv.RegisterOnShutdown(func() {
		s.limiter.visitors.Stop()
		launchAPI.Close()
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	})
	return srv
}
