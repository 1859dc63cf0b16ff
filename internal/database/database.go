package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"launch-booking/internal/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// PostgreSQL driver
	_ "github.com/jackc/pgx/v5/stdlib"

	// Migration database driver
	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	// Environment variables
	_ "github.com/joho/godotenv/autoload"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error

	FindOrCreateUser(ctx context.Context, email string) (*models.User, error)
	BookTrips(ctx context.Context, userID int64, launchIDs []string) ([]string, error)
	CancelTrip(ctx context.Context, userID int64, launchID string) (bool, error)
	GetLaunchIDsByUser(ctx context.Context, userID int64) ([]string, error)
	IsBookedOnLaunch(ctx context.Context, userID int64, launchID string) (bool, error)
}

type service struct {
	db *sql.DB
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	database   = os.Getenv("DB_DATABASE")
	password   = os.Getenv("DB_PASSWORD")
	username   = os.Getenv("DB_USERNAME")
	port       = os.Getenv("DB_PORT")
	host       = os.Getenv("DB_HOST")
	schema     = os.Getenv("DB_SCHEMA")
	dbInstance *service
)

func connString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		username, password, host, port, database, schema,
	)
}

func New() Service {
	// Reuse Connection
	if dbInstance != nil {
		return dbInstance
	}
	db, err := sql.Open("pgx", connString())
	if err != nil {
		log.Fatal(err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	dbInstance = &service{
		db: db,
	}
	return dbInstance
}

// Migrate applies all pending up migrations. An already current schema is not an error.
func Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, connString())
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err == nil {
		log.Printf("Database schema at version %d (dirty=%t)", version, dirty)
	}
	return nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	log.Printf("Disconnected from database: %s", database)
	return s.db.Close()
}

// FindOrCreateUser returns the user registered under email, creating it on first use.
func (s *service) FindOrCreateUser(ctx context.Context, email string) (*models.User, error) {
	query := `
		INSERT INTO users (email)
		VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, created_at
	`
	var user models.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}
	return &user, nil
}

// BookTrips books every launch for the user in a single transaction. Launches the user
// already booked count as booked.
func (s *service) BookTrips(ctx context.Context, userID int64, launchIDs []string) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("book trips: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO trips (user_id, launch_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, launch_id) DO NOTHING
	`
	booked := make([]string, 0, len(launchIDs))
	for _, launchID := range launchIDs {
		if _, err := tx.ExecContext(ctx, query, userID, launchID); err != nil {
			return nil, fmt.Errorf("book trip %s: %w", launchID, err)
		}
		booked = append(booked, launchID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("book trips: %w", err)
	}
	return booked, nil
}

// CancelTrip reports whether a booking was removed.
func (s *service) CancelTrip(ctx context.Context, userID int64, launchID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trips WHERE user_id = $1 AND launch_id = $2`, userID, launchID)
	if err != nil {
		return false, fmt.Errorf("cancel trip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cancel trip: %w", err)
	}
	return n > 0, nil
}

func (s *service) GetLaunchIDsByUser(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT launch_id FROM trips WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	launchIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		launchIDs = append(launchIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return launchIDs, nil
}

func (s *service) IsBookedOnLaunch(ctx context.Context, userID int64, launchID string) (bool, error) {
	var booked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM trips WHERE user_id = $1 AND launch_id = $2)`,
		userID, launchID,
	).Scan(&booked)
	if err != nil {
		return false, fmt.Errorf("check booking: %w", err)
	}
	return booked, nil
}
