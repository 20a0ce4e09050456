package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/ender-auth-be/internal/store"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// Driver identifies the storage backend selected by a connection string.
type Driver string

const (
	DriverMongo  Driver = "mongo"
	DriverSQLite Driver = "sqlite"
)

// ParseURL picks the backend for a connection string. Anything that is not a
// MongoDB URI is treated as a SQLite path, with an optional sqlite:// prefix.
func ParseURL(url string) (Driver, string) {
	switch {
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DriverMongo, url
	case strings.HasPrefix(url, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(url, "sqlite://")
	default:
		return DriverSQLite, url
	}
}

// Open connects to the backend named by url, prepares its schema and returns the
// user store together with a function releasing the connection.
func Open(ctx context.Context, url, mongoDatabase string, log zerolog.Logger) (store.UserStore, func(context.Context) error, error) {
	driver, dsn := ParseURL(url)
	switch driver {
	case DriverMongo:
		client, err := NewMongo(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		s := store.NewMongoStore(client.Database(mongoDatabase).Collection(store.UsersCollection))
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		log.Info().Str("driver", string(driver)).Str("database", mongoDatabase).Msg("Connected to user store")
		return s, client.Disconnect, nil
	default:
		db, err := NewSQLite(dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Str("driver", string(driver)).Str("path", dsn).Msg("Connected to user store")
		return store.NewSQLiteStore(db), func(context.Context) error { return db.Close() }, nil
	}
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// NewSQLite creates a new SQLite connection pool.
func NewSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(path, ":memory:") {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
