package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"time"

	"travel/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnection = 10
	maxOpenConnection = 10
	connMaxLifetime   = 30 * time.Minute
)

// Connection splits traffic between a read replica and the primary.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type endpoint struct {
	name     string
	host     string
	port     string
	username string
	password string
	database string
	sslMode  string
}

func (e endpoint) dsn() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.username, e.password),
		Host:     net.JoinHostPort(e.host, e.port),
		Path:     e.database,
		RawQuery: "sslmode=" + e.sslMode,
	}

	return dsn.String()
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	read := endpoint{
		name:     "read",
		host:     pg.Read.Host,
		port:     pg.Read.Port,
		username: pg.Read.Username,
		password: pg.Read.Password,
		database: pg.Prefix + pg.Read.Name,
		sslMode:  pg.Read.SSLMode,
	}

	write := endpoint{
		name:     "write",
		host:     pg.Write.Host,
		port:     pg.Write.Port,
		username: pg.Write.Username,
		password: pg.Write.Password,
		database: pg.Prefix + pg.Write.Name,
		sslMode:  pg.Write.SSLMode,
	}

	return &Connection{
		Read:  connect(read, pg.MaxRetry, pg.RetryWaitTime),
		Write: connect(write, pg.MaxRetry, pg.RetryWaitTime),
	}
}

// WriteDSN is used by the migrator, which always talks to the primary.
func WriteDSN(cfg *config.Config) string {
	pg := cfg.DB.Postgres

	return endpoint{
		host:     pg.Write.Host,
		port:     pg.Write.Port,
		username: pg.Write.Username,
		password: pg.Write.Password,
		database: pg.Prefix + pg.Write.Name,
		sslMode:  pg.Write.SSLMode,
	}.dsn()
}

func connect(ep endpoint, maxRetry, waitSeconds int) *sqlx.DB {
	logger := log.With().
		Str("name", ep.name).
		Str("host", ep.host).
		Str("port", ep.port).
		Str("dbName", ep.database).
		Logger()

	for attempt := range max(maxRetry, 1) {
		db, err := sqlx.Connect("postgres", ep.dsn())
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnection)
			db.SetMaxOpenConns(maxOpenConnection)
			db.SetConnMaxLifetime(connMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt+1).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logger.Fatal().Msgf("Giving up on database after %d attempts", max(maxRetry, 1))

	return nil
}
