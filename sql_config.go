package blogapi

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type SQLConfig struct {
	Driver   string
	Host     string
	Port     int
	Username string
	Password string
	Database string
	SSLMode  string
}

func NewSQLConfig() *SQLConfig {
	return &SQLConfig{
		Driver:  "postgres",
		Host:    "localhost",
		Port:    5432,
		SSLMode: "disable",
	}
}

func (c *SQLConfig) WithCredentials(username, password string) *SQLConfig {
	c.Username = username
	c.Password = password
	return c
}

func (c *SQLConfig) WithHost(host string, port int) *SQLConfig {
	c.Host = host
	c.Port = port
	return c
}

func (c *SQLConfig) WithDatabase(database string) *SQLConfig {
	c.Database = database
	return c
}

func (c *SQLConfig) WithSSLMode(mode string) *SQLConfig {
	c.SSLMode = mode
	return c
}

func (c *SQLConfig) BuildDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
}

func (c *SQLConfig) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(c.Driver, c.BuildDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
