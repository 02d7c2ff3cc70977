package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/bookly-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "bookly", Password: "pw", Name: "bookly", SSLMode: "require"})
	assert.Equal(t, "host=db port=5433 user=bookly password=pw dbname=bookly sslmode=require", dsn)
}
