package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsDSN(t *testing.T) {
	p := Params{User: "app", Pass: "s3cret", Host: "db", Port: "3306", Name: "hotel"}
	dsn := p.DSN()
	assert.Contains(t, dsn, "app:s3cret@tcp(db:3306)/hotel?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestParamsDSNWithoutPassword(t *testing.T) {
	dsn := Params{User: "app", Host: "db", Port: "3306", Name: "hotel"}.DSN()
	assert.Contains(t, dsn, "app@tcp(db:3306)/hotel")
}
