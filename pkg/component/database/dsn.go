package database

import (
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// BuildPostgresDSN creates a key=value PostgreSQL DSN. Values containing
// spaces, quotes or backslashes are quoted.
//
//	host=localhost port=5432 user=postgres password=secret dbname=tutor sslmode=disable
func BuildPostgresDSN(opts *Options) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		opts.Host,
		opts.Port,
		opts.Username,
		quotePostgresValue(opts.Password),
		opts.Database,
		opts.SSLMode,
	)
}

// BuildMySQLDSN creates a go-sql-driver DSN with utf8mb4 and parseTime enabled.
func BuildMySQLDSN(opts *Options) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = opts.Username
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	cfg.DBName = opts.Database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

func quotePostgresValue(value string) string {
	if value == "" {
		return "''"
	}
	if !strings.ContainsAny(value, " '\\") {
		return value
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return "'" + escaped + "'"
}
