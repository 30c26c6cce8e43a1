package localstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethanbaker/tubescript/pkg/utils"
	"github.com/go-sql-driver/mysql"
)

// ErrEmptyKey is returned when a key is blank
var ErrEmptyKey = errors.New("key cannot be empty")

// Store is a small persistent string key/value store used by the client for the session
// token and the history cache
type Store interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Backends accepted by Open
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
)

// DefaultPath is where the file backend keeps its data
const DefaultPath = "~/.tubescript.json"

// Open builds the store selected by TUBESCRIPT_STORE
func Open(cfg *utils.Config) (Store, error) {
	backend := strings.ToLower(cfg.GetWithDefault("TUBESCRIPT_STORE", BackendFile))

	switch backend {
	case BackendMemory:
		return NewInMemoryStore(), nil

	case BackendFile:
		return NewFileStore(utils.ExpandHome(cfg.GetWithDefault("TUBESCRIPT_STORE_PATH", DefaultPath)))

	case BackendMySQL:
		dbConfig := mysql.Config{
			User:                 cfg.Get("MYSQL_USER"),
			Passwd:               cfg.Get("MYSQL_PASSWORD"),
			Net:                  "tcp",
			Addr:                 cfg.GetWithDefault("MYSQL_HOST", "127.0.0.1:3306"),
			DBName:               cfg.Get("MYSQL_DATABASE"),
			ParseTime:            true,
			AllowNativePasswords: true,
		}
		return NewSQLStore(dbConfig.FormatDSN())

	default:
		return nil, fmt.Errorf("unknown store backend '%s'", backend)
	}
}
