// Command admin manages the schema, accounts and stored media of a
// magicscuts deployment.
package main

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/johnquangdev/magicscuts/internal/infrastructure/database"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/storage"
	"github.com/johnquangdev/magicscuts/pkg/config"
)

// fileLister is the part of the media store the storage commands use
type fileLister interface {
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}

// env wires the commands to their backends
type env struct {
	loadConfig func() (*config.Config, error)
	openDB     func(cfg *config.Config) (*gorm.DB, error)
	openStore  func(cfg *config.Config) (fileLister, error)
	// dialect is the sql-migrate dialect of the database openDB returns
	dialect string
}

func defaultEnv() *env {
	return &env{
		loadConfig: config.Read,
		openDB:     database.NewPostgresDB,
		openStore: func(cfg *config.Config) (fileLister, error) {
			return storage.NewMinIOStore(cfg)
		},
		dialect: "postgres",
	}
}

func main() {
	if err := newRootCmd(defaultEnv()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
