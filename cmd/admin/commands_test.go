package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/magicscuts/internal/adapter/repository"
	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	"github.com/johnquangdev/magicscuts/pkg/config"
	"github.com/johnquangdev/magicscuts/pkg/jwt"
)

type fakeLister struct {
	keys      []string
	gotPrefix string
}

func (f *fakeLister) ListFiles(_ context.Context, prefix string) ([]string, error) {
	f.gotPrefix = prefix
	var out []string
	for _, k := range f.keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "admin-secret"
	cfg.JWT.AccessExpiry = time.Minute
	cfg.JWT.Issuer = "magicscuts"
	return cfg
}

// newTestEnv points the commands at a sqlite file. When autoMigrate is set
// every connection creates the gorm schema first.
func newTestEnv(t *testing.T, autoMigrate bool) (*env, *fakeLister) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "admin.db")
	lister := &fakeLister{}
	e := &env{
		loadConfig: func() (*config.Config, error) { return testConfig(), nil },
		openDB: func(*config.Config) (*gorm.DB, error) {
			db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
			if err != nil {
				return nil, err
			}
			if autoMigrate {
				if err := db.AutoMigrate(&entities.User{}, &entities.Project{}); err != nil {
					return nil, err
				}
			}
			return db, nil
		},
		openStore: func(*config.Config) (fileLister, error) { return lister, nil },
		dialect:   "sqlite3",
	}
	return e, lister
}

func execute(t *testing.T, e *env, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(e)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrateUpAndDown(t *testing.T) {
	e, _ := newTestEnv(t, false)

	out, err := execute(t, e, "migrate", "up")
	if err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if !strings.Contains(out, "applied 1 migration(s)") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = execute(t, e, "migrate", "up")
	if err != nil || !strings.Contains(out, "applied 0 migration(s)") {
		t.Fatalf("second migrate up: %q, %v", out, err)
	}

	out, err = execute(t, e, "migrate", "down")
	if err != nil || !strings.Contains(out, "rolled back 1 migration(s)") {
		t.Fatalf("migrate down: %q, %v", out, err)
	}
}

func TestUsersCreditsAndToken(t *testing.T) {
	e, _ := newTestEnv(t, true)

	if _, err := execute(t, e, "users", "create", "--email", "dev@example.com", "--credits", "2"); err != nil {
		t.Fatalf("users create: %v", err)
	}

	db, err := e.openDB(nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	user, err := repository.NewUserRepository(db).FindByEmail(context.Background(), "dev@example.com")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.Close()
	if user.Name != "dev@example.com" || user.Credits != 2 {
		t.Fatalf("unexpected user %+v", user)
	}

	out, err := execute(t, e, "credits", "grant", user.ID.String(), "3")
	if err != nil {
		t.Fatalf("credits grant: %v", err)
	}
	if !strings.Contains(out, "now has 5 credit(s)") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = execute(t, e, "token", "mint", "dev@example.com", "--ttl", "1h")
	if err != nil {
		t.Fatalf("token mint: %v", err)
	}
	cfg := testConfig()
	claims, err := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer).ValidateAccessToken(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("minted token rejected: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token for %s, want %s", claims.UserID, user.ID)
	}
	if remaining := time.Until(claims.ExpiresAt.Time); remaining < 50*time.Minute {
		t.Fatalf("ttl flag ignored, token expires in %v", remaining)
	}
}

func TestCommandsRejectBadInput(t *testing.T) {
	e, _ := newTestEnv(t, true)

	tests := []struct {
		name string
		args []string
	}{
		{"create without email", []string{"users", "create"}},
		{"negative credits", []string{"users", "create", "--email", "x@example.com", "--credits", "-1"}},
		{"grant bad uuid", []string{"credits", "grant", "nope", "1"}},
		{"grant zero", []string{"credits", "grant", "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "0"}},
		{"grant unknown user", []string{"credits", "grant", "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "1"}},
		{"mint unknown user", []string{"token", "mint", "ghost@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, e, tt.args...); err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
		})
	}
}

func TestStorageList(t *testing.T) {
	e, lister := newTestEnv(t, false)
	lister.keys = []string{"magicscuts/u1/p1/rank-1.mp4", "magicscuts/u2/p2/rank-1.mp4"}

	out, err := execute(t, e, "storage", "ls", "magicscuts/u1/")
	if err != nil {
		t.Fatalf("storage ls: %v", err)
	}
	if lister.gotPrefix != "magicscuts/u1/" {
		t.Fatalf("prefix %q not passed through", lister.gotPrefix)
	}
	if strings.TrimSpace(out) != "magicscuts/u1/p1/rank-1.mp4" {
		t.Fatalf("unexpected output %q", out)
	}
}
