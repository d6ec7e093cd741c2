package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/2beens/maxpot/internal/config"
	"github.com/2beens/maxpot/internal/db"
	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/timeutil"
	"github.com/2beens/maxpot/internal/tracker"

	log "github.com/sirupsen/logrus"
)

type documentStore interface {
	LoadDocument(ctx context.Context, userID string) ([]byte, error)
	Save(ctx context.Context, userID string, state *entry.State, updatedAt time.Time) error
}

// Context is shared by all maxpot_tools commands.
type Context struct {
	Env        string
	ConfigPath string
	EnvFile    string
	Location   *time.Location
	Out        io.Writer
	Now        func() time.Time

	// store replaces the configured postgres when set
	store documentStore
}

func (c *Context) calendar(location *time.Location) *timeutil.Calendar {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = c.Location
	}
	return timeutil.NewCalendar(now, location)
}

// openStateRepo connects to the configured postgres. The returned func closes the pool.
func (c *Context) openStateRepo(ctx context.Context) (documentStore, *timeutil.Calendar, func(), error) {
	if c.store != nil {
		return c.store, c.calendar(nil), func() {}, nil
	}

	cfg, err := config.Load(c.Env, c.ConfigPath)
	if err != nil {
		return nil, nil, nil, err
	}
	secrets, err := config.LoadSecrets(ctx, c.EnvFile)
	if err != nil {
		return nil, nil, nil, err
	}
	location, err := cfg.Location()
	if err != nil {
		return nil, nil, nil, err
	}

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("new db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("ping db: %w", err)
	}
	log.Debugf("connected to db [%s:%s/%s]", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDBName)

	return tracker.NewStateRepo(pool), c.calendar(location), pool.Close, nil
}
