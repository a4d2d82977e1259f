package wire

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/viper"

	"github.com/mithrel/cellmark/internal/config"
	"github.com/mithrel/cellmark/internal/db"
	"github.com/mithrel/cellmark/internal/host"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg  *viper.Viper
	Repo db.Repo
	Bus  *host.Bus
	Base *db.Base

	closers []io.Closer
}

// BuildApp opens the base described by the config. An explicit dsn
// (sqlite://path or mem://) overrides the data directory.
func BuildApp(ctx context.Context, v *viper.Viper, dsn string) (*App, error) {
	if dsn == "" {
		dsn = "sqlite://" + config.ResolveDBPath(v)
	}
	repo, closer, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	bus := host.NewBus()
	return &App{
		Cfg:     v,
		Repo:    repo,
		Bus:     bus,
		Base:    db.NewBase(repo, bus, v.GetString("table")),
		closers: []io.Closer{closer},
	}, nil
}

// OnClose registers c to be closed, last registered first, by Close.
func (a *App) OnClose(c io.Closer) {
	a.closers = append(a.closers, c)
}

func (a *App) Close() error {
	a.Bus.Close()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
