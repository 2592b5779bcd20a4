package main

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/savora/core/config"
	"github.com/savora/core/internal/app"
	"github.com/savora/core/internal/infrastructure/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	loadConfig func(path string) (*config.Config, error)

	appOnce sync.Once
	app     *app.App
	appErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		loadConfig: config.LoadFile,
	}
}

// ensureApp loads configuration and builds the application once per run
func (c *commandContext) ensureApp(ctx context.Context) (*app.App, error) {
	c.appOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := c.loadConfig(path)
		if err != nil {
			c.appErr = err
			return
		}

		level := "warn"
		if c.verbose != nil && *c.verbose {
			level = cfg.Log.Level
		}
		logger, err := logging.New(cfg.Server.Environment, level)
		if err != nil {
			c.appErr = err
			return
		}

		c.app, c.appErr = app.New(ctx, cfg, logger)
	})
	return c.app, c.appErr
}

// withApp runs fn against the application and closes it afterwards, also
// when fn fails
func (c *commandContext) withApp(ctx context.Context, fn func(*app.App) error) error {
	a, err := c.ensureApp(ctx)
	if err != nil {
		return err
	}
	return errors.Join(fn(a), c.close())
}

func (c *commandContext) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
