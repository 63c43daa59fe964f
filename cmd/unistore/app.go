package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	// Packages
	operator "github.com/mutablelogic/go-unistore/operator"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	URL   string `env:"UNISTORE_URL" default:"mem://default" help:"Backend URL (mem://name, file://name/path, s3://bucket)"`
	Debug bool   `help:"Enable debug output"`

	ctx      context.Context
	cancel   context.CancelFunc
	operator *operator.Operator
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewApp(app Globals) (*Globals, error) {
	// Create the context
	// This context is cancelled when the process receives a SIGINT or SIGTERM
	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Return the app
	return &app, nil
}

func (app *Globals) Close() error {
	defer app.cancel()
	if app.operator != nil {
		return app.operator.Close()
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// METHODS

func (app *Globals) Context() context.Context {
	return app.ctx
}

// Operator opens the backend named by the URL flag, once.
func (app *Globals) Operator() (*operator.Operator, error) {
	if app.operator != nil {
		return app.operator, nil
	}
	o, err := operator.DefaultRegistry().Open(app.ctx, app.URL)
	if err != nil {
		return nil, err
	}
	app.operator = o
	return o, nil
}
