// Package tutor provides the tutor service application.
package tutor

import (
	"context"

	"github.com/spf13/viper"

	"github.com/kart-io/tutor-x/pkg/infra/app"
)

// Name is the name of the application.
const Name = "tutor"

const appDescription = `Tutor-X tutoring service

An AI tutor for K-12 reading classes. Each student question is:
  - classified into one of five pedagogical categories
  - grounded in an excerpt of the class document
  - answered by a category-specific coaching persona
  - stored so teachers can review and summarize class questions`

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(Name),
		app.WithShortDescription("AI tutoring service"),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func(ctx context.Context, v *viper.Viper) error {
			return Run(ctx, opts, v)
		}),
	)
}

// Run runs the tutor service with the given options until ctx is cancelled.
func Run(ctx context.Context, opts *Options, v *viper.Viper) error {
	srv, err := NewServer(ctx, opts, v)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
