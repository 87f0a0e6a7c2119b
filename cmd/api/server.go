package main

import (
	"context"
	"net/http"
	"time"
)

func (app *application) serve() error {
	server := &http.Server{
		Addr:         app.Config.GetServerAddr(),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	app.Logger.Sugar().Infof("starting server on %s", server.Addr)

	return server.ListenAndServe()
}

// startJanitor runs periodic housekeeping: active jobs past their application
// deadline get closed so the public board stays honest.
func (app *application) startJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.Pool.Submit("close-expired-jobs", func(ctx context.Context) error {
					n, err := app.Repo.CloseExpiredJobs(ctx, time.Now())
					if err != nil {
						return err
					}
					if n > 0 {
						app.Logger.Sugar().Infow("closed expired jobs", "count", n)
					}
					return nil
				})
			}
		}
	}()
}
