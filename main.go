package main

import (
	"context"

	"github.com/locvowork/employee_records/internal/bootstrap"
	"github.com/locvowork/employee_records/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		panic(err)
	}

	// A missing or unreadable data file leaves the store empty.
	if _, err := app.Service.Load(ctx); err != nil {
		logger.WarnLog(ctx, "Starting with an empty store: %v", err)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped: %v", err)
	}
}
