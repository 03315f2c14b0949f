package main

import (
	"context"
	"log"

	"github.com/locvowork/employee_details/internal/bootstrap"
	"github.com/locvowork/employee_details/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		app.Close()
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped", err)
		log.Fatal(err)
	}
	logger.InfoLog(ctx, "Server stopped")
}
