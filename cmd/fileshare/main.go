package main

import (
	"context"
	"log"
	"os"

	"file-share-api/internal"
)

func main() {
	ctx := context.Background()

	app, err := internal.NewApp(ctx)
	if err != nil {
		log.Fatalf("init app failed: %v", err)
	}
	defer app.Close()

	if err = app.InitControllers(ctx); err != nil {
		app.Logger().Sugar().Errorf("fileshare init failed: %v", err)
		os.Exit(1)
	}

	if err = app.Run(ctx); err != nil {
		app.Logger().Sugar().Errorf("fileshare stopped with error: %v", err)
		os.Exit(1)
	}
}
