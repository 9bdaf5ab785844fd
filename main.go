package main

import (
	"context"
	"time"
	_ "time/tzdata" // config tz must resolve in minimal images

	"github.com/Lakshm1-R/placement-app/internal/app"
)

const shutdownTimeout = 10 * time.Second

func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	application.Stop(ctx)
}
