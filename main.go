package main

import (
	"segment-service/app"
	"segment-service/pkg/observability"
)

func main() {
	observability.StartProfiling("segment-service")
	app.Run()
}
