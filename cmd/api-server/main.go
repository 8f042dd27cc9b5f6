package main

import (
	"github.com/Lidan4315/Ideku-sub000/internal/app"
)

func main() {
	application, err := app.Initialize("")
	if err != nil {
		panic(err)
	}

	app.StartServer(application)
}
