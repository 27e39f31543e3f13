package main

import (
	"os"

	"campusmate/client/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
