package main

import (
	"os"

	"filefusion/internal/app"
)

func main() {
	os.Exit(app.Execute())
}
