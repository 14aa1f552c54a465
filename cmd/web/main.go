package main

import "qyzmet_backend/internal/app"

func main() {
	app.Run()
}
