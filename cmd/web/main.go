package main

import "github.com/RanchesW/KazRPG/internal/app"

func main() {
	app.Run()
}
