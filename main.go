package main

import "bylines/cmd/handlers"

func main() {
	handlers.Execute()
}
