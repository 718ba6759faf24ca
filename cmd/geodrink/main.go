package main

import "github.com/fxi/geodrink/internal/cmd"

func main() {
	cmd.Execute()
}
