/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/valdris/riftkit/cmd/riftkit/cmd"
)

func main() {
	cmd.Execute()
}
