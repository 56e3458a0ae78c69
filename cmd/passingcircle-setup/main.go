package main

import (
	"github.com/passingcircle/passingcircle/pkg/cli"
)

func main() {
	cli.Execute()
}
