//go:build !linux

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("the framebuffer overlay needs linux; use ./window on desktops or ./simulator")
	os.Exit(1)
}
