// Package main provides the convnet CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/convnet/internal/lenet"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("convnet %s\n", version)
			return
		case "summary":
			cfg := lenet.DefaultConfig()
			cfg.Seed = 1
			fmt.Println(lenet.New(cfg))
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
			usage()
			os.Exit(2)
		}
	}
	usage()
}

func usage() {
	fmt.Println("convnet - LeNet-5 style convolutional networks for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  summary    Print the LeNet-5 architecture and parameter count")
	fmt.Println("")
	fmt.Println("Training: go run ./examples/lenet -synthetic")
}
