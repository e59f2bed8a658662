package main

import (
	"fmt"
	"os"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bpsctl:", err)
		os.Exit(1)
	}
}
