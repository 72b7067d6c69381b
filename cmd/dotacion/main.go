package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/Tincho2002/dotacion-assa-2025/internal/dotacioncli"
)

func main() {
	if err := dotacioncli.Execute(os.Args[1:]); err != nil {
		if errors.Is(err, dotacioncli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr)
			dotacioncli.PrintUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
