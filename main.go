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
			fmt.Fprintln(os.Stderr, "usage: dotacion serve [--addr :8080]")
			fmt.Fprintln(os.Stderr, "       dotacion report FILE [--period P] [--filter dim=v1,v2] [--watch]")
			fmt.Fprintln(os.Stderr, "       dotacion export FILE --view NAME [--format csv|xlsx] [--out PATH]")
			fmt.Fprintln(os.Stderr, "       dotacion init [--path dotacion.yaml] [--force]")
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
