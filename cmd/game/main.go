package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/fgferre/roguefield/internal/client"
	"github.com/fgferre/roguefield/internal/config"
	"github.com/fgferre/roguefield/internal/game"
)

func main() {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	// Log to a file so the terminal stays clean for rendering.
	logOut, err := os.OpenFile("roguefield.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logOut = os.Stderr
	} else {
		defer logOut.Close()
	}
	logger := log.NewWithOptions(logOut, log.Options{ReportTimestamp: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := game.NewServer(logger)
	go srv.Run(ctx)

	reader := bufio.NewReader(os.Stdin)
	c := client.NewClient(srv, reader, os.Stdout, client.ClientOptions{
		Username: config.GetEnv("USER", "player"),
	})
	if err := c.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
