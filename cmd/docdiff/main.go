package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/scott-cotton/cli"
)

var log = zerolog.New(os.Stderr).With().Timestamp().Logger()

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
