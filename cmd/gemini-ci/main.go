package main

import (
	"os"

	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
