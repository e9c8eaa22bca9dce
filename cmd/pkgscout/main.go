package main

import (
	"os"

	"github.com/pkgscout/pkgscout/internal/cli"
	"github.com/pkgscout/pkgscout/pkg/buildinfo"
)

func main() {
	cli.SetVersion(buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
