package main

import (
	"flag"
	"fmt"
	"os"

	"orgclone/internal/appConfig"
	"orgclone/internal/cloneCommand"
	logger "orgclone/internal/log"
)

func main() {
	var flags appConfig.Flags

	flag.StringVar(&flags.Dest, "dest", "", "destination folder to hold all repos (default: the organization name)")
	flag.StringVar(&flags.Org, "org", "", "GitHub organization to clone (default: "+appConfig.DefaultOrganization+")")
	flag.StringVar(&flags.Token, "token", "", "GitHub token to raise API rate limits (env: GITHUB_TOKEN or GH_TOKEN)")
	flag.BoolVar(&flags.UseSSH, "ssh", false, "use SSH clone URLs instead of HTTPS (requires configured SSH keys)")
	flag.BoolVar(&flags.IncludeArchived, "include-archived", false, "include archived repositories (default: exclude)")
	flag.IntVar(&flags.Workers, "workers", appConfig.DefaultWorkers(), "number of concurrent clones, clamped to [1,16]")
	flag.BoolVar(&flags.Full, "full", false, "full clone instead of shallow depth=1")
	flag.BoolVar(&flags.Mirror, "mirror", false, "bare --mirror clone (implies full clone)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "verbose (debug) logging")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "workers" {
			flags.WorkersSet = true
		}
	})

	cfg, err := appConfig.Resolve(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger.InitLogger(cfg.Verbose)

	os.Exit(cloneCommand.Execute(cfg))
}
