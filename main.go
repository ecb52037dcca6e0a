package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Joselma-Jemk/pyplayer/internal/config"
	"github.com/Joselma-Jemk/pyplayer/internal/errmsg"
	"github.com/Joselma-Jemk/pyplayer/internal/logging"
	"github.com/Joselma-Jemk/pyplayer/internal/manager"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dataDir    = flag.String("data-dir", "", "playlist data directory (overrides config)")
		createName = flag.String("create", "", "create a playlist with the given name")
		fromPath   = flag.String("from", "", "populate the created playlist from a file or directory")
		activate   = flag.String("activate", "", "set the active playlist by name")
		cleanup    = flag.Bool("cleanup", false, "remove entries whose files are missing")
		verbose    = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpConfigLoad, err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	logCfg := cfg.GetLogConfig()
	if *verbose {
		logCfg.Level = "debug"
	}
	log := logging.New(logging.Options{
		Level:   logCfg.Level,
		File:    logCfg.File,
		MaxSize: logCfg.MaxSize,
		MaxAge:  logCfg.MaxAge,
	})

	mgr, err := manager.New(manager.Options{
		Dir:           cfg.DataDir,
		Logger:        log,
		Extensions:    cfg.VideoExtensions,
		DefaultVolume: cfg.Volume(),
		PositionSave:  cfg.PositionSaveInterval(),
		ValidateFiles: true,
		Backup:        cfg.GetBackupConfig(),
	})
	if err != nil {
		return err
	}

	if *createName != "" {
		p, err := mgr.Create(*fromPath, *createName)
		if err != nil {
			return err
		}
		fmt.Printf("created %q (%s) with %d videos\n", p.Name(), p.ID(), p.Len())
	}
	if *activate != "" {
		if !mgr.SetActiveByName(*activate) {
			return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpSetActive, *activate, fmt.Errorf("not found")))
		}
	}
	if *cleanup {
		for id, removed := range mgr.Cleanup() {
			p := mgr.Get(id)
			fmt.Printf("%s: removed %d missing entries\n", p.Name(), len(removed))
		}
	}

	printSummary(mgr)
	return nil
}

func printSummary(mgr *manager.Manager) {
	fmt.Printf("%d playlist(s), volume %.0f%%\n", mgr.Len(), mgr.Volume()*100)
	for _, info := range mgr.Infos() {
		marker := " "
		if info.Active {
			marker = "*"
		}
		dur := time.Duration(info.TotalDuration) * time.Millisecond
		fmt.Printf("%s %-30s %4d videos  %8s  %s\n",
			marker, info.Name, info.Videos, dur.Round(time.Second), humanize.Time(modTime(info.File)))
	}
}

func modTime(path string) time.Time {
	if fi, err := os.Stat(path); err == nil {
		return fi.ModTime()
	}
	return time.Now()
}
