package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rcsoft/photoreport"
	"github.com/rcsoft/photoreport/internal/config"
	"github.com/rcsoft/photoreport/internal/utils"
	"github.com/rcsoft/photoreport/pkg/report"
	"github.com/rcsoft/photoreport/pkg/scanner"
	"github.com/rcsoft/photoreport/pkg/transcoder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var configFile, extList string
	flag.StringVar(&configFile, "config", "", "JSON config file (flags given on the command line still win)")
	flag.StringVar(&cfg.InputDir, "in", cfg.InputDir, "input folder to scan")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output folder for normalized images")
	flag.StringVar(&cfg.DocPath, "doc", cfg.DocPath, "path of the generated .docx report")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "output width in pixels")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "output height in pixels")
	flag.IntVar(&cfg.Quality, "quality", cfg.Quality, "JPEG quality (1-95)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent transcodes, 1 = sequential")
	flag.StringVar(&extList, "ext", "", "comma-separated image extensions (default png,jpg,jpeg)")
	flag.Parse()

	if configFile != "" {
		if cfg, err = mergeConfigFile(cfg, configFile); err != nil {
			log.Fatal(err)
		}
	}
	if extList != "" {
		cfg.Extensions = utils.ParseExtensions(extList)
	}

	if cfg.InputDir == "" || cfg.OutputDir == "" || cfg.DocPath == "" {
		log.Fatalf("usage: %s -in photos/ -out normalized/ -doc report.docx [-width 1280] [-height 720] [-quality 85]",
			filepath.Base(os.Args[0]))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if !utils.DirExists(cfg.InputDir) {
		log.Fatalf("input folder does not exist: %s", cfg.InputDir)
	}

	pipeline := photoreport.NewWithConfig(
		scanner.Config{Extensions: cfg.Extensions},
		transcoder.Params{Width: cfg.Width, Height: cfg.Height, Quality: cfg.Quality},
		report.DefaultOptions(),
		cfg.Workers,
	)

	log.Printf("scanning %s", cfg.InputDir)
	start := time.Now()

	stats, err := pipeline.Run(context.Background(), cfg.InputDir, cfg.OutputDir, cfg.DocPath)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("processed %d images in %d folders (%s)", stats.Images, stats.Folders, time.Since(start).Round(time.Millisecond))
	log.Printf("documento generado en: %s", cfg.DocPath)
}

// mergeConfigFile loads a JSON config file and overlays it on cfg with the
// documented precedence: flags over environment, environment over file,
// file over defaults.
func mergeConfigFile(cfg *config.Config, path string) (*config.Config, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	fileCfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := fileCfg.ApplyEnv(); err != nil {
		return nil, err
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["in"] {
		fileCfg.InputDir = cfg.InputDir
	}
	if set["out"] {
		fileCfg.OutputDir = cfg.OutputDir
	}
	if set["doc"] {
		fileCfg.DocPath = cfg.DocPath
	}
	if set["width"] {
		fileCfg.Width = cfg.Width
	}
	if set["height"] {
		fileCfg.Height = cfg.Height
	}
	if set["quality"] {
		fileCfg.Quality = cfg.Quality
	}
	if set["workers"] {
		fileCfg.Workers = cfg.Workers
	}
	return fileCfg, nil
}
