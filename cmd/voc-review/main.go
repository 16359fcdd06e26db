package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/menta2k/voc-review/internal/config"
	"github.com/menta2k/voc-review/internal/utils"
	"github.com/menta2k/voc-review/pkg/annotation"
	"github.com/menta2k/voc-review/pkg/classes"
	"github.com/menta2k/voc-review/pkg/display/highgui"
	"github.com/menta2k/voc-review/pkg/log"
	"github.com/menta2k/voc-review/pkg/processing"
	"github.com/menta2k/voc-review/pkg/review"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		code := exitCode(err)
		if code != 0 {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}

	logger, err := log.NewLogger(log.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal(err)
	}
}

// exitCode maps a configuration error to the process exit status; -h is not a failure
func exitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

// loadConfig layers defaults, environment, an optional JSON file and explicit flags
func loadConfig(args []string) (*config.Config, error) {
	cfg := config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	var configPath string
	var folder, out, classFile, companion, imageExt, logLevel, logFile string
	var displayWidth, displayHeight, outline int

	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "optional JSON configuration file")
	fs.StringVar(&folder, "folder", cfg.Review.Folder, "the input folder, scanned recursively for .xml annotations")
	fs.StringVar(&out, "out", cfg.Review.Out, "the output folder for accepted image/annotation pairs")
	fs.StringVar(&classFile, "class_file", cfg.Review.ClassFile, "text file with one \"name R G B\" class colour per line")
	fs.IntVar(&displayWidth, "display_width", cfg.Display.Width, "the display width (pixels)")
	fs.IntVar(&displayHeight, "display_height", cfg.Display.Height, "the display height (pixels)")
	fs.IntVar(&outline, "outline", cfg.Display.Outline, "box outline width in pixels, 0=off")
	fs.StringVar(&companion, "companion", cfg.Companion.Strategy, "how to find an annotation's image: ext|path")
	fs.StringVar(&imageExt, "image_ext", cfg.Companion.ImageExt, "image extension used by -companion ext")
	fs.StringVar(&logLevel, "log_level", cfg.Log.Level, "log level: debug|info|warn|error")
	fs.StringVar(&logFile, "log_file", cfg.Log.File, "optional rotating log file")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %s -folder in -out accepted -class_file classes.txt [-display_width 1920] [-display_height 1080] [-companion ext|path]\n", fs.Name())
		fmt.Fprintln(fs.Output(), "keys: a=previous d=next s=accept q=quit")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath != "" {
		fileCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := fileCfg.ApplyEnv(); err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	// explicit flags win over file and environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "folder":
			cfg.Review.Folder = folder
		case "out":
			cfg.Review.Out = out
		case "class_file":
			cfg.Review.ClassFile = classFile
		case "display_width":
			cfg.Display.Width = displayWidth
		case "display_height":
			cfg.Display.Height = displayHeight
		case "outline":
			cfg.Display.Outline = outline
		case "companion":
			cfg.Companion.Strategy = companion
		case "image_ext":
			cfg.Companion.ImageExt = imageExt
		case "log_level":
			cfg.Log.Level = logLevel
		case "log_file":
			cfg.Log.File = logFile
		}
	})

	if err := cfg.Validate(); err != nil {
		fs.Usage()
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	registry, err := classes.Load(cfg.Review.ClassFile)
	if err != nil {
		return err
	}
	logger.WithFields(log.Fields{"file": cfg.Review.ClassFile, "classes": registry.Len()}).Info("loaded class colours")
	for _, c := range registry.Entries() {
		logger.WithFields(log.Fields{"class": c.Name, "color": fmt.Sprintf("%d,%d,%d", c.Color.R, c.Color.G, c.Color.B)}).Debug("class colour")
	}

	resolver, err := annotation.NewResolver(cfg.Companion.Strategy, cfg.Companion.ImageExt)
	if err != nil {
		return err
	}

	created, err := utils.EnsureDir(cfg.Review.Out)
	if err != nil {
		return fmt.Errorf("failed to prepare output folder %s: %w", cfg.Review.Out, err)
	}
	if created {
		logger.WithField("folder", cfg.Review.Out).Info("created output folder")
	} else {
		logger.WithField("folder", cfg.Review.Out).Info("output folder exists")
	}

	processor := processing.NewProcessor()
	processor.Outline = cfg.Display.Outline

	session, err := review.NewSession(review.Options{
		Folder:        cfg.Review.Folder,
		Out:           cfg.Review.Out,
		DisplayWidth:  cfg.Display.Width,
		DisplayHeight: cfg.Display.Height,
	}, registry, resolver, processor, highgui.New(), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("quit")
	return nil
}
