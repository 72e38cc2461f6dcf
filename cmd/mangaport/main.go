package main

import (
	"context"
	"os"

	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"

	"github.com/mangaport/mangaport/pkg/config"
	"github.com/mangaport/mangaport/pkg/export"
	"github.com/mangaport/mangaport/pkg/models"
	"github.com/mangaport/mangaport/pkg/storage"
	"github.com/mangaport/mangaport/pkg/version"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:    "mangaport",
		Usage:   "export an ordered collection of page images as an EPUB",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a YAML config file"},
			&cli.StringFlag{Name: "name", Required: true, Usage: "section title, also the archive base filename"},
			&cli.StringFlag{Name: "url", Usage: "section source URL"},
			&cli.StringFlag{Name: "platform-name", Usage: "display name of the source platform"},
			&cli.StringFlag{Name: "platform-url", Usage: "base URL of the source platform"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output directory (overrides config)"},
			&cli.StringSliceFlag{Name: "page", Required: true, Usage: "page image URL, in reading order (repeatable)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.New(c.String("config"))
			if err != nil {
				return err
			}

			outputDir := cfg.OutputDir
			if c.String("output") != "" {
				outputDir = c.String("output")
			}

			platform := models.NewPlatform(c.String("platform-name"), c.String("platform-url"))
			section := models.NewSection(c.String("name"), c.String("url"))
			for i, pageURL := range c.StringSlice("page") {
				section.AddPage(models.NewPage(i, pageURL))
			}

			epub := export.New(platform, section, export.Config{
				ResourceRoot: cfg.ResourceRoot,
				Operator:     cfg.Operator,
				Version:      version.Version,
				Fetcher:      storage.NewHTTPFetcher(cfg.ResourceRoot, cfg.FetchTimeout),
			})

			log.Info("starting export", logger.Data{
				"section": section.Name,
				"pages":   section.PageCount(),
			})

			destPath, err := epub.Save(context.Background(), outputDir)
			if err != nil {
				return err
			}

			log.Info("export finished", logger.Data{"path": destPath})
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("export failed")
	}
}
