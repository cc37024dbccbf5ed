package main

import (
	"context"
	"path/filepath"

	"github.com/desertthunder/moviedb/internal/repositories"
	"github.com/desertthunder/moviedb/internal/server"
	"github.com/desertthunder/moviedb/internal/site"
	"github.com/urfave/cli/v3"
)

// GenerateSite renders the catalog into outputPath using the template at templatePath.
//
// Both paths default to the [site] section of the config.
func (r *Runner) GenerateSite(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	templatePath := r.config.Site.Template
	outputPath := r.config.Site.Output
	if args.Len() > 0 {
		templatePath = args.Get(0)
	}
	if args.Len() > 1 {
		outputPath = args.Get(1)
	}

	title := r.config.Site.Title
	if cmd.IsSet("title") {
		title = cmd.String("title")
	}

	movies, err := r.store()
	if err != nil {
		return err
	}
	list, err := movies.List(map[string]any{repositories.CriteriaSort: cmd.String("sort")})
	if err != nil {
		return err
	}

	gen := site.NewGenerator(title)
	if err := gen.Render(list, templatePath, outputPath); err != nil {
		return err
	}

	r.logger.Info("site generated", "template", templatePath, "output", outputPath, "movies", len(list))
	return r.writePlain("✓ Wrote %d movies to %s\n", len(list), outputPath)
}

// SiteInit writes the built-in starter template.
func (r *Runner) SiteInit(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Site.Template
	if cmd.Args().Present() {
		path = cmd.Args().First()
	}

	if err := site.WriteDefaultTemplate(path, cmd.Bool("force")); err != nil {
		return err
	}
	return r.writePlain("✓ Template written to %s\n", path)
}

// Serve previews the generated site until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	if dir == "" {
		dir = filepath.Dir(r.config.Site.Output)
	}
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	srv := server.New(addr, dir, r.logger)
	return srv.ListenAndServe(ctx, func(bound string) {
		r.logger.Info("serving site", "dir", dir)
		r.writePlain("Preview at http://%s/ (ctrl+c to stop)\n", bound)
	})
}

