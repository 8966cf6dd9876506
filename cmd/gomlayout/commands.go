package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/config"
	"github.com/gompdf/gomlayout/internal/state"
	"github.com/gompdf/gomlayout/pkg/api"
)

// converterOptions builds converter options from the configuration, with
// command line flags taking precedence.
func converterOptions(cfg *config.Config, cmd *cli.Command, log *zap.Logger) (api.Options, error) {
	opts := api.DefaultOptions()
	opts.ViewportWidth = cfg.Layout.Viewport.Width
	opts.ViewportHeight = cfg.Layout.Viewport.Height
	opts.Scale = cfg.Layout.Scale
	opts.InlineStyles = cfg.Layout.InlineStyles
	opts.PruneDeclarations = cfg.Layout.PruneDeclarations
	opts.UserStylesheets = append(opts.UserStylesheets, cfg.Layout.UserStylesheets...)
	opts.ResourcePaths = append(opts.ResourcePaths, cfg.Layout.ResourcePaths...)
	opts.VerboseDump = cfg.Dump.Verbose
	opts.DumpIndent = cfg.Dump.Indent
	opts.Title = cfg.Render.Title
	opts.Author = cfg.Render.Author
	opts.Compress = cfg.Render.Compress
	opts.Logger = log

	if path := cfg.Layout.UserAgentStylesheet; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return opts, fmt.Errorf("unable to read user agent stylesheet: %w", err)
		}
		opts.UserAgentStylesheet = string(data)
	}

	if cmd.IsSet("width") {
		opts.ViewportWidth = cmd.Float("width")
	}
	if cmd.IsSet("height") {
		opts.ViewportHeight = cmd.Float("height")
	}
	if cmd.IsSet("scale") {
		opts.Scale = cmd.Float("scale")
	}
	opts.UserStylesheets = append(opts.UserStylesheets, cmd.StringSlice("user-css")...)
	if cmd.Bool("no-inline-styles") {
		opts.InlineStyles = false
	}
	if cmd.Bool("verbose") {
		opts.VerboseDump = true
	}
	return opts, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func layoutSource(ctx context.Context, cmd *cli.Command) (*api.Converter, *api.Result, error) {
	env := state.EnvFromContext(ctx)

	source := cmd.Args().Get(0)
	if source == "" {
		return nil, nil, errors.New("no input source has been specified")
	}

	opts, err := converterOptions(env.Cfg, cmd, env.Log)
	if err != nil {
		return nil, nil, err
	}
	c := api.NewWithOptions(opts)

	var r *api.Result
	if isURL(source) {
		r, err = c.LayoutURL(ctx, source)
	} else {
		r, err = c.LayoutFile(ctx, source)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("unable to lay out '%s': %w", source, err)
	}
	for _, w := range r.Warnings {
		env.Log.Warn("Ignored", zap.String("reason", w))
	}
	return c, r, nil
}

func runLayout(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 1 {
		state.EnvFromContext(ctx).Log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	_, r, err := layoutSource(ctx, cmd)
	if err != nil {
		return err
	}
	return r.Dump(os.Stdout)
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	dest := cmd.Args().Get(1)
	if dest == "" {
		return errors.New("no destination has been specified")
	}
	ext := strings.ToLower(filepath.Ext(dest))
	if ext != ".pdf" && ext != ".png" {
		return fmt.Errorf("unsupported output format '%s'", ext)
	}

	c, r, err := layoutSource(ctx, cmd)
	if err != nil {
		return err
	}

	if ext == ".pdf" {
		err = c.RenderPDFFile(r, dest)
	} else {
		err = renderPNGFile(c, r, dest)
	}
	if err != nil {
		return err
	}
	env.Log.Info("Rendered", zap.String("file", dest))
	return nil
}

func renderPNGFile(c *api.Converter, r *api.Result, dest string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("unable to create destination file '%s': %w", dest, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return c.RenderPNG(r, out)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
		kind string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		kind = "default"
		data = config.Prepare()
	} else {
		kind = "actual"
		if data, err = config.Dump(env.Cfg); err != nil {
			return fmt.Errorf("unable to get configuration: %w", err)
		}
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
