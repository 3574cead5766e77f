// Command pack is the thin CLI surface of spec.md §6: it reads a voxel
// field as JSON, runs the brick-packing core, and writes the resulting
// manifest (plus optional side renderings) back out. The conventions here
// — a single urfave/cli/v3 command, an ExitErrHandler that logs instead of
// letting the library print its own message, and os.Exit deferred to the
// very end of main — follow the fb2cng converter's cmd/fbc/main.go.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/brickforge/brickforge/catalogue"
	"github.com/brickforge/brickforge/hardcoded"
	"github.com/brickforge/brickforge/internal/bberr"
	"github.com/brickforge/brickforge/internal/bblog"
	"github.com/brickforge/brickforge/manifest"
	"github.com/brickforge/brickforge/oracle"
	"github.com/brickforge/brickforge/packer"
	"github.com/brickforge/brickforge/palette"

	"github.com/google/uuid"
)

var exitCode int

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bblog.New("pack", false)

	app := &cli.Command{
		Name:  "pack",
		Usage: "convert a coloured voxel field into a LEGO-style brick manifest",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "path to the input voxel JSON document"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "path to write the manifest JSON"},
			&cli.BoolFlag{Name: "skip-availability", Usage: "skip the availability oracle; every part is placed unverified"},
			&cli.StringFlag{Name: "availability-url", Usage: "base `URL` of the availability oracle service"},
			&cli.StringFlag{Name: "object-type", Usage: "hint used to match a hardcoded object recipe, e.g. desk"},
			&cli.StringFlag{Name: "catalogue", Usage: "path to a catalogue YAML file, overriding the embedded default"},
			&cli.StringFlag{Name: "ldraw", Usage: "also write an LDraw-style text export to `FILE`"},
			&cli.StringFlag{Name: "instructions", Usage: "also write a plain-text assembly guide to `FILE`"},
			&cli.StringFlag{Name: "shopping-list", Usage: "also write a plain-text shopping list to `FILE`"},
			&cli.StringFlag{Name: "csv", Usage: "also write the inventory as CSV to `FILE`"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable debug logging"},
		},
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return &bberr.InvalidInputError{Reason: err.Error()}
		},
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if err == nil {
				return
			}
			logger.Errorf("%v", err)
			exitCode = bberr.ExitCode(err)
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runPack(ctx, cmd, logger)
		},
	}

	if err := app.Run(ctx, os.Args); err != nil && exitCode == 0 {
		exitCode = bberr.ExitCode(err)
	}
	os.Exit(exitCode)
}

func runPack(ctx context.Context, cmd *cli.Command, logger bblog.Logger) error {
	if cmd.Bool("debug") {
		if dl, ok := logger.(*bblog.DefaultLogger); ok {
			dl.SetDebug(true)
		}
	}

	raw, err := os.ReadFile(cmd.String("input"))
	if err != nil {
		return &bberr.InvalidInputError{Reason: fmt.Sprintf("cannot read input file: %v", err)}
	}

	field, hints, skipFromInput, err := parseInput(raw)
	if err != nil {
		return err
	}

	cat, err := loadCatalogue(cmd.String("catalogue"))
	if err != nil {
		return err
	}

	mapper, err := palette.New(cat)
	if err != nil {
		return &bberr.PaletteFailureError{Reason: err.Error()}
	}

	hc, err := hardcoded.Default()
	if err != nil {
		return fmt.Errorf("loading hardcoded object index: %w", err)
	}

	objectType := cmd.String("object-type")
	if objectType == "" {
		objectType = hints.ObjectType
	}

	oc := buildOracle(cmd, skipFromInput, logger)

	result, err := packer.Pack(ctx, field, mapper, cat, hc, objectType, oc, logger)
	if err != nil {
		return err
	}
	for _, d := range result.Diagnostics {
		logger.Warnf("layer %d colour %d: %s", d.Layer, d.Colour, d.Message)
	}
	if result.Cancelled {
		logger.Warnf("packing run cancelled; manifest reflects completed layers only")
	}

	m := manifest.Build(result, cat, uuid.NewString)
	m.LDrawText = manifest.LDrawText(m, cat)

	out, err := manifest.ToJSON(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(cmd.String("output"), out, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	if path := cmd.String("ldraw"); path != "" {
		if err := os.WriteFile(path, []byte(m.LDrawText), 0o644); err != nil {
			return fmt.Errorf("writing ldraw export: %w", err)
		}
	}
	if path := cmd.String("instructions"); path != "" {
		if err := os.WriteFile(path, []byte(manifest.Instructions(m)), 0o644); err != nil {
			return fmt.Errorf("writing instructions: %w", err)
		}
	}
	if path := cmd.String("shopping-list"); path != "" {
		if err := os.WriteFile(path, []byte(manifest.ShoppingList(m)), 0o644); err != nil {
			return fmt.Errorf("writing shopping list: %w", err)
		}
	}
	if path := cmd.String("csv"); path != "" {
		if err := os.WriteFile(path, []byte(manifest.CSV(m)), 0o644); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}

	logger.Infof("packed %d bricks across %d layers", m.TotalBricks, len(m.Layers))
	return nil
}

func loadCatalogue(path string) (*catalogue.Catalogue, error) {
	if path == "" {
		cat, err := catalogue.Default()
		if err != nil {
			if errors.Is(err, catalogue.ErrNo1x1) {
				return nil, &bberr.CatalogueFailureError{Reason: err.Error()}
			}
			return nil, &bberr.PaletteFailureError{Reason: err.Error()}
		}
		return cat, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &bberr.InvalidInputError{Reason: fmt.Sprintf("cannot read catalogue file: %v", err)}
	}
	cat, err := catalogue.Parse(raw)
	if err != nil {
		if errors.Is(err, catalogue.ErrNo1x1) {
			return nil, &bberr.CatalogueFailureError{Reason: err.Error()}
		}
		return nil, &bberr.InvalidInputError{Reason: fmt.Sprintf("malformed catalogue file: %v", err)}
	}
	return cat, nil
}

func buildOracle(cmd *cli.Command, skipFromInput bool, logger bblog.Logger) oracle.Oracle {
	if cmd.Bool("skip-availability") || skipFromInput {
		return oracle.Local{}
	}
	baseURL := cmd.String("availability-url")
	if baseURL == "" {
		return oracle.Local{}
	}
	return oracle.NewMemo(oracle.NewHTTP(baseURL, logger))
}
