package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/engine"
	"github.com/Domenick1991/offercheck/internal/validation"
)

// exitInvalid is returned when a payload is Invalid.
const exitInvalid = 2

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		logrus.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "rule",
			Usage: "rule id to apply, repeatable; defaults to the standard rule set",
		},
		&cli.IntFlag{
			Name:  "tolerance",
			Value: validation.DefaultSettings().PriceTolerance,
			Usage: "allowed price difference in minor units",
		},
	}

	return &cli.App{
		Name:           "offercheck",
		Usage:          "Validate and normalize flight offer search responses",
		Writer:         out,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				ArgsUsage: "<file|->",
				Usage:     "print the validation report",
				Flags:     flags,
				Action: func(c *cli.Context) error {
					result, err := run(c)
					if err != nil {
						return err
					}
					enc := json.NewEncoder(c.App.Writer)
					enc.SetIndent("", "  ")
					if err := enc.Encode(result.Report); err != nil {
						return err
					}
					if result.Report.Status == domain.StatusInvalid {
						return cli.Exit("", exitInvalid)
					}
					return nil
				},
			},
			{
				Name:      "normalize",
				ArgsUsage: "<file|->",
				Usage:     "print the canonical form",
				Flags:     flags,
				Action: func(c *cli.Context) error {
					result, err := run(c)
					if err != nil {
						return err
					}
					if result.Report.Status == domain.StatusInvalid {
						enc := json.NewEncoder(c.App.ErrWriter)
						enc.SetIndent("", "  ")
						_ = enc.Encode(result.Report)
						return cli.Exit("", exitInvalid)
					}
					_, err = fmt.Fprintln(c.App.Writer, string(result.Canonical))
					return err
				},
			},
			{
				Name:  "rules",
				Usage: "list the available rule ids",
				Action: func(c *cli.Context) error {
					for _, id := range validation.KnownRuleIDs() {
						fmt.Fprintln(c.App.Writer, id)
					}
					return nil
				},
			},
		},
	}
}

func run(c *cli.Context) (*engine.Result, error) {
	raw, err := readInput(c)
	if err != nil {
		return nil, err
	}
	rules, err := validation.RulesByID(c.StringSlice("rule"), validation.Settings{PriceTolerance: c.Int("tolerance")})
	if err != nil {
		return nil, err
	}
	return engine.New(validation.NewValidator(rules...)).Run(raw)
}

func readInput(c *cli.Context) ([]byte, error) {
	name := c.Args().First()
	switch name {
	case "":
		return nil, errors.New("input file is required, use - for stdin")
	case "-":
		return io.ReadAll(c.App.Reader)
	default:
		return os.ReadFile(name)
	}
}
