// Command eqtool runs the parametric equalizer offline or live.
//
// Usage:
//
//	eqtool render in.wav -o out.wav --peak-freq 1000 --peak-gain 6
//	eqtool render --source sweep --duration 5 -o sweep.wav --spectrum sweep.csv
//	eqtool response --preset vocal.json --points 32 --plot
//	eqtool params
//	eqtool windows --size 4096
//	eqtool play in.wav --meter --mqtt-broker localhost
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-eq/internal/cli"
)

var version = "0.1.0"

// CLI defines the command-line interface
type CLI struct {
	Version versionFlag `short:"v" help:"Show version information"`

	Render   RenderCmd   `cmd:"" help:"Filter a WAV file or a generated signal into a WAV file"`
	Response ResponseCmd `cmd:"" help:"Print the magnitude response of the filter chain"`
	Params   ParamsCmd   `cmd:"" help:"List the equalizer parameters"`
	Windows  WindowsCmd  `cmd:"" help:"List the analysis window types"`
	Play     PlayCmd     `cmd:"" help:"Play a WAV file through the equalizer"`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("eqtool"),
		kong.Description("Three-band parametric equalizer with spectrum analysis"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter("eqtool", "Three-band parametric equalizer with spectrum analysis")),
	)

	if err := ctx.Run(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

type versionFlag bool

// BeforeApply prints the version before kong validates the command line.
func (versionFlag) BeforeApply(app *kong.Kong) error {
	cli.PrintVersion(version)
	app.Exit(0)
	return nil
}
