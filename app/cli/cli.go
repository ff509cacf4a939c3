package cli

import (
	"github.com/alecthomas/kong"

	actx "go.hackfix.me/confmap/app/context"
)

// DefaultConfigFile is the configuration file read when --file isn't given.
const DefaultConfigFile = "/etc/udisks2/udisks2-control.conf"

// CLI is the command line interface of confmap.
type CLI struct {
	Run    Run    `kong:"cmd,default='1',help='Run the store demo, then load and print the configuration file.'"`
	Demo   Demo   `kong:"cmd,help='Exercise store operations on a set of literal entries.'"`
	Load   Load   `kong:"cmd,help='Load the configuration file and print its entries.'"`
	Get    Get    `kong:"cmd,help='Print the value of a configuration key.'"`
	Ls     Ls     `kong:"cmd,help='List configuration entries.'"`
	Export Export `kong:"cmd,help='Write the configuration entries as YAML or JSON.'"`

	Backend  string           `enum:"memory,badger,sqlite" default:"memory" help:"Store backend to use: ${enum}."`
	LogLevel string           `enum:"debug,info,warn,error" default:"info" help:"Log level: ${enum}."`
	Version  kong.VersionFlag `help:"Output version and exit."`
}

// Setup the command-line interface and parse args.
func (c *CLI) Setup(appCtx *actx.Context, args []string, exitFn func(int)) (*kong.Context, error) {
	opts := []kong.Option{
		kong.Name("confmap"),
		kong.UsageOnError(),
		kong.DefaultEnvars("CONFMAP"),
		kong.Exit(exitFn),
		kong.Writers(appCtx.Stdout, appCtx.Stderr),
		kong.Vars{
			"version":     appCtx.Version,
			"config_file": DefaultConfigFile,
		},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	}
	if appCtx.Env != nil {
		opts = append(opts, kong.Resolvers(envResolver(appCtx.Env)))
	}

	parser, err := kong.New(c, opts...)
	if err != nil {
		return nil, err
	}

	return parser.Parse(args)
}

// envResolver resolves flag values from the application environment, so that
// environment variables don't have to come from the OS.
func envResolver(env actx.Environment) kong.Resolver {
	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (interface{}, error) {
		for _, name := range flag.Envs {
			if val := env.Get(name); val != "" {
				return val, nil
			}
		}
		return nil, nil
	})
}
