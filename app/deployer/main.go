// Command deployer deploys and exercises the RWAT contracts.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/rwat-deployer/base/config"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
)

const (
	exitOk  = 0
	exitErr = 1
)

// errUsage marks bad command lines, they print the command usage before
// exiting with exitErr.
var errUsage = errors.New("usage")

func usageErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

type action func(ctx bCtx.Ctx, a *app, args []string) error

type command struct {
	usage string
	// setup registers the command's own flags
	setup func(fs *pflag.FlagSet) action
}

var commands = map[string]command{
	"run":      {"run <multicall|rwat> [--args a,b,c]", runCmd},
	"deploy":   {"deploy --contract X [--args a,b] [--initializer initialize] [--kind uups|transparent|none]", deployCmd},
	"upgrade":  {"upgrade --proxy 0x... --contract X", upgradeCmd},
	"verify":   {"verify [--contract X] [--address 0x...]", verifyCmd},
	"smoke":    {"smoke [--scenario name]... [--deployments dir]", smokeCmd},
	"networks": {"networks", networksCmd},
}

type globals struct {
	config  string
	network string
	timeout time.Duration
}

func addGlobals(fs *pflag.FlagSet) *globals {
	g := &globals{}
	fs.StringVar(&g.config, "config", config.DefaultPath, "config file")
	fs.StringVar(&g.network, "network", "", "network name, defaultNetwork when empty")
	fs.DurationVar(&g.timeout, "timeout", 0, "abort the command after this long, 0 for no limit")
	return g
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "usage: deployer <command> [--config path] [--network name] [--timeout d] [flags]")
	for _, name := range names {
		fmt.Fprintf(w, "  deployer %s\n", commands[name].usage)
	}
}

func main() {
	code := run(os.Args[1:], os.Stdout)
	log.Sync()
	os.Exit(code)
}

func run(args []string, out io.Writer) int {
	if len(args) == 0 {
		printUsage(out)
		return exitErr
	}
	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(out, "unknown command %q\n", name)
		printUsage(out)
		return exitErr
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	g := addGlobals(fs)
	act := cmd.setup(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOk
		}
		fmt.Fprintf(out, "usage: deployer %s\n", cmd.usage)
		return exitErr
	}

	if err := config.Load(g.config); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "path": g.config}).Error("config.Load failed")
		return exitErr
	}

	ctx, stop := bCtx.WithSignals(bCtx.Background())
	defer stop()
	if g.timeout > 0 {
		var cancel func()
		ctx, cancel = bCtx.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	ctx = bCtx.WithValue(ctx, "command", name)

	a := newApp(config.New(viper.GetViper()), g.network, out)
	// ctx may already be cancelled at this point
	defer a.Close(bCtx.Background())

	if err := act(ctx, a, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(out, err)
			fmt.Fprintf(out, "usage: deployer %s\n", cmd.usage)
			return exitErr
		}
		ctx.WithField("err", err).Error("command failed")
		return exitErr
	}
	return exitOk
}
