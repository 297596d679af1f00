package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/droidbuild/cmd/droidbuild/commands"
	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// exitRequest unwinds out of kong when --help or --version asks to exit.
type exitRequest struct{ code int }

// run parses args, executes the selected command and returns the exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	cli := &commands.CLI{}
	g := commands.NewGlobal(ctx, stdin, stdout, stderr)

	parser, err := kong.New(cli,
		kong.Name("droidbuild"),
		kong.Description("Locate the Android SDK and JDK, compile Java sources and convert them to dex."),
		kong.Vars{"version": version.String()},
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitRequest{c}) }),
		kong.Bind(g),
	)
	if err != nil {
		_, _ = io.WriteString(stderr, "internal error: "+err.Error()+"\n")
		return 10
	}

	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			code = req.code
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		if dberrors.IsClassified(err) {
			return report(cli, err, stderr)
		}
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) && parseErr.Context != nil {
			_ = parseErr.Context.PrintUsage(true)
		}
		return report(cli, dberrors.ValidationError("invalid command line").WithCause(err).Build(), stderr)
	}

	err = kctx.Run(g, cli)
	cli.FlushMetrics(g)
	return report(cli, err, stderr)
}

func report(cli *commands.CLI, err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		slog.Info("Interrupted")
		return 130
	}
	return dberrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).WithOutput(stderr).Report(err)
}
