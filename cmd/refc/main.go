// refc inspects canonical type and method references: it parses,
// re-encodes and hashes them, checks reference manifests, packs catalogs
// into metadata blobs and indexes them into SQLite.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("refc")

// options are the flags shared by every subcommand.
type options struct {
	verbose  int
	logFile  string
	method   bool
	manifest string
	output   string
	db       string
	compress string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage(stdout, nil)
		return errors.New("no command given")
	}
	command, rest := args[0], args[1:]

	var opts options
	flags := pflag.NewFlagSet("refc "+command, pflag.ContinueOnError)
	flags.SetOutput(stdout)
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.StringVar(&opts.logFile, "log", "", "write logs to this file instead of stderr")
	flags.BoolVarP(&opts.method, "method", "m", false, "treat arguments as method references")
	flags.StringVarP(&opts.manifest, "manifest", "f", "", "reference manifest (default: nearest refs.toml)")
	flags.StringVarP(&opts.output, "output", "o", "refs.bin", "output path for pack")
	flags.StringVar(&opts.db, "db", "refs.db", "SQLite index path")
	flags.StringVar(&opts.compress, "compress", "", "compression for pack: none, lz4, zstd (default: manifest setting)")

	if command == "help" || command == "-h" || command == "--help" {
		printUsage(stdout, flags)
		return nil
	}
	if err := flags.Parse(rest); err != nil {
		return err
	}

	var logPath *string
	if opts.logFile != "" {
		logPath = &opts.logFile
	}
	commonlog.Configure(opts.verbose, logPath)

	switch command {
	case "parse":
		return cmdParse(flags.Args(), opts, stdout)
	case "encode":
		return cmdEncode(flags.Args(), opts, stdout)
	case "hash":
		return cmdHash(flags.Args(), opts, stdout)
	case "check":
		return cmdCheck(opts, stdout)
	case "pack":
		return cmdPack(opts, stdout)
	case "unpack":
		return cmdUnpack(flags.Args(), stdout)
	case "index":
		return cmdIndex(opts, stdout)
	case "lookup":
		return cmdLookup(flags.Args(), opts, stdout)
	default:
		printUsage(stdout, nil)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: refc <command> [options] [args...]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  parse <ref>...      Show the structure of each reference\n")
	fmt.Fprintf(w, "  encode <ref>...     Parse and print the canonical encoding\n")
	fmt.Fprintf(w, "  hash <ref>...       Print the structural hash and digest\n")
	fmt.Fprintf(w, "  check               Validate a manifest and build its catalog\n")
	fmt.Fprintf(w, "  pack                Write the manifest's catalog as a metadata blob\n")
	fmt.Fprintf(w, "  unpack <blob>       List the references in a metadata blob\n")
	fmt.Fprintf(w, "  index               Store the manifest's catalog in SQLite\n")
	fmt.Fprintf(w, "  lookup <ref>...     Look references up in the SQLite index\n")
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  refc parse '[!]Map[K:[!]Str|V:[!]Int]'\n")
	fmt.Fprintf(w, "  refc hash -m '.sctor()'\n")
	fmt.Fprintf(w, "  refc pack -f refs.toml -o core.bin --compress zstd\n")
	if flags != nil {
		fmt.Fprintf(w, "\nOptions:\n")
		fmt.Fprint(w, flags.FlagUsages())
	}
}
