// Command analytical renders analytics tracking snippets from a YAML
// provider configuration.
package main

import (
	"flag"
	"fmt"
	"os"
)

const usage = `Usage: analytical <command> [flags]

Commands:
  render     Print the snippets for every insertion point
  splice     Insert the snippets into an HTML document
  diff       Show how a second configuration changes a spliced document
  preview    Render a formatted report of all snippets
  providers  List the configured providers
  kinds      List the registered provider kinds
  init       Create a configuration file interactively

Run "analytical <command> -h" for command flags.
`

// commonFlags are shared by every command that loads a configuration.
type commonFlags struct {
	config  *string
	env     *string
	verbose *bool
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		config:  fs.String("config", "", "path to configuration file (default: analytical.yaml)"),
		env:     fs.String("env", ".env", "path to .env file (ignored if missing)"),
		verbose: fs.Bool("verbose", false, "log engine activity to stderr"),
	}
}

func newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: analytical %s [flags]\n\n%s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}

	return fs
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := dispatch(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func dispatch(cmd string, args []string) error {
	switch cmd {
	case "render":
		fs := newFlagSet("render", "Print the snippets for every insertion point.")
		cf := addCommonFlags(fs)
		loc := fs.String("location", "", "render only this insertion point")
		page := fs.String("page", "", "queue a page view with this page name")
		client := fs.Bool("client", false, "include the client-side Analytical object")
		_ = fs.Parse(args)

		eng, err := setup(cf)
		if err != nil {
			return err
		}

		return runRender(os.Stdout, eng, renderOptions{Location: *loc, Page: *page, Client: *client})
	case "splice":
		fs := newFlagSet("splice", "Insert the snippets into an HTML document.")
		cf := addCommonFlags(fs)
		in := fs.String("in", "", "HTML input file (default: stdin)")
		out := fs.String("out", "", "output file (default: stdout)")
		page := fs.String("page", "", "queue a page view with this page name")
		_ = fs.Parse(args)

		eng, err := setup(cf)
		if err != nil {
			return err
		}

		return runSplice(eng, *in, *out, *page)
	case "diff":
		fs := newFlagSet("diff", "Show how a second configuration changes a spliced document.")
		cf := addCommonFlags(fs)
		other := fs.String("against", "", "configuration to compare with (required)")
		in := fs.String("in", "", "HTML input file (default: built-in blank page)")
		color := fs.Bool("color", false, "colorize the diff")
		_ = fs.Parse(args)

		eng, err := setup(cf)
		if err != nil {
			return err
		}

		return runDiff(os.Stdout, eng, resolveConfigPath(*cf.config), *other, *in, *color)
	case "preview":
		fs := newFlagSet("preview", "Render a formatted report of all snippets.")
		cf := addCommonFlags(fs)
		plain := fs.Bool("plain", false, "disable colors")
		width := fs.Int("width", 100, "word wrap width")
		_ = fs.Parse(args)

		eng, err := setup(cf)
		if err != nil {
			return err
		}

		return runPreview(os.Stdout, eng, *width, *plain)
	case "providers":
		fs := newFlagSet("providers", "List the configured providers.")
		cf := addCommonFlags(fs)
		_ = fs.Parse(args)

		eng, err := setup(cf)
		if err != nil {
			return err
		}

		return runProviders(os.Stdout, eng)
	case "kinds":
		fs := newFlagSet("kinds", "List the registered provider kinds.")
		_ = fs.Parse(args)

		return runKinds(os.Stdout)
	case "init":
		fs := newFlagSet("init", "Create a configuration file interactively.")
		path := fs.String("config", defaultConfigPath, "path of the configuration file to write")
		force := fs.Bool("force", false, "overwrite an existing file")
		_ = fs.Parse(args)

		return runInit(*path, *force)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
