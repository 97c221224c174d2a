// mfmt reformats Meson build definition files.
//
// With no arguments it reads from stdin and writes the result to stdout.
// With file arguments it prints each reformatted file, or rewrites the
// files in place with -w. The -i flag starts an interactive session that
// formats each entered statement.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	meson "github.com/JCWasmx86/meson"
)

const historyFile = ".mfmt_history"

type options struct {
	configPath  string
	write       bool
	legacy      bool
	interactive bool
}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var opts options
	root := &cobra.Command{
		Use:           "mfmt [files...]",
		Short:         "Reformat Meson build definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(afero.NewOsFs(), log, opts, args)
		},
	}
	root.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML style configuration file")
	root.Flags().BoolVarP(&opts.write, "write", "w", false, "rewrite files in place instead of printing")
	root.Flags().BoolVar(&opts.legacy, "legacy", false, "use the fixed legacy style, ignoring any configuration")
	root.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "format statements interactively")

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(fs afero.Fs, log *logrus.Logger, opts options, args []string) error {
	style := meson.DefaultStyle()
	if opts.configPath != "" {
		data, err := afero.ReadFile(fs, opts.configPath)
		if err != nil {
			return fmt.Errorf("reading style configuration: %w", err)
		}
		style, err = meson.ParseStyle(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", opts.configPath, err)
		}
	}
	warn := &meson.LogSink{Logger: log}
	format := func(code, filename string) (string, error) {
		if opts.legacy {
			return meson.FormatSource(code, filename, warn)
		}
		return meson.FormatSourceStyled(code, filename, style, warn)
	}

	if opts.interactive {
		return repl(format)
	}
	if len(args) == 0 {
		code, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		out, err := format(string(code), "<stdin>")
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
	for _, path := range args {
		code, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		out, err := format(string(code), path)
		if err != nil {
			return err
		}
		if opts.write {
			info, err := fs.Stat(path)
			if err != nil {
				return err
			}
			if err := afero.WriteFile(fs, path, []byte(out), info.Mode()); err != nil {
				return err
			}
			continue
		}
		if len(args) > 1 {
			fmt.Printf("# %s\n", path)
		}
		fmt.Print(out)
	}
	return nil
}

func repl(format func(code, filename string) (string, error)) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		input, err := line.Prompt("mfmt> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		out, err := format(input+"\n", "<repl>")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Print(out)
	}
}
