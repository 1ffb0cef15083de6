// Package main provides the dagnet CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/nn"
)

const version = "v0.3.0"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, logger *slog.Logger) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "dagnet %s\n", version)
		return nil
	case "inspect":
		if len(args) != 2 {
			return errors.New("usage: dagnet inspect <model>")
		}
		return inspect(args[1], stdout)
	case "convert":
		if len(args) != 3 {
			return errors.New("usage: dagnet convert <in> <out>")
		}
		return convert(args[1], args[2], logger)
	default:
		usage(stdout)
		return errors.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "dagnet - computational graphs for feed-forward networks")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version                Show version")
	fmt.Fprintln(w, "  inspect <model>        Print layers, shapes and parameter counts")
	fmt.Fprintln(w, "  convert <in> <out>     Rewrite a model; .txt output selects the text format")
}

func inspect(path string, w io.Writer) error {
	net, err := nn.Load(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%-16s %-8s %6s %-12s %10s  %s\n", "LAYER", "KIND", "SIZE", "ACTIVATION", "PARAMS", "FROM")
	for _, l := range net.Order() {
		activation := "-"
		if d, ok := l.(*nn.Dense); ok {
			activation = d.Activation().Name()
		}
		params := 0
		for _, p := range l.Parameters() {
			params += p.Value().Len()
		}
		from := strings.Join(net.Predecessors(l.Name()), ", ")
		fmt.Fprintf(w, "%-16s %-8s %6d %-12s %10d  %s\n", l.Name(), l.Kind(), l.Size(), activation, params, from)
	}

	outputs := make([]string, 0, len(net.Outputs()))
	for _, o := range net.Outputs() {
		outputs = append(outputs, o.Name())
	}
	fmt.Fprintf(w, "\noutputs: %s\n", strings.Join(outputs, ", "))
	fmt.Fprintf(w, "parameters: %d\n", net.NumParameters())
	return nil
}

func convert(in, out string, logger *slog.Logger) error {
	net, err := nn.Load(in)
	if err != nil {
		return err
	}

	format := nn.FormatBinary
	save := nn.Save
	if strings.EqualFold(filepath.Ext(out), ".txt") {
		format = nn.FormatText
		save = nn.SaveText
	}
	if err := save(net, out); err != nil {
		return err
	}
	logger.Info("model converted", "in", in, "out", out, "text", format == nn.FormatText, "parameters", net.NumParameters())
	return nil
}
