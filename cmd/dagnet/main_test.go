package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/dagnet/nn"
)

func testModel(t *testing.T) string {
	t.Helper()
	b := nn.NewBuilder(1)
	b.Input("x", 2)
	b.Dense("h", 3, nn.Tanh{}, "x")
	b.Concat("c", "h", "x")
	b.Dense("y", 1, nn.Linear{}, "c")
	net, err := b.Build("y")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "model.dag")
	if err := nn.Save(net, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunInspect(t *testing.T) {
	path := testModel(t)
	var out bytes.Buffer
	if err := run([]string{"inspect", path}, &out, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatal(err)
	}

	text := out.String()
	for _, want := range []string{"DENSE", "CONCAT", "TANH", "h, x", "outputs: y", "parameters: 15"} {
		if !strings.Contains(text, want) {
			t.Errorf("inspect output missing %q:\n%s", want, text)
		}
	}
}

func TestRunConvert(t *testing.T) {
	path := testModel(t)
	txt := filepath.Join(t.TempDir(), "model.txt")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	if err := run([]string{"convert", path, txt}, &bytes.Buffer{}, logger); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "model converted") {
		t.Errorf("missing log record: %s", logs.String())
	}

	a, err := nn.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := nn.Load(txt)
	if err != nil {
		t.Fatal(err)
	}
	pa, _ := a.Predict([]float64{0.3, -0.7})
	pb, _ := b.Predict([]float64{0.3, -0.7})
	if pa[0][0] != pb[0][0] {
		t.Errorf("converted model predicts %g, original %g", pb[0][0], pa[0][0])
	}
}

func TestRunErrors(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	for _, args := range [][]string{
		{"inspect"},
		{"convert", "a"},
		{"bogus"},
		{"inspect", filepath.Join(t.TempDir(), "missing.dag")},
	} {
		if err := run(args, &bytes.Buffer{}, logger); err == nil {
			t.Errorf("run(%v) succeeded", args)
		}
	}

	var out bytes.Buffer
	if err := run([]string{"version"}, &out, logger); err != nil || !strings.HasPrefix(out.String(), "dagnet ") {
		t.Errorf("version: %q, %v", out.String(), err)
	}
}
