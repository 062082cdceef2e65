package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/arturoeanton/xmledit/internal/xlog"
)

func newLogger(cfg *xlog.Config) (*slog.Logger, error) {
	handler, err := cfg.NewHandler(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}
	return slog.New(handler), nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, write bool, data []byte) error {
	if !write || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
