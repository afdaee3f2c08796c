package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"syndial/internal/trace"
)

// setupTracing inspects trace-related flags and attaches a tracer to ctx.
// It returns the new context and a cleanup function.
func setupTracing(ctx context.Context, cmd *cobra.Command) (context.Context, func(), error) {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return ctx, nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace alone means step level
	if level == trace.LevelOff && traceOutput != "" && !flags.Changed("trace-level") {
		level = trace.LevelStep
	}
	if level == trace.LevelOff {
		return trace.WithTracer(ctx, trace.Nop), func() {}, nil
	}

	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return ctx, nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Format:     format,
		OutputPath: traceOutput,
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	cleanup := func() {
		closeTracer(cmd.ErrOrStderr(), tracer)
	}
	return trace.WithTracer(ctx, tracer), cleanup, nil
}

func closeTracer(errOut io.Writer, tracer trace.Tracer) {
	if err := tracer.Flush(); err != nil {
		fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
	}
	if err := tracer.Close(); err != nil {
		fmt.Fprintf(errOut, "trace: close error: %v\n", err)
	}
}
