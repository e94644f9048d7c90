package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionFiltering(t *testing.T) {
	EnableSections("inhabit", "decl")
	t.Cleanup(func() { EnableSections("inhabit", "inference") })

	out := &bytes.Buffer{}
	logger := slog.New(&filteringHandler{
		underlying: slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})

	testCases := []struct {
		name    string
		log     func()
		written bool
	}{
		{"enabled section", func() { logger.With("section", "inhabit").Debug("kept") }, true},
		{"section prefix", func() { logger.With("section", "decl/parse").Info("kept") }, true},
		{"disabled section", func() { logger.With("section", "types").Debug("dropped") }, false},
		{"section as a record attribute", func() { logger.Debug("kept", "section", "decl") }, true},
		{"no section", func() { logger.Info("dropped") }, false},
		{"warnings always pass", func() { logger.With("section", "types").Warn("kept") }, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out.Reset()
			tc.log()
			if tc.written {
				assert.Contains(t, out.String(), "kept")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(slog.LevelError) })

	SetLevel(slog.LevelDebug)
	assert.True(t, Section("inhabit").Enabled(context.Background(), slog.LevelDebug))
	SetLevel(slog.LevelError)
	assert.False(t, Section("inhabit").Enabled(context.Background(), slog.LevelWarn))
}
