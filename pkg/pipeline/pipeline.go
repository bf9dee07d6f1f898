// Package pipeline provides the layout and render pipeline for chainlens.
//
// This package implements the validate → classify → layout → render flow used
// by both the CLI and the HTTP server. By centralizing this logic, both entry
// points share caching, exploration persistence and logging.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Prepare: validate the graph and fill missing categories from the
//     address classifier
//  2. Layout: compute positions with the layout engine, seeded from previous
//     positions when the graph belongs to an exploration
//  3. Render: generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//
//	// One-shot layout of a graph file
//	l, err := runner.ComputeLayout(ctx, g, nil, pipeline.Options{Seed: 42})
//
//	// Incremental exploration
//	l, exp, err := runner.Explore(ctx, id, &grownGraph, pipeline.Options{})
//	exp, err = runner.Drag(ctx, id, "0xhot", layout.Point{X: 120, Y: 80})
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, l, pipeline.Options{Formats: []string{"svg", "png"}})
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/chainlens/chainlens/pkg/cache"
	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
	"github.com/chainlens/chainlens/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in layout units.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default viewport height in layout units.
	DefaultHeight = layout.DefaultHeight

	// DefaultStyle is the default colour scheme.
	DefaultStyle = graph.StyleLight
)

// DefaultFormats is what Render produces when no format is requested.
var DefaultFormats = []string{string(render.FormatSVG)}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	// Seed pins the engine's random source. Zero draws a fresh seed, which
	// is recorded in the layout but never cached.
	Seed uint64 `json:"seed,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Style      string   `json:"style,omitempty"`
	ShowLabels bool     `json:"show_labels,omitempty"`

	// Exploration options
	ExplorationID string `json:"exploration_id,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if _, err := render.ParseFormats(o.Formats); err != nil {
		return err
	}
	_, err := render.LookupStyle(o.Style)
	return err
}

// Viewport returns the requested drawing area.
func (o *Options) Viewport() layout.Viewport {
	return layout.Viewport{Width: o.Width, Height: o.Height}
}

// SeedPinned reports whether the caller fixed the random seed.
func (o *Options) SeedPinned() bool {
	return o.Seed != 0
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(cfg layout.Config, previous layout.Positions) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:        o.Width,
		Height:       o.Height,
		Seed:         o.Seed,
		Config:       cfg,
		PreviousHash: cache.HashPositions(previous),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Style:      o.Style,
		ShowLabels: o.ShowLabels,
	}
}
