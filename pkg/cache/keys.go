package cache

import "github.com/chainlens/chainlens/pkg/layout"

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of the graph with content hash graphHash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered output of the layout with hash layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout inputs besides the graph itself.
type LayoutKeyOpts struct {
	Width        float64       `json:"width"`
	Height       float64       `json:"height"`
	Seed         uint64        `json:"seed"`
	Config       layout.Config `json:"config"`
	PreviousHash string        `json:"previous_hash,omitempty"`
}

// ArtifactKeyOpts are the render inputs besides the layout.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Style      string `json:"style"`
	ShowLabels bool   `json:"show_labels"`
}

// DefaultKeyer produces unprefixed keys of the form kind:sha256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
