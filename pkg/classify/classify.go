// Package classify infers categories for addresses the investigator has not
// labelled yet.
//
// A [Classifier] holds a table of well-known addresses: exchange hot wallets,
// bridge contracts, mixers and large DeFi routers. [Classifier.Apply] fills the
// category of every uncategorised node found in the table, which in turn drives
// colouring in the renderers. Entries never override a category the graph
// already carries, and the main category is never assigned.
//
// EVM addresses (0x-prefixed hex) match case-insensitively. Other address
// formats, such as Solana base58, are case-sensitive and match exactly.
package classify

import (
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
)

// Entry is one known address.
type Entry struct {
	Address  string          `toml:"address" json:"address"`
	Category layout.Category `toml:"category" json:"category"`
	Name     string          `toml:"name" json:"name,omitempty"`
}

// Classifier looks up known addresses. It is safe for concurrent use.
type Classifier struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New returns a classifier holding entries. Invalid entries are skipped; use
// [Classifier.Add] to see why an entry is rejected.
func New(entries ...Entry) *Classifier {
	c := &Classifier{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		_ = c.Add(e)
	}
	return c
}

// Default returns a classifier seeded with the built-in table.
func Default() *Classifier {
	return New(builtin...)
}

// Add inserts or replaces an entry.
func (c *Classifier) Add(e Entry) error {
	if e.Address == "" {
		return errors.New(errors.ErrCodeInvalidInput, "classifier entry has no address")
	}
	if e.Category == layout.CategoryNone || !e.Category.Valid() {
		return errors.New(errors.ErrCodeInvalidCategory, "address %s: unknown category %q", e.Address, e.Category)
	}
	if e.Category == layout.CategoryMain {
		return errors.New(errors.ErrCodeInvalidCategory, "address %s: main is chosen per investigation, not by table", e.Address)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[normalize(e.Address)] = e
	return nil
}

// Lookup returns the entry for address.
func (c *Classifier) Lookup(address string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[normalize(address)]
	return e, ok
}

// Len returns the number of known addresses.
func (c *Classifier) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Apply returns a copy of g in which every node without a category that
// matches a known address takes the entry's category, and its name as label
// when the node has none. It reports how many nodes were classified.
func (c *Classifier) Apply(g graph.Graph) (graph.Graph, int) {
	out := g.Clone()
	n := 0
	for i := range out.Nodes {
		node := &out.Nodes[i]
		if node.Category != layout.CategoryNone {
			continue
		}
		e, ok := c.Lookup(node.ID)
		if !ok {
			continue
		}
		node.Category = e.Category
		if node.Label == "" {
			node.Label = e.Name
		}
		n++
	}
	return out, n
}

// tableFile is the TOML layout read by LoadFile:
//
//	[[address]]
//	address = "0x28c6c06298d514db089934071355e5743bf21d60"
//	category = "cex"
//	name = "Binance 14"
type tableFile struct {
	Address []Entry `toml:"address"`
}

// LoadFile adds every entry of a TOML table file. The first invalid entry
// aborts the load; entries before it remain added.
func (c *Classifier) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "classifier table %s", path)
	}
	if err != nil {
		return 0, err
	}

	var table tableFile
	if err := toml.Unmarshal(data, &table); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	for i, e := range table.Address {
		if err := c.Add(e); err != nil {
			return i, errors.Wrap(errors.GetCode(err), err, "%s: entry %d", path, i+1)
		}
	}
	return len(table.Address), nil
}

func normalize(address string) string {
	if len(address) > 2 && (address[:2] == "0x" || address[:2] == "0X") {
		return strings.ToLower(address)
	}
	return address
}
