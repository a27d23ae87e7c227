package testutil

import (
	"github.com/skosovsky/toolfix"
)

// NewTestCatalog returns a Catalog holding defs, or the fixture Definitions when defs is empty.
// Generated call IDs are deterministic ("test-call1", "test-call2", ...).
// It panics on an invalid definition, since fixtures are expected to be valid.
func NewTestCatalog(defs ...toolfix.Definition) *toolfix.Catalog {
	if len(defs) == 0 {
		defs = Definitions()
	}
	c := toolfix.NewCatalog(toolfix.WithIDGenerator(SequentialIDs("test-call")))
	for _, d := range defs {
		if err := c.Register(d); err != nil {
			panic(err)
		}
	}
	return c
}
