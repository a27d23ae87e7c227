package toolfix

import (
	"log/slog"
)

// repairOptions hold Repairer settings.
type repairOptions struct {
	logger          *slog.Logger
	newID           IDGenerator
	maxNameDistance int
	families        []ProviderFamily
	onRepair        func(Call, Repaired)
}

func defaultRepairOptions() repairOptions {
	return repairOptions{
		newID:           NewCallID,
		maxNameDistance: DefaultMaxNameDistance,
		families:        DefaultProviderFamilies(),
	}
}

// Option configures a Repairer (and the Repairer owned by a Catalog).
type Option func(*repairOptions)

// WithLogger sets the logger used for per-call debug output. By default slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *repairOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIDGenerator replaces the source of generated tool call IDs. IDs that do not start with an
// ASCII letter or digit get a "call" prefix.
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *repairOptions) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithMaxNameDistance sets the largest edit distance accepted when fuzzy-matching tool names.
// Pass 0 to allow only exact and case-insensitive matches.
func WithMaxNameDistance(n int) Option {
	return func(o *repairOptions) {
		o.maxNameDistance = n
	}
}

// WithProviderFamily adds a provider family. Families added later are matched after the built-in
// ones, so an alias already covered by a built-in family keeps its built-in behavior.
func WithProviderFamily(f ProviderFamily) Option {
	return func(o *repairOptions) {
		o.families = append(o.families, f)
	}
}

// WithOnRepair sets a hook called after every repair, including calls that needed no change.
func WithOnRepair(fn func(Call, Repaired)) Option {
	return func(o *repairOptions) {
		o.onRepair = fn
	}
}
