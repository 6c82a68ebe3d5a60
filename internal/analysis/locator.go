package analysis

import (
	"strings"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/payload"
)

// Strategy is one way of finding the analysis literal inside an envelope.
// Strategies are tried in order and the first non-empty string wins.
type Strategy interface {
	Name() string
	Find(env map[string]any) (string, bool)
}

// PathStrategy reads the string at a fixed path.
type PathStrategy struct {
	Label string
	Path  []string
}

func (s PathStrategy) Name() string { return s.Label }

func (s PathStrategy) Find(env map[string]any) (string, bool) {
	v, ok := payload.Lookup(env, s.Path...)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return "", false
	}
	return str, true
}

// CollectionScanStrategy walks every data collection under the given roots
// in name order and takes the first value that looks like a literal dict.
type CollectionScanStrategy struct {
	Label string
	Roots [][]string
}

func (s CollectionScanStrategy) Name() string { return s.Label }

func (s CollectionScanStrategy) Find(env map[string]any) (string, bool) {
	for _, root := range s.Roots {
		collections, ok := payload.ObjectAt(env, root...)
		if !ok {
			continue
		}
		for _, name := range payload.SortedKeys(collections) {
			str, ok := payload.StringAt(collections, name, "value")
			if ok && strings.HasPrefix(str, "{") {
				return str, true
			}
		}
	}
	return "", false
}

var (
	legacyCollections  = []string{"analysis", "data_collection_results"}
	wrappedCollections = []string{"data", "analysis", "data_collection_results"}
)

func collectionPath(root []string, name string) []string {
	p := make([]string, 0, len(root)+2)
	p = append(p, root...)
	return append(p, name, "value")
}

// DefaultStrategies is the precedence order used by Locate.
var DefaultStrategies = []Strategy{
	PathStrategy{Label: "analysis.default", Path: collectionPath(legacyCollections, "default")},
	PathStrategy{Label: "analysis.basic_cta", Path: collectionPath(legacyCollections, "Basic CTA")},
	PathStrategy{Label: "data.analysis.default", Path: collectionPath(wrappedCollections, "default")},
	PathStrategy{Label: "data.analysis.basic_cta", Path: collectionPath(wrappedCollections, "Basic CTA")},
	CollectionScanStrategy{Label: "collection_scan", Roots: [][]string{legacyCollections, wrappedCollections}},
}

// Located is a found analysis literal and the strategy that found it.
type Located struct {
	Literal  string
	Strategy string
}

// Locate runs strategies in order. With no strategies it uses DefaultStrategies.
func Locate(env map[string]any, strategies ...Strategy) (Located, bool) {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	for _, s := range strategies {
		if lit, ok := s.Find(env); ok {
			return Located{Literal: lit, Strategy: s.Name()}, true
		}
	}
	return Located{}, false
}
