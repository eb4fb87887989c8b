package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// Range reports the catalog extremes for one attribute, in the attribute's
// original display form (for example "$199" or "800L").
type Range struct {
	Min string
	Max string
}

// Stats summarizes the catalog contents.
type Stats struct {
	TotalProducts int
	Categories    []string
	PriceRange    Range
	CapacityRange Range
}

// Stats computes summary statistics over the stored catalog. Categories are
// reported sorted; price and capacity ranges are taken from the records'
// attributes and empty when no record carries them.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalProducts: len(records)}

	seen := make(map[string]bool)
	var (
		minPrice, maxPrice      int
		minPriceS, maxPriceS    string
		minCap, maxCap          int
		minCapS, maxCapS        string
		havePrice, haveCapacity bool
	)
	for i := range records {
		attrs := records[i].Attributes
		if category := attrs["category"]; category != "" && !seen[category] {
			seen[category] = true
			stats.Categories = append(stats.Categories, category)
		}
		if price, ok := parsePrice(attrs["price"]); ok {
			if !havePrice || price < minPrice {
				minPrice, minPriceS = price, attrs["price"]
			}
			if !havePrice || price > maxPrice {
				maxPrice, maxPriceS = price, attrs["price"]
			}
			havePrice = true
		}
		if liters, ok := parseCapacity(attrs["capacity"]); ok {
			if !haveCapacity || liters < minCap {
				minCap, minCapS = liters, attrs["capacity"]
			}
			if !haveCapacity || liters > maxCap {
				maxCap, maxCapS = liters, attrs["capacity"]
			}
			haveCapacity = true
		}
	}
	sort.Strings(stats.Categories)
	stats.PriceRange = Range{Min: minPriceS, Max: maxPriceS}
	stats.CapacityRange = Range{Min: minCapS, Max: maxCapS}
	return stats, nil
}

// parsePrice reads a display price such as "$1,299" as an integer amount.
func parsePrice(s string) (int, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseCapacity reads the leading liter figure from a display capacity such
// as "450L (320L fridge + 130L freezer)".
func parseCapacity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
