// Command validate provides a small CLI that validates deal preset JSON
// files in the ../configs directory (or the directory given as argument).
// It checks:
//   - JSON structure, unknown fields and required fields
//   - Seed range and difficulty label
//   - That the file name is usable as a preset id
//   - Deal integrity: the seed deals all 52 cards, 7/7/7/7/6/6/6/6
//   - That no two presets share a seed
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wricardo/freecellar/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Seed   int64
}

var presetIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// validateConfig loads and validates a single deal preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	fail := func(format string, args ...interface{}) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		fail("Failed to read file: %v", err)
		return result
	}

	var deal engine.DealConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&deal); err != nil {
		fail("Invalid JSON: %v", err)
		return result
	}
	result.Seed = deal.Seed

	if id := strings.TrimSuffix(result.File, ".json"); !presetIDPattern.MatchString(id) {
		fail("File name %q is not a usable preset id (use a-z, 0-9, - and _)", id)
	}

	if err := engine.ValidateDealConfig(&deal); err != nil {
		fail("%v", err)
		return result
	}

	integrity := validateDeal(deal.Seed)
	if !integrity.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, integrity.Errors...)

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", deal.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Deal: #%d", deal.Seed))
		if deal.Difficulty != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Difficulty: %s", deal.Difficulty))
		}
	}

	return result
}

// validateDeal checks that seed deals a complete, correctly shaped table
func validateDeal(seed int64) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
		Seed:   seed,
	}

	state := engine.Initial(seed)

	seen := make(map[engine.Card]bool)
	for _, c := range state.Cards() {
		if seen[c] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate card %s", c))
		}
		seen[c] = true
	}
	if len(seen) != engine.DeckSize {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Deal holds %d distinct cards, want %d", len(seen), engine.DeckSize))
	}

	for i, p := range state.Cascades() {
		want := engine.DeckSize / engine.NumCascades
		if i < engine.DeckSize%engine.NumCascades {
			want++
		}
		if p.Height() != want {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Cascade %d holds %d cards, want %d", i, p.Height(), want))
		}
	}

	exposed := 0
	for _, p := range state.Cascades() {
		if top, ok := p.Top(); ok && top.Rank == engine.Ace {
			exposed++
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Cards: %d dealt into %d cascades", len(seen), engine.NumCascades))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Aces on top: %d", exposed))
	}

	return result
}

// validateUniqueSeeds flags presets that deal the same game under another name
func validateUniqueSeeds(results []ValidationResult) []string {
	owner := make(map[int64]string)
	var problems []string
	for _, r := range results {
		if !r.Valid {
			continue
		}
		if first, ok := owner[r.Seed]; ok {
			problems = append(problems, fmt.Sprintf("%s and %s both deal #%d", first, r.File, r.Seed))
			continue
		}
		owner[r.Seed] = r.File
	}
	return problems
}

// main scans the preset directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	var results []ValidationResult
	for _, file := range files {
		result := validateConfig(file)
		results = append(results, result)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	for _, problem := range validateUniqueSeeds(results) {
		allValid = false
		fmt.Println("❌ " + problem)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All presets are valid!")
	} else {
		fmt.Println("❌ Some presets have errors")
		os.Exit(1)
	}
}
