package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/worldsim/pkg/worldschema"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <world.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	if err := validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("World file is valid!")
}

// validateFile loads a world document with worldschema.Load, which
// runs worldstate.Validate and returns every aggregated
// invariant violation on failure. It additionally enforces the
// filename and id naming convention this project's world files follow.
func validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("world file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidWorldFilename(nameWithoutExt) {
		return fmt.Errorf("world filename '%s' must be lowercase snake_case (e.g., haunted_cabin.json, not haunted-cabin.json or HauntedCabin.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	gs, err := worldschema.Load(data, logger)
	if err != nil {
		return fmt.Errorf("file %s failed validation: %w", filename, err)
	}

	var idErrors []string
	for id := range gs.Locations {
		if err := checkIDFormat("location ID", string(id)); err != "" {
			idErrors = append(idErrors, err)
		}
	}
	for id := range gs.Items {
		if err := checkIDFormat("item ID", string(id)); err != "" {
			idErrors = append(idErrors, err)
		}
	}
	for id := range gs.Locks {
		if err := checkIDFormat("lock ID", string(id)); err != "" {
			idErrors = append(idErrors, err)
		}
	}
	for id := range gs.Actors {
		if err := checkIDFormat("actor ID", string(id)); err != "" {
			idErrors = append(idErrors, err)
		}
	}
	if len(idErrors) > 0 {
		return fmt.Errorf("naming errors in %s:\n%s", filename, strings.Join(idErrors, "\n"))
	}

	return nil
}

func checkIDFormat(fieldName, id string) string {
	if id == "" || id == "player" {
		return ""
	}
	if !validIDRegex.MatchString(id) {
		return fmt.Sprintf("  - %s '%s' should be lowercase snake_case", fieldName, id)
	}
	return ""
}

var (
	validIDRegex       = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
)

func isValidWorldFilename(name string) bool {
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
