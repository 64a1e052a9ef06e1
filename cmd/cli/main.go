package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"courseplanner/internal/catalog"
	"courseplanner/internal/csvio"
	"courseplanner/internal/engine"
)

func main() {
	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the crawler catalog JSON file")
	coursesPtr := flag.String("courses", "", `Comma-separated desired course IDs, e.g. "CS 1331,MATH 1554"`)
	pinPtr := flag.String("pin", "", "Comma-separated CRNs fixed into every combination")
	excludePtr := flag.String("exclude", "", "Comma-separated CRNs forbidden from every combination")
	sortPtr := flag.Int("sort", 0, "Sorting option: 0 (most compact), 1 (earliest ending), 2 (latest beginning)")
	outFilePathPtr := flag.String("out", "", "Path to a CSV output file; if empty, combinations are written to the Standard Output as JSON")
	flag.Parse()

	// Validate arguments
	if *filePathPtr == "" {
		log.Fatal("a catalog file must be specified")
	}
	desiredCourses := splitList(*coursesPtr)
	if len(desiredCourses) == 0 {
		log.Fatal("at least one desired course must be specified")
	}
	if *sortPtr < 0 || *sortPtr >= len(engine.SortingOptions()) {
		log.Fatalf("%v is not a valid sorting option", *sortPtr)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	// Extract input
	data, err := os.ReadFile(*filePathPtr)
	if err != nil {
		log.Fatalf("cannot read catalog file: %v", err)
	}
	raw, err := catalog.DecodeJSON(data)
	if err != nil {
		log.Fatalf("cannot decode catalog file: %v", err)
	}
	cat, err := catalog.New(raw, logger)
	if err != nil {
		log.Fatalf("cannot build catalog: %v", err)
	}

	// Enumerate and rank combinations
	combinations := engine.Combinations(cat, desiredCourses, splitList(*pinPtr), splitList(*excludePtr), nil)
	combinations, err = engine.Sort(combinations, *sortPtr, nil)
	if err != nil {
		log.Fatalf("cannot sort combinations: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if *outFilePathPtr == "" {
		combinationsJson, err := json.Marshal(combinations)
		if err != nil {
			log.Fatalf("an error occurred while building output json: %v", err)
		}
		fmt.Println(string(combinationsJson))
	} else if err := csvio.ExportCombinations(combinations, *outFilePathPtr); err != nil {
		log.Fatalf("an error occurred while writing to the output file: %v", err)
	}

	fmt.Printf("Combinations: %v\n", len(combinations))
}

func splitList(text string) []string {
	return lo.FilterMap(strings.Split(text, ","), func(element string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(element)
		return trimmed, trimmed != ""
	})
}
