// Command seedvocab writes the built-in vocabulary tables to a YAML file as
// a starting point for customization. The server loads the file when
// TUNADEX_VOCAB_FILE points at it.
// Usage: go run ./cmd/seedvocab [-out vocab.yaml]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"tunadex/internal/vocab"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outFlag := flag.String("out", "vocab.yaml", "output file")
	flag.Parse()

	tables := vocab.Default()
	raw, err := yaml.Marshal(tables)
	if err != nil {
		return fmt.Errorf("marshaling vocabulary tables: %w", err)
	}

	if err := os.WriteFile(*outFlag, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *outFlag, err)
	}

	log.Printf("Wrote %d customers, %d species, %d weight ranges to %s",
		len(tables.Customers), len(tables.Species), len(tables.WeightRanges), *outFlag)
	return nil
}
