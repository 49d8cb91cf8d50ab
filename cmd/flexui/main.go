// cmd/flexui is the offline inspector: it parses a screen-config file,
// optionally resolves it against a runtime data file, and prints the
// resulting render plan as JSON.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/venkatesh3007/flexui/internal/render"
	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/value"
)

func main() {
	configPath := flag.String("config", "", "path to the screen-config JSON file (required)")
	dataPath := flag.String("data", "", "path to a runtime-data JSON file")
	validateOnly := flag.Bool("validate", false, "validate the config and exit without planning")
	flag.Parse()

	if *configPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}

	if err := schema.ValidateDocument(raw); err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			for _, issue := range ve.Issues {
				fmt.Fprintf(os.Stderr, "schema: %s\n", issue)
			}
		} else {
			fmt.Fprintf(os.Stderr, "schema: %v\n", err)
		}
	}

	cfg, err := schema.ParseConfig(raw)
	if err != nil {
		var pe *schema.ParseError
		if errors.As(err, &pe) {
			for _, issue := range pe.Issues {
				fmt.Fprintf(os.Stderr, "parse: %s\n", issue)
			}
			os.Exit(1)
		}
		log.Fatalf("parsing config: %v", err)
	}

	if err := schema.CheckVersion(cfg.Version); err != nil {
		log.Fatalf("version: %v", err)
	}

	if *validateOnly {
		fmt.Printf("%s: ok (version %s)\n", cfg.ScreenID, cfg.Version)
		return
	}

	data := value.NewMap()
	if *dataPath != "" {
		rawData, err := os.ReadFile(*dataPath)
		if err != nil {
			log.Fatalf("reading data: %v", err)
		}
		v, err := value.Decode(rawData)
		if err != nil {
			log.Fatalf("parsing data: %v", err)
		}
		m, ok := v.AsMap()
		if !ok {
			log.Fatalf("data file must contain a JSON object")
		}
		data = m
	}

	// No component registry: offline planning accepts every node type.
	planner := render.New(nil, nil)
	entry, issues := planner.PlanScreen(cfg, data)
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "plan: %s\n", issue)
	}

	out, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		log.Fatalf("encoding plan: %v", err)
	}
	fmt.Println(string(out))
}
