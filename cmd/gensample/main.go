// Command gensample writes the synthetic TMY3 file bundled with the service and,
// optionally, a matching PSM3 response for mockup mode.
//
// Usage:
//
//	go run ./cmd/gensample -out data/sample_tmy3.csv \
//	  -psm3-out internal/mocks/data/psm3_tmy.csv
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"tmyreport/internal/psm3"
	"tmyreport/internal/tmy"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", filepath.Join("data", "sample_tmy3.csv"), "output path for the TMY3 sample")
	psm3Out := flag.String("psm3-out", "", "output path for a PSM3 sample (skipped when empty)")
	year := flag.Int("year", 1990, "year written into the TMY3 timestamps")
	lat := flag.Float64("lat", 35.0844, "latitude of the PSM3 sample")
	lon := flag.Float64("lon", -106.6504, "longitude of the PSM3 sample")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	var buf bytes.Buffer
	if err := tmy.GenerateSample(&buf, tmy.DefaultSite, *year); err != nil {
		return fmt.Errorf("generate TMY3 sample: %w", err)
	}
	if err := writeFile(*out, buf.Bytes()); err != nil {
		return err
	}
	log.Printf("wrote %s (%d bytes)", *out, buf.Len())

	if *psm3Out == "" {
		return nil
	}
	buf.Reset()
	if err := psm3.GenerateSample(&buf, psm3.SampleSite(*lat, *lon), 2003); err != nil {
		return fmt.Errorf("generate PSM3 sample: %w", err)
	}
	if err := writeFile(*psm3Out, buf.Bytes()); err != nil {
		return err
	}
	log.Printf("wrote %s (%d bytes)", *psm3Out, buf.Len())
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
