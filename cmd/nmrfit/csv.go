package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-nmrfit/fit"
	"github.com/cwbudde/algo-nmrfit/measure/spectrum"
)

// readSpectrum parses rows of frequency, in-phase and quadrature values.
func readSpectrum(r io.Reader) (spectrum.Spectrum, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var w, u, v []float64
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return spectrum.Spectrum{}, fmt.Errorf("nmrfit: csv: %w", err)
		}
		if len(rec) < 3 {
			return spectrum.Spectrum{}, fmt.Errorf("nmrfit: csv line %d: want 3 columns, got %d", line, len(rec))
		}

		vals, err := parseFloats(rec[:3])
		if err != nil {
			if len(w) == 0 {
				continue // header
			}
			return spectrum.Spectrum{}, fmt.Errorf("nmrfit: csv line %d: %w", line, err)
		}
		w = append(w, vals[0])
		u = append(u, vals[1])
		v = append(v, vals[2])
	}
	return spectrum.New(w, u, v)
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// parseROIs parses "low:high,low:high".
func parseROIs(s string) ([][2]float64, error) {
	var out [][2]float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: roi %q is not low:high", errUsage, part)
		}
		vals, err := parseFloats([]string{lo, hi})
		if err != nil {
			return nil, fmt.Errorf("%w: roi %q: %v", errUsage, part, err)
		}
		out = append(out, [2]float64{vals[0], vals[1]})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no regions given", errUsage)
	}
	return out, nil
}

// writeCurves stores the fitted curves as w,V,I,u,v rows.
func writeCurves(path string, res *fit.FitResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nmrfit: %w", err)
	}

	cw := csv.NewWriter(f)
	_ = cw.Write([]string{"w", "V", "I", "u", "v"})
	for i := range res.W {
		_ = cw.Write([]string{
			formatFloat(res.W[i]),
			formatFloat(res.VFit[i]),
			formatFloat(res.IFit[i]),
			formatFloat(res.UFit[i]),
			formatFloat(res.VFitRot[i]),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("nmrfit: %w", err)
	}
	return f.Close()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
