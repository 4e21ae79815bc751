package extractor

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// Motorcycle is an extracted catalog candidate.
type Motorcycle struct {
	Name  string
	Price int64 // centavos
}

// Coefficient is an extracted coefficient rule candidate.
type Coefficient struct {
	Term           int
	DownPaymentMin float64
	DownPaymentMax float64
	Value          float64
	Motorcycle     string
	Bank           string
}

// Batch is the model's answer after decoding.
type Batch struct {
	Motorcycles  []Motorcycle
	Coefficients []Coefficient
}

type rawBatch struct {
	Motorcycles []struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"motorcycles"`
	Coefficients []struct {
		Term           float64 `json:"term"`
		DownPaymentMin float64 `json:"downPaymentMin"`
		DownPaymentMax float64 `json:"downPaymentMax"`
		Value          float64 `json:"value"`
		Motorcycle     string  `json:"motorcycle"`
		Bank           string  `json:"bank"`
	} `json:"coefficients"`
}

// ParseResponse decodes model output. Markdown fences and common JSON slips
// are repaired first; records missing required values make the whole answer
// malformed.
func ParseResponse(text string) (*Batch, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyExtraction
	}

	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	}

	var raw rawBatch
	if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	}
	if len(raw.Motorcycles)+len(raw.Coefficients) == 0 {
		return nil, ErrEmptyExtraction
	}

	batch := &Batch{}
	for i, m := range raw.Motorcycles {
		name := strings.TrimSpace(m.Name)
		if name == "" || m.Price <= 0 {
			return nil, fmt.Errorf("%w: motorcycle %d incomplete", ErrMalformedExtraction, i)
		}
		batch.Motorcycles = append(batch.Motorcycles, Motorcycle{Name: name, Price: int64(math.Round(m.Price))})
	}
	for i, c := range raw.Coefficients {
		term := int(math.Round(c.Term))
		if term <= 0 || c.Value <= 0 || c.DownPaymentMax < c.DownPaymentMin ||
			strings.TrimSpace(c.Motorcycle) == "" || strings.TrimSpace(c.Bank) == "" {
			return nil, fmt.Errorf("%w: coefficient %d incomplete", ErrMalformedExtraction, i)
		}
		if c.DownPaymentMin < 0 || c.DownPaymentMax > 100 {
			return nil, fmt.Errorf("%w: coefficient %d down payment range outside 0-100", ErrMalformedExtraction, i)
		}
		batch.Coefficients = append(batch.Coefficients, Coefficient{
			Term:           term,
			DownPaymentMin: c.DownPaymentMin,
			DownPaymentMax: c.DownPaymentMax,
			Value:          c.Value,
			Motorcycle:     strings.TrimSpace(c.Motorcycle),
			Bank:           strings.TrimSpace(c.Bank),
		})
	}
	return batch, nil
}
