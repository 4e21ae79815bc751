package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/repository"
	"gopkg.in/yaml.v2"
)

// seedFile is the layout of a reference-data seed. Prices are in centavos;
// a rule without motorcycle or bank gets the wildcard scope and the unknown
// lender.
type seedFile struct {
	Motorcycles  []seedMotorcycle  `yaml:"motorcycles"`
	Coefficients []seedCoefficient `yaml:"coefficients"`
}

type seedMotorcycle struct {
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
}

type seedCoefficient struct {
	Term           int     `yaml:"term"`
	DownPaymentMin float64 `yaml:"down_payment_min"`
	DownPaymentMax float64 `yaml:"down_payment_max"`
	Value          float64 `yaml:"value"`
	Motorcycle     string  `yaml:"motorcycle"`
	Bank           string  `yaml:"bank"`
}

func (c seedCoefficient) rule() model.CoefficientRule {
	r := model.CoefficientRule{
		Term:           c.Term,
		DownPaymentMin: c.DownPaymentMin,
		DownPaymentMax: c.DownPaymentMax,
		Value:          c.Value,
		Motorcycle:     c.Motorcycle,
		Bank:           c.Bank,
	}
	rules := []*model.CoefficientRule{&r}
	model.BackfillCoefficientDefaults(rules)
	return r
}

func loadSeed(r io.Reader) (*seedFile, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var seed seedFile
	if err := yaml.UnmarshalStrict(b, &seed); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if len(seed.Motorcycles)+len(seed.Coefficients) == 0 {
		return nil, fmt.Errorf("seed: no motorcycles or coefficients")
	}
	return &seed, nil
}

// assignIDs gives every legacy record that lacks a UUID a fresh one, since
// the legacy store used numeric timestamps as ids. It returns the number of
// ids replaced.
func assignIDs(dump *repository.LegacyDump) int {
	n := 0
	fix := func(id *string) {
		if _, err := uuid.Parse(*id); err != nil {
			*id = uuid.NewString()
			n++
		}
	}
	for _, m := range dump.Motorcycles {
		fix(&m.ID)
	}
	for _, c := range dump.Coefficients {
		fix(&c.ID)
	}
	for _, s := range dump.Submissions {
		fix(&s.ID)
	}
	return n
}
