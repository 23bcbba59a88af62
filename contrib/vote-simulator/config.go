package main

import (
	"time"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/veilvote/veilvote/lifecycle"
	"github.com/veilvote/veilvote/vote"
)

type VoteConfig struct {
	Title       string `yaml:"title"`
	Value       string `yaml:"value"`
	Description string `yaml:"description,omitempty"`
	Category    string `yaml:"category,omitempty"`
}

type SimulatorConfig struct {
	Signer        string        `yaml:"signer"`
	Contract      string        `yaml:"contract"`
	EngineKey     string        `yaml:"engine-key"`
	Interval      time.Duration `yaml:"interval"`
	Reveal        bool          `yaml:"reveal"`
	SuccessWindow time.Duration `yaml:"success-window"`
	ErrorWindow   time.Duration `yaml:"error-window"`
	Votes         []VoteConfig  `yaml:"votes"`
}

func defaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		Signer:        "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
		Contract:      "0xFHEVoting000000000000000000000000000000",
		EngineKey:     "vote-simulator",
		Interval:      time.Millisecond * 100,
		Reveal:        true,
		SuccessWindow: lifecycle.DefaultSuccessStatusWindow,
		ErrorWindow:   lifecycle.DefaultErrorStatusWindow,
		Votes: []VoteConfig{
			{Title: "City budget allocation", Value: "3", Category: "governance"},
			{Title: "Park renewal", Value: "1", Category: "community"},
			{Title: "Transit expansion", Value: "2", Category: "infrastructure"},
		},
	}
}

func newSimulatorConfigFromBytes(b []byte) (SimulatorConfig, error) {
	config := defaultSimulatorConfig()
	if err := yaml.Unmarshal(b, &config); err != nil {
		return SimulatorConfig{}, err
	}

	if err := config.IsValid(); err != nil {
		return SimulatorConfig{}, err
	}

	return config, nil
}

func (c SimulatorConfig) IsValid() error {
	if len(c.Signer) < 1 {
		return xerrors.Errorf("signer is empty")
	}

	if len(c.Contract) < 1 {
		return xerrors.Errorf("contract is empty")
	}

	if len(c.Votes) < 1 {
		return xerrors.Errorf("no votes configured")
	}

	return nil
}

func (c SimulatorConfig) Policy() lifecycle.Policy {
	policy := lifecycle.DefaultPolicy(vote.Address(c.Contract))
	if c.SuccessWindow > 0 {
		policy.SuccessStatusWindow = c.SuccessWindow
	}
	if c.ErrorWindow > 0 {
		policy.ErrorStatusWindow = c.ErrorWindow
	}

	return policy
}
