// Package calculator estimates what a buyer saves by sourcing through the hub
// instead of a commission agent.
package calculator

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MinAmount      = 1000
	AgentRate      = 0.05
	HubFlatFee     = 300
	HubRate        = 0.015
	minAmountError = "minimum order amount is 1000"
)

// Input states
const (
	StateEmpty = "empty"
	StateError = "error"
	StateValid = "valid"
)

type Result struct {
	Amount     int64   `json:"amount"`
	State      string  `json:"state"`
	Message    string  `json:"message,omitempty"`
	AgentCost  float64 `json:"agentCost"`
	HubCost    float64 `json:"hubCost"`
	Saving     float64 `json:"saving"`
	Formatted  string  `json:"formatted"`
	CanProceed bool    `json:"canProceed"`
}

var printer = message.NewPrinter(language.English)

// Estimate parses free text (non-digits are dropped) and compares the two
// pricing models.
func Estimate(input string) Result {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, input)

	if digits == "" {
		return zero(0, StateEmpty, "")
	}
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// overflow
		return zero(0, StateError, "amount is too large")
	}
	return Compute(amount)
}

// Compute runs the formula on an already parsed amount.
func Compute(amount int64) Result {
	if amount <= 0 {
		return zero(0, StateEmpty, "")
	}
	if amount < MinAmount {
		return zero(amount, StateError, minAmountError)
	}

	a := float64(amount)
	agent := a * AgentRate
	hub := HubFlatFee + a*HubRate
	saving := agent - hub

	return Result{
		Amount:     amount,
		State:      StateValid,
		AgentCost:  agent,
		HubCost:    hub,
		Saving:     saving,
		Formatted:  FormatUSD(saving),
		CanProceed: saving > 0,
	}
}

// FormatUSD renders a dollar amount with thousands grouping, e.g. $1,234.50.
func FormatUSD(v float64) string {
	if v < 0 {
		return "-" + printer.Sprintf("$%.2f", -v)
	}
	return printer.Sprintf("$%.2f", v)
}

func zero(amount int64, state, msg string) Result {
	return Result{
		Amount:    amount,
		State:     state,
		Message:   msg,
		Formatted: FormatUSD(0),
	}
}
