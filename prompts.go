package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/pcfscope/server/analysis"
)

// promptPolynomial asks for one recurrence polynomial, rejecting input the
// backend would refuse.
func promptPolynomial(name, example string, limits analysis.Limits) (string, error) {
	var value string
	prompt := &survey.Input{
		Message: fmt.Sprintf("%s(n):", name),
		Help:    fmt.Sprintf("A polynomial in one variable, e.g. %s. Powers may be written ^ or **.", example),
	}

	err := survey.AskOne(prompt, &value, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		return analysis.ValidateExpression(strings.TrimSpace(str), limits.MaxExpressionLength)
	}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptDepth(def, maxDepth int) (int, error) {
	var value string
	prompt := &survey.Input{
		Message: "Depth:",
		Help:    fmt.Sprintf("Number of terms to evaluate, at most %d.", maxDepth),
		Default: strconv.Itoa(def),
	}

	err := survey.AskOne(prompt, &value, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return fmt.Errorf("depth must be a whole number")
		}
		if n < 1 {
			return analysis.ErrInvalidDepth
		}
		return nil
	}))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(value))
}
