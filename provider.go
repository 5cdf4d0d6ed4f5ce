package currency

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ExchangeRateAPIProvider Provider = "ExchangeRateAPI"
	EmptyProvider           Provider = ""
)

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "exchangerateapi", "exchangerate-api":
		return ExchangeRateAPIProvider, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}
