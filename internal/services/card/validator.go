package card

import (
	"strings"
	"time"

	"centime/internal/validation"
)

// Card networks inferred from the leading digits.
const (
	NetworkVisa       = "Visa"
	NetworkMasterCard = "MasterCard"
	NetworkAmex       = "American Express"
	NetworkDiscover   = "Discover"
	NetworkUnknown    = "Unknown"
)

// minRemainingValidity is how much life a card must have left to be accepted.
const minRemainingValidity = 30 * 24 * time.Hour

// ValidateInput holds the raw card data submitted for validation.
type ValidateInput struct {
	CardNumber  string
	CVV         string
	ExpiryMonth int
	ExpiryYear  int
	HolderName  string
}

// ValidationResult aggregates every failing rule; Network carries the
// inferred card network when validation succeeds.
type ValidationResult struct {
	Valid   bool
	Network string
	Errors  map[string]string
}

// Validate runs every card rule and reports all failures at once.
func Validate(input ValidateInput) ValidationResult {
	v := validation.New()
	number := normalizeNumber(input.CardNumber)

	v.Digits("card_number", number)
	v.Check(luhnValid(number), "card_number", "failed checksum")

	network := InferNetwork(number)
	v.Check(network != NetworkUnknown, "card_number", "unrecognized card network")

	if network != NetworkUnknown {
		v.Length("card_number", number, networkLengths(network)...)
	}

	v.Digits("cvv", input.CVV)
	if network == NetworkAmex {
		v.Length("cvv", input.CVV, 4)
	} else {
		v.Length("cvv", input.CVV, 3)
	}

	v.Check(input.ExpiryMonth >= 1 && input.ExpiryMonth <= 12, "expiry", "invalid month")
	if input.ExpiryMonth >= 1 && input.ExpiryMonth <= 12 {
		v.Future("expiry", expiryTime(input.ExpiryMonth, input.ExpiryYear), minRemainingValidity)
	}

	v.Required("holder_name", input.HolderName)
	v.NoDigits("holder_name", input.HolderName)

	result := ValidationResult{
		Valid:  v.Valid(),
		Errors: v.Errors,
	}
	if result.Valid {
		result.Network = network
	}
	return result
}

// InferNetwork maps leading digits to a card network.
func InferNetwork(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return NetworkVisa
	case len(number) >= 2 && number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return NetworkMasterCard
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return NetworkAmex
	case strings.HasPrefix(number, "6011"), strings.HasPrefix(number, "65"):
		return NetworkDiscover
	default:
		return NetworkUnknown
	}
}

func networkLengths(network string) []int {
	switch network {
	case NetworkVisa:
		return []int{13, 16}
	case NetworkMasterCard, NetworkDiscover:
		return []int{16}
	case NetworkAmex:
		return []int{15}
	default:
		return nil
	}
}

// luhnValid runs the Luhn checksum over a digit string.
func luhnValid(number string) bool {
	if number == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := number[i]
		if d < '0' || d > '9' {
			return false
		}
		n := int(d - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}

func normalizeNumber(number string) string {
	replacer := strings.NewReplacer(" ", "", "-", "")
	return replacer.Replace(number)
}

// expiryTime is the end of the card's expiry month.
func expiryTime(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0).
		Add(-time.Second)
}
