package driven

// RedirectLocation is the addressable location an OAuth-style redirect
// returned to. It may carry a one-time exchange code.
type RedirectLocation interface {
	// ExchangeCode returns the code carried by the location, if any.
	ExchangeCode() (string, bool)

	// StripExchangeCode removes the code so re-entering the location
	// cannot replay the exchange.
	StripExchangeCode()
}
