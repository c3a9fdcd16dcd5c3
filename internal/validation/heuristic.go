package validation

import (
	"context"
	"net/mail"
	"strings"

	"github.com/sells-group/ssot-cli/internal/normalize"
)

// roleAccounts are local parts that indicate a shared mailbox rather than
// a person. Shared mailboxes deliver but convert poorly.
var roleAccounts = map[string]bool{
	"info":      true,
	"admin":     true,
	"office":    true,
	"contact":   true,
	"sales":     true,
	"support":   true,
	"enquiries": true,
	"accounts":  true,
	"reception": true,
}

// disposableDomains are throwaway email providers.
var disposableDomains = map[string]bool{
	"mailinator.com":    true,
	"guerrillamail.com": true,
	"10minutemail.com":  true,
	"tempmail.com":      true,
	"yopmail.com":       true,
}

// freeProviders are personal mailbox providers; deliverable but weaker as
// an organization contact signal.
var freeProviders = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"outlook.com": true,
	"hotmail.com": true,
	"icloud.com":  true,
	"webmail.co.za": true,
}

// HeuristicValidator scores channels from syntax and known-domain rules.
// Deterministic and stateless, so safe for concurrent use.
type HeuristicValidator struct{}

// NewHeuristic returns the rule-based validator.
func NewHeuristic() *HeuristicValidator {
	return &HeuristicValidator{}
}

// Validate scores whichever channels are non-empty. It never returns an
// error; the error slot exists for remote implementations of Validator.
func (v *HeuristicValidator) Validate(_ context.Context, email, phone, countryCode string) (Result, error) {
	var res Result
	if normalize.Clean(email) != "" {
		res.Email = validateEmail(normalize.Email(email))
	}
	if normalize.Clean(phone) != "" {
		res.Phone = validatePhone(normalize.Clean(phone), countryCode)
	}
	return res, nil
}

func validateEmail(email string) *ChannelResult {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return &ChannelResult{Status: StatusUndeliverable, Confidence: 0.1, Flags: []string{"invalid_syntax"}}
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || domain == "" || !strings.Contains(domain, ".") {
		return &ChannelResult{Status: StatusUndeliverable, Confidence: 0.1, Flags: []string{"invalid_syntax"}}
	}

	if disposableDomains[domain] {
		return &ChannelResult{Status: StatusUndeliverable, Confidence: 0.15, Flags: []string{"disposable_domain"}}
	}

	var flags []string
	status := StatusDeliverable
	confidence := 0.85

	if roleAccounts[local] {
		status = StatusRisky
		confidence = 0.55
		flags = append(flags, "role_account")
	}
	if freeProviders[domain] {
		confidence -= 0.1
		flags = append(flags, "free_provider")
	}

	return &ChannelResult{Status: status, Confidence: confidence, Flags: flags}
}

func validatePhone(phone, countryCode string) *ChannelResult {
	digits := digitsOf(phone)
	international := strings.HasPrefix(phone, "+")

	if len(digits) < 7 {
		return &ChannelResult{Status: StatusUndeliverable, Confidence: 0.1, Flags: []string{"too_short"}}
	}
	if len(digits) > 15 {
		return &ChannelResult{Status: StatusUndeliverable, Confidence: 0.1, Flags: []string{"too_long"}}
	}

	// Country-specific shape checks cover ZA, the default deployment.
	if strings.EqualFold(countryCode, "ZA") {
		switch {
		case international && strings.HasPrefix(digits, "27") && len(digits) == 11:
			return &ChannelResult{Status: StatusDeliverable, Confidence: 0.8}
		case international:
			return &ChannelResult{Status: StatusRisky, Confidence: 0.5, Flags: []string{"foreign_number"}}
		case strings.HasPrefix(digits, "0") && len(digits) == 10:
			conf := 0.7
			if strings.HasPrefix(digits, "06") || strings.HasPrefix(digits, "07") || strings.HasPrefix(digits, "08") {
				conf = 0.8 // mobile ranges answer more often
			}
			return &ChannelResult{Status: StatusDeliverable, Confidence: conf}
		default:
			return &ChannelResult{Status: StatusUnknown, Confidence: 0.4, Flags: []string{"unrecognized_format"}}
		}
	}

	return &ChannelResult{Status: StatusUnknown, Confidence: 0.5}
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
