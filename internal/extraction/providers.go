package extraction

import (
	"regexp"
	"strings"
)

// providerDomains lists the legitimate sender domains for each provider (spec §4.C3 rule 1).
var providerDomains = map[Provider][]string{
	ProviderKlarna:   {"klarna.com"},
	ProviderAffirm:   {"affirm.com"},
	ProviderAfterpay: {"afterpay.com"},
	ProviderPayPal4:  {"paypal.com"},
	ProviderZip:      {"zip.co", "quadpay.com"},
	ProviderSezzle:   {"sezzle.com"},
}

// brandKeywords are the lowercase brand names searched for near an installment phrase
// (spec §4.C3 rule 2): "brand keyword co-located (<=80 characters) with an installment
// phrase ... to suppress false positives like the verb 'zip'".
var brandKeywords = map[Provider]string{
	ProviderKlarna:   "klarna",
	ProviderAffirm:   "affirm",
	ProviderAfterpay: "afterpay",
	ProviderPayPal4:  "paypal",
	ProviderZip:      "zip",
	ProviderSezzle:   "sezzle",
}

const keywordCoLocationWindow = 80

var installmentPhrase = regexp.MustCompile(`(?i)(payment\s+\d+\s+of\s+\d+|installment)`)

var senderLine = regexp.MustCompile(`(?i)from:.*?@([a-z0-9.-]+\.[a-z]{2,})`)
var anyEmailDomain = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)

// Detection is the outcome of DetectProvider (spec §4.C3 rule 3: spoof check).
type Detection struct {
	Provider Provider
	Spoofed  bool // sender domain carries a brand name as a non-root label of another domain
}

// DetectProvider applies the provider detection rules in priority order: sender-domain
// match, then brand-keyword/installment-phrase co-location, with a sender-domain spoof
// check folded into the domain pass (spec §4.C3).
func DetectProvider(text string) Detection {
	domain := extractSenderDomain(text)
	spoofed := false

	if domain != "" {
		for provider, officials := range providerDomains {
			if domainMatches(domain, officials) {
				return Detection{Provider: provider}
			}
		}
		for provider, keyword := range brandKeywords {
			if looksSpoofed(domain, keyword, providerDomains[provider]) {
				spoofed = true
			}
		}
	}

	if p, ok := detectByKeywordCoLocation(text); ok {
		return Detection{Provider: p, Spoofed: spoofed}
	}
	return Detection{Provider: ProviderUnknown, Spoofed: spoofed}
}

func extractSenderDomain(text string) string {
	if m := senderLine.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	if m := anyEmailDomain.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

func domainMatches(domain string, officials []string) bool {
	for _, official := range officials {
		if domain == official || strings.HasSuffix(domain, "."+official) {
			return true
		}
	}
	return false
}

// looksSpoofed reports whether domain carries brandKeyword as one of its non-root labels
// while not actually matching any of that brand's official domains, e.g.
// "klarna.evil.com" carries "klarna" as a subdomain of the unrelated root "evil.com".
func looksSpoofed(domain, brandKeyword string, officials []string) bool {
	if domainMatches(domain, officials) {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 3 {
		return false
	}
	for _, label := range labels[:len(labels)-2] {
		if strings.Contains(label, brandKeyword) {
			return true
		}
	}
	return false
}

func detectByKeywordCoLocation(text string) (Provider, bool) {
	lower := strings.ToLower(text)
	loc := installmentPhrase.FindStringIndex(text)
	if loc == nil {
		return ProviderUnknown, false
	}
	windowStart := loc[0] - keywordCoLocationWindow
	if windowStart < 0 {
		windowStart = 0
	}
	windowEnd := loc[1] + keywordCoLocationWindow
	if windowEnd > len(lower) {
		windowEnd = len(lower)
	}
	window := lower[windowStart:windowEnd]

	for provider, keyword := range brandKeywords {
		if strings.Contains(window, keyword) {
			return provider, true
		}
	}
	return ProviderUnknown, false
}
