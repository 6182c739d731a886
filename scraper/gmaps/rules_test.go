package gmaps

import (
	"strings"
	"testing"
)

func TestDefaultRulesValidate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	r := DefaultRules()
	r.ListingLinkPrefix = " "
	r.AddressPattern = "("
	r.PhonePattern = ""

	err := r.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"listingLinkPrefix", "addressPattern", "phonePattern"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestNewExtractorRejectsBadRules(t *testing.T) {
	r := DefaultRules()
	r.HoursPattern = "[unclosed"
	if _, err := NewExtractor(r, nil); err == nil {
		t.Error("expected NewExtractor to fail")
	}
}

func TestAddressPatternAcceptsNonBreakingSpace(t *testing.T) {
	c := mustCompile(t)
	got := c.address.FindString("Cafe · 12 Main\u00a0St")
	if got != "12 Main\u00a0St" {
		t.Errorf("address match = %q; want %q", got, "12 Main\u00a0St")
	}
}
