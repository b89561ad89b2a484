package specialists

import (
	"context"
	"testing"

	contractx "krishisetu/agent/contract"
)

func TestFinanceInvokeDefaults(t *testing.T) {
	t.Parallel()

	f := NewFinance(nil)
	res, err := f.Invoke(context.Background(), contractx.Query{Text: "loan options for my farm"}, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if res.Outcome != contractx.OutcomeSuccess {
		t.Fatalf("outcome = %s", res.Outcome)
	}

	for _, key := range []string{"loan_options", "government_schemes", "insurance_options", "loan_eligibility"} {
		if _, ok := res.Data[key]; !ok {
			t.Fatalf("data missing %s: %v", key, res.Data)
		}
	}
}

func TestLoanOptionsFilteredByProfile(t *testing.T) {
	t.Parallel()

	small := loanOptions("small", 1)
	for _, l := range small {
		if l.Name == "Agricultural Term Loan" {
			t.Fatal("small holding must not be offered the term loan")
		}
	}
	if len(small) != 3 {
		t.Fatalf("small profile sees %d products, want 3", len(small))
	}

	medium := loanOptions("medium", 5)
	if len(medium) != 2 {
		t.Fatalf("medium profile sees %d products, want 2", len(medium))
	}

	large := loanOptions("large", 20)
	if len(large) != len(allLoanOptions) {
		t.Fatalf("large profile sees %d products, want all %d", len(large), len(allLoanOptions))
	}
}

func TestGovernmentSchemesIncludeStateSchemes(t *testing.T) {
	t.Parallel()

	base := governmentSchemes("Kerala")
	mh := governmentSchemes("Maharashtra")
	if len(mh) != len(base)+1 {
		t.Fatalf("Maharashtra schemes = %d, want national %d plus one state scheme", len(mh), len(base))
	}
}

func TestMarketTrendsUnknownCrop(t *testing.T) {
	t.Parallel()

	got := marketTrends("Quinoa")
	if got["trend"] != "Unknown" {
		t.Fatalf("trend = %v, want Unknown", got["trend"])
	}
}

func TestLoanEligibilityScalesWithProfile(t *testing.T) {
	t.Parallel()

	small := loanEligibility("small", 2, map[string]string{})
	if small["eligible_amount"] != "₹80000" {
		t.Fatalf("small eligibility = %v, want ₹80000", small["eligible_amount"])
	}

	excellent := loanEligibility("large", 10, map[string]string{"credit_score": "excellent"})
	if excellent["eligible_amount"] != "₹720000" {
		t.Fatalf("large/excellent eligibility = %v, want ₹720000", excellent["eligible_amount"])
	}

	poor := loanEligibility("medium", 2, map[string]string{"credit_score": "poor"})
	if poor["eligible_amount"] != "₹70000" {
		t.Fatalf("medium/poor eligibility = %v, want ₹70000", poor["eligible_amount"])
	}
}

func TestKeywordConfidence(t *testing.T) {
	t.Parallel()

	f := NewFinance(nil)

	none := keywordConfidence("hello there", f.keywords)
	if none != confidenceBase {
		t.Fatalf("no hits = %f, want base %f", none, confidenceBase)
	}

	two := keywordConfidence("bank loan please", f.keywords)
	if two != confidenceBase+2*confidencePerHit {
		t.Fatalf("two hits = %f", two)
	}

	stuffed := keywordConfidence("loan credit finance money bank scheme subsidy insurance market price", f.keywords)
	if stuffed != confidenceCeiling {
		t.Fatalf("stuffed = %f, want ceiling %f", stuffed, confidenceCeiling)
	}
}
