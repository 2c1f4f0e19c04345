package profile

import "testing"

func TestResolveKnownBanks(t *testing.T) {
	sbi := Resolve("SBI")
	if !sbi.Sweep {
		t.Error("SBI profile should declare sweep support")
	}
	if sbi.HeaderSkip == 0 {
		t.Error("SBI profile should skip header lines")
	}
	if sbi.SweepBalanceLabel == "" {
		t.Error("SBI profile should carry a sweep balance label")
	}
	if len(sbi.DateFormats) == 0 {
		t.Error("SBI profile should carry a native date format")
	}

	hdfc := Resolve("hdfc")
	if hdfc.Bank != "HDFC" {
		t.Errorf("lookup should be case-insensitive, got bank %q", hdfc.Bank)
	}
	if hdfc.Sweep {
		t.Error("HDFC profile should not declare sweep support")
	}
}

func TestResolveUnknownBankFallsBack(t *testing.T) {
	p := Resolve("Kotak")
	if p.Bank != "Kotak" {
		t.Errorf("generic profile should keep the requested bank, got %q", p.Bank)
	}
	if p.HeaderSkip != 0 {
		t.Error("generic profile should not skip header lines")
	}
	if p.Sweep {
		t.Error("generic profile should not declare sweep support")
	}
	if len(p.DateColumns) < len(Resolve("SBI").DateColumns) {
		t.Error("generic profile should carry the broadest synonym lists")
	}
	if Known("Kotak") {
		t.Error("Known should be false for unlisted banks")
	}
}
