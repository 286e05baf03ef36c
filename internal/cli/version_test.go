package cli

import "testing"

func TestResolveVersionInfo_LdflagsOverride(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer func() { version, commit, date = origV, origC, origD }()

	version, commit, date = "1.2.3", "abc1234", "2025-03-01"
	v, c, d := resolveVersionInfo()
	if v != "1.2.3" || c != "abc1234" || d != "2025-03-01" {
		t.Errorf("expected ldflags values, got %q %q %q", v, c, d)
	}
}

func TestResolveVersionInfo_DevFallback(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer func() { version, commit, date = origV, origC, origD }()

	version, commit, date = "dev", "unknown", "unknown"
	v, c, d := resolveVersionInfo()

	if v == "" {
		t.Error("version should not be empty")
	}
	t.Logf("resolved: version=%s commit=%s date=%s", v, c, d)
}
