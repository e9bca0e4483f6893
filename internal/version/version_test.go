package version

import "testing"

func TestInfo(t *testing.T) {
	orig := [3]string{Version, Commit, BuildTime}
	t.Cleanup(func() { Version, Commit, BuildTime = orig[0], orig[1], orig[2] })

	Version, Commit, BuildTime = "1.2.3", "abc1234", "2024-01-02T03:04:05Z"

	if got, want := Info(), "scripmaster 1.2.3 (abc1234) built 2024-01-02T03:04:05Z"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
	if got, want := UserAgent(), "bfo-scripmaster/1.2.3"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}
