package cli

import (
	"testing"
)

func Test_replacePathTildeOK(t *testing.T) {
	var tests = []struct {
		input string
		want  string
	}{
		{
			input: "/Users/foo/backup/backup_Users_20240101-000000.jsonl",
			want:  "~/backup/backup_Users_20240101-000000.jsonl",
		},
	}

	t.Setenv("HOME", "/Users/foo")

	for _, test := range tests {
		got, err := replacePathTilde(test.input)
		if err != nil {
			t.Error(err)
		}

		if got != test.want {
			t.Errorf("got %s, want %s", got, test.want)
		}
	}
}

func Test_replacePathTildeNG_HOMEisNotDefined(t *testing.T) {
	t.Setenv("HOME", "")

	_, err := replacePathTilde("/Users/foo/backup.jsonl")
	if err == nil || err.Error() != "$HOME is not defined" {
		t.Errorf("got %v, want $HOME is not defined", err)
	}
}

func Test_replacePathTildeNG_pathNotIncludeHome(t *testing.T) {
	t.Setenv("HOME", "/Users/foo")

	_, err := replacePathTilde("/etc/foo.jsonl")
	if err == nil || err.Error() != "replace failed" {
		t.Errorf("got %v, want replace failed", err)
	}
}

func Test_displayPath(t *testing.T) {
	t.Setenv("HOME", "/Users/foo")

	if got := displayPath("/Users/foo/a.jsonl"); got != "~/a.jsonl" {
		t.Errorf("got %s", got)
	}
	if got := displayPath("/tmp/a.jsonl"); got != "/tmp/a.jsonl" {
		t.Errorf("got %s", got)
	}
}
