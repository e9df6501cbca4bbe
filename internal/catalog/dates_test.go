package catalog

import "testing"

func TestRecordingDateFromFilename(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"SenateSession 25-07-17.mp4", "2025-07-17"},
		{"Appropriations 24-01-05", "2024-01-05"},
		{"No date here.mp4", DateUnknown},
		{"Bad month 25-13-40.mp4", DateUnknown},
		{"", DateUnknown},
	}
	for _, tc := range cases {
		if got := RecordingDateFromFilename(tc.filename); got != tc.want {
			t.Errorf("RecordingDateFromFilename(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestNormalizeHouseDate(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"7/17/2025", "2025-07-17"},
		{"January 5, 2024", "2024-01-05"},
		{"2025-07-17", "2025-07-17"},
		{"Session Recording Part 2", "Session Recording Part 2"},
		{"", DateUnknown},
	}
	for _, tc := range cases {
		if got := NormalizeHouseDate(tc.raw); got != tc.want {
			t.Errorf("NormalizeHouseDate(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeUploadTimestamp(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2025-07-18T14:03:22Z", "2025-07-18"},
		{"2025-07-18T14:03:22.123456Z", "2025-07-18"},
		{"not a timestamp", "not a timestamp"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeUploadTimestamp(tc.raw); got != tc.want {
			t.Errorf("NormalizeUploadTimestamp(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeCommittee(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"APPROPRIATIONS", "Appropriations"},
		{"HEALTH POLICY", "Health Policy"},
		{"Judiciary", "Judiciary"},
		{"  ", "Unknown Committee"},
	}
	for _, tc := range cases {
		if got := NormalizeCommittee(tc.raw); got != tc.want {
			t.Errorf("NormalizeCommittee(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestEnsureVideoExtension(t *testing.T) {
	if got := EnsureVideoExtension("Senate Session 25-07-17"); got != "Senate Session 25-07-17.mp4" {
		t.Fatalf("EnsureVideoExtension = %q", got)
	}
	if got := EnsureVideoExtension("hearing.MP4"); got != "hearing.MP4" {
		t.Fatalf("expected recognized extension preserved, got %q", got)
	}
	if got := EnsureVideoExtension("clip.mkv"); got != "clip.mkv" {
		t.Fatalf("expected .mkv preserved, got %q", got)
	}
}

func TestRemotePath(t *testing.T) {
	item := Item{
		Source:        SourceSenate,
		Committee:     "Appropriations",
		RecordingDate: "2025-07-17",
	}
	got := item.RemotePath("session.mp4")
	if got != "senate/Appropriations/2025-07-17/session.mp4" {
		t.Fatalf("RemotePath = %q", got)
	}
}
