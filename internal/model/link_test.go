package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLinkType(t *testing.T) {
	t.Parallel()

	t.Run("String returns correct value", func(t *testing.T) {
		t.Parallel()
		if got := LinkTypeImage.String(); got != "image" {
			t.Errorf("expected image, got %s", got)
		}
		if got := LinkTypeOther.String(); got != "other" {
			t.Errorf("expected other, got %s", got)
		}
	})

	t.Run("IsValid returns true for known types", func(t *testing.T) {
		t.Parallel()
		for _, lt := range []LinkType{
			LinkTypeImage, LinkTypeDocument, LinkTypeVideo, LinkTypeAudio,
			LinkTypeArchive, LinkTypeCode, LinkTypeAPI, LinkTypePage, LinkTypeOther,
		} {
			if !lt.IsValid() {
				t.Errorf("expected %s to be valid", lt)
			}
		}
		if LinkType("bogus").IsValid() {
			t.Error("expected bogus to be invalid")
		}
	})
}

func TestSourceRegion(t *testing.T) {
	t.Parallel()

	t.Run("String returns correct value", func(t *testing.T) {
		t.Parallel()
		if got := SourceMainContent.String(); got != "main_content" {
			t.Errorf("expected main_content, got %s", got)
		}
	})

	t.Run("IsValid returns true for known regions", func(t *testing.T) {
		t.Parallel()
		for _, r := range []SourceRegion{
			SourceNavigation, SourceHeader, SourceFooter, SourceSidebar,
			SourceMainContent, SourceBreadcrumb, SourceContent, SourceUnknown,
		} {
			if !r.IsValid() {
				t.Errorf("expected %s to be valid", r)
			}
		}
		if SourceRegion("bogus").IsValid() {
			t.Error("expected bogus to be invalid")
		}
	})
}

func TestLinkRecordProbe(t *testing.T) {
	t.Parallel()

	t.Run("successful probe below 400 is accessible", func(t *testing.T) {
		t.Parallel()
		l := Link{URL: "https://example.com/"}
		l.RecordProbe(200, "")

		if !l.Validated() {
			t.Fatal("expected link to be validated")
		}
		if *l.StatusCode != 200 {
			t.Errorf("expected status 200, got %d", *l.StatusCode)
		}
		if !*l.IsAccessible {
			t.Error("expected link to be accessible")
		}
		if l.Error != "" {
			t.Errorf("expected no error, got %q", l.Error)
		}
	})

	t.Run("status 404 is not accessible", func(t *testing.T) {
		t.Parallel()
		l := Link{URL: "https://example.com/missing"}
		l.RecordProbe(404, "")

		if *l.IsAccessible {
			t.Error("expected 404 to be inaccessible")
		}
	})

	t.Run("probe failure records status zero and message", func(t *testing.T) {
		t.Parallel()
		l := Link{URL: "https://example.com/"}
		l.RecordProbe(0, "connection refused")

		if *l.StatusCode != 0 {
			t.Errorf("expected status 0, got %d", *l.StatusCode)
		}
		if *l.IsAccessible {
			t.Error("expected failed probe to be inaccessible")
		}
		if l.Error != "connection refused" {
			t.Errorf("unexpected error message: %q", l.Error)
		}
	})

	t.Run("unvalidated link omits probe fields in JSON", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Link{URL: "https://example.com/"})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if strings.Contains(string(data), "status_code") {
			t.Errorf("expected status_code to be omitted, got %s", data)
		}
		if strings.Contains(string(data), "is_accessible") {
			t.Errorf("expected is_accessible to be omitted, got %s", data)
		}
	})

	t.Run("validated inaccessible link keeps probe fields in JSON", func(t *testing.T) {
		t.Parallel()
		l := Link{URL: "https://example.com/"}
		l.RecordProbe(500, "")
		data, err := json.Marshal(&l)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if !strings.Contains(string(data), `"status_code":500`) {
			t.Errorf("expected status_code in output, got %s", data)
		}
		if !strings.Contains(string(data), `"is_accessible":false`) {
			t.Errorf("expected is_accessible false in output, got %s", data)
		}
	})
}
