package jobs

import (
	"strings"
	"testing"
)

func TestResumeEmpty(t *testing.T) {
	tests := []struct {
		name   string
		resume *Resume
		want   bool
	}{
		{"nil", nil, true},
		{"zero value", &Resume{}, true},
		{"raw text only", &Resume{RawText: "plain text with no structure"}, true},
		{"skills", &Resume{Skills: []string{"Golang"}}, false},
		{"bullets", &Resume{Bullets: []string{"built things"}}, false},
		{"projects", &Resume{Projects: []Project{{Name: "pipeline"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resume.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResumeNarrative(t *testing.T) {
	r := &Resume{
		Bullets: []string{"Built a Golang ingestion service"},
		Projects: []Project{
			{Name: "pipeline", Description: "streaming ETL"},
			{Name: "dashboards"},
		},
	}
	got := r.Narrative()
	for _, want := range []string{"Built a Golang ingestion service", "pipeline: streaming ETL", "dashboards"} {
		if !strings.Contains(got, want) {
			t.Errorf("Narrative() missing %q:\n%s", want, got)
		}
	}

	var nilResume *Resume
	if nilResume.Narrative() != "" {
		t.Error("nil resume must produce an empty narrative")
	}
}
