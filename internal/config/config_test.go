package config

import (
	"strings"
	"testing"
)

func validBase() *Config {
	c := New()
	c.Action.Name = ActionFavorite
	c.Selection.IDs = []string{"1", "2"}
	return c
}

func TestValidate_Valid(t *testing.T) {
	if err := validBase().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "no selection",
			mutate:  func(c *Config) { c.Selection.IDs = nil },
			wantSub: "--ids, --query, or --tag",
		},
		{
			name: "ids with query",
			mutate: func(c *Config) {
				c.Selection.Query = "golang"
			},
			wantSub: "mutually exclusive",
		},
		{
			name:    "bad archived",
			mutate:  func(c *Config) { c.Selection.Archived = "sometimes" },
			wantSub: "--archived",
		},
		{
			name:    "negative max items",
			mutate:  func(c *Config) { c.Selection.MaxItems = -1 },
			wantSub: "--max-items",
		},
		{
			name:    "unknown action",
			mutate:  func(c *Config) { c.Action.Name = "explode" },
			wantSub: "unknown action",
		},
		{
			name: "tag action without names",
			mutate: func(c *Config) {
				c.Action.Name = ActionTag
			},
			wantSub: "--add or --remove",
		},
		{
			name: "tag action with both",
			mutate: func(c *Config) {
				c.Action.Name = ActionTag
				c.Action.AddTags = []string{"a"}
				c.Action.RemoveTags = []string{"b"}
			},
			wantSub: "--add or --remove",
		},
		{
			name: "list action with both",
			mutate: func(c *Config) {
				c.Action.Name = ActionList
				c.Action.AddToList = "1"
				c.Action.RemoveFromList = "2"
			},
			wantSub: "--add-to or --remove-from",
		},
		{
			name:    "bad console format",
			mutate:  func(c *Config) { c.Output.ConsoleFormat = "yaml" },
			wantSub: "--console-format",
		},
		{
			name:    "bad emit",
			mutate:  func(c *Config) { c.Output.Emit = []string{"xml"} },
			wantSub: "--emit",
		},
		{
			name:    "out without extension",
			mutate:  func(c *Config) { c.Output.Out = "results" },
			wantSub: "cannot infer output format",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Runtime.Concurrency = 0 },
			wantSub: "--concurrency",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Runtime.Timeout = 0 },
			wantSub: "--timeout",
		},
		{
			name:    "negative max requests",
			mutate:  func(c *Config) { c.Runtime.MaxRequests = -1 },
			wantSub: "--max-requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validBase()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("Error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidate_NormalizesLists(t *testing.T) {
	c := validBase()
	c.Selection.IDs = []string{"1, 2", " 3 ", ""}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := []string{"1", "2", "3"}
	if len(c.Selection.IDs) != len(want) {
		t.Fatalf("IDs = %v, want %v", c.Selection.IDs, want)
	}
	for i := range want {
		if c.Selection.IDs[i] != want[i] {
			t.Fatalf("IDs = %v, want %v", c.Selection.IDs, want)
		}
	}
}

func TestValidate_InfersOutFormat(t *testing.T) {
	tests := []struct {
		out  string
		want string
	}{
		{"results.json", "json"},
		{"results.ndjson", "ndjson"},
		{"results.jsonl", "ndjson"},
	}
	for _, tt := range tests {
		c := validBase()
		c.Output.Out = tt.out
		if err := c.Validate(); err != nil {
			t.Fatalf("Validate(%s): %v", tt.out, err)
		}
		if c.Output.OutFormat != tt.want {
			t.Errorf("OutFormat for %s = %s, want %s", tt.out, c.Output.OutFormat, tt.want)
		}
	}
}

func TestValidate_NormalizesEnumCase(t *testing.T) {
	c := validBase()
	c.Selection.Archived = " ONLY "
	c.Output.ConsoleFormat = "NDJSON"
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Selection.Archived != "only" {
		t.Errorf("Archived = %q", c.Selection.Archived)
	}
	if c.Output.ConsoleFormat != "ndjson" {
		t.Errorf("ConsoleFormat = %q", c.Output.ConsoleFormat)
	}
}
