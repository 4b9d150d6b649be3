package search

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Result
		wantErr error
	}{
		{
			name: "plain object",
			raw:  `{"organizationIds":["org-1"],"actorIds":["a","b"]}`,
			want: Result{OrganizationIDs: []string{"org-1"}, ActorIDs: []string{"a", "b"}},
		},
		{
			name: "fenced with language",
			raw:  "```json\n{\"organizationIds\":[],\"actorIds\":[\"inv-1\"]}\n```",
			want: Result{OrganizationIDs: []string{}, ActorIDs: []string{"inv-1"}},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"organizationIds\":[\"org-2\"],\"actorIds\":[]}\n```",
			want: Result{OrganizationIDs: []string{"org-2"}, ActorIDs: []string{}},
		},
		{
			name: "fence with surrounding chatter",
			raw:  "Here you go:\n```json\n{\"organizationIds\":[],\"actorIds\":[\"x\"]}\n```\nAnything else?",
			want: Result{OrganizationIDs: []string{}, ActorIDs: []string{"x"}},
		},
		{
			name: "unclosed fence",
			raw:  "```json\n{\"organizationIds\":[],\"actorIds\":[\"x\"]}",
			want: Result{OrganizationIDs: []string{}, ActorIDs: []string{"x"}},
		},
		{
			name: "fenced id containing a fence",
			raw:  "```json\n{\"organizationIds\":[],\"actorIds\":[\"a```b\"]}\n```",
			want: Result{OrganizationIDs: []string{}, ActorIDs: []string{"a```b"}},
		},
		{
			name: "first of two fenced blocks wins",
			raw:  "```json\n{\"organizationIds\":[],\"actorIds\":[\"x\"]}\n```\nor\n```json\n{\"organizationIds\":[],\"actorIds\":[\"y\"]}\n```",
			want: Result{OrganizationIDs: []string{}, ActorIDs: []string{"x"}},
		},
		{
			name: "duplicates are kept verbatim",
			raw:  `{"organizationIds":[],"actorIds":["a","a","b"]}`,
			want: Result{OrganizationIDs: []string{}, ActorIDs: []string{"a", "a", "b"}},
		},
		{
			name: "extra fields are allowed",
			raw:  `{"organizationIds":[],"actorIds":[],"reasoning":"none"}`,
			want: Empty(),
		},
		{
			name:    "empty string",
			raw:     "",
			want:    Empty(),
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "whitespace",
			raw:     " \n\t ",
			want:    Empty(),
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "empty fence",
			raw:     "```json\n```",
			want:    Empty(),
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "not json",
			raw:     "not json",
			want:    Empty(),
			wantErr: ErrMalformed,
		},
		{
			name:    "two json values",
			raw:     `{"organizationIds":[],"actorIds":[]} {"organizationIds":[],"actorIds":[]}`,
			want:    Empty(),
			wantErr: ErrMalformed,
		},
		{
			name:    "wrong field name",
			raw:     "```json\n{\"organizationIds\":[],\"userIds\":[]}\n```",
			want:    Empty(),
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "non string ids",
			raw:     `{"organizationIds":[1,2],"actorIds":[]}`,
			want:    Empty(),
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "array instead of object",
			raw:     `["a","b"]`,
			want:    Empty(),
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "null lists",
			raw:     `{"organizationIds":null,"actorIds":null}`,
			want:    Empty(),
			wantErr: ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse(tt.raw)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := map[string]string{
		"{}":                        "{}",
		"  {}  ":                    "{}",
		"```json\n{}\n```":          "{}",
		"```JSON {}```":             "{}",
		"```\n{}\n```":              "{}",
		"```json\n{}":               "{}",
		"`{}`":                      "{}",
		"text\n```json\n{}```x":     "{}",
		"```json\n[\"a```b\"]\n```": "[\"a```b\"]",
	}

	for in, want := range tests {
		if got := extractJSON(in); got != want {
			t.Fatalf("extractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
